package multiplayer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-heist/internal/games/heist/core"
)

const (
	inboundBufferSize = 64
	handshakeTimeout  = 10 * time.Second
)

// PeerLink is a player's connection to the relay. It is the simulation's
// outbound Sink and a source of inbound events.
type PeerLink struct {
	conn   *websocket.Conn
	code   string
	role   Role
	logger *log.Logger

	out     *ChannelPeer
	inbound chan core.Event
	paired  chan struct{}
	done    chan struct{}

	closing   atomic.Bool
	closeOnce sync.Once
}

var _ core.Sink = (*PeerLink)(nil)

// Host opens a new room on the relay and waits for its code.
func Host(ctx context.Context, relayURL string, logger *log.Logger) (*PeerLink, error) {
	return dial(ctx, relayURL, "", logger)
}

// Join enters the room with the given code.
func Join(ctx context.Context, relayURL, code string, logger *log.Logger) (*PeerLink, error) {
	code = NormalizeCode(code)
	if !ValidCode(code) {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, code)
	}
	return dial(ctx, relayURL, code, logger)
}

func dial(ctx context.Context, relayURL, code string, logger *log.Logger) (*PeerLink, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	u, err := wsURL(relayURL, code)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close() //nolint:errcheck // body is never read
	}
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
			case http.StatusConflict:
				return nil, fmt.Errorf("%w: %s", ErrRoomFull, code)
			}
		}
		return nil, fmt.Errorf("dialing relay %s: %w", relayURL, err)
	}

	p := &PeerLink{
		conn:    conn,
		code:    code,
		role:    RoleGuest,
		logger:  logger,
		out:     NewChannelPeer("local", peerBufferSize),
		inbound: make(chan core.Event, inboundBufferSize),
		paired:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	if code == "" {
		p.role = RoleHost
		if err := p.awaitRoom(ctx); err != nil {
			_ = conn.Close() //nolint:errcheck // already failing
			return nil, err
		}
	}

	go writePump(conn, p.out)
	go p.readPump()
	return p, nil
}

// wsURL turns an http(s) or ws(s) relay address into the /ws endpoint.
func wsURL(relayURL, code string) (string, error) {
	if !strings.Contains(relayURL, "://") {
		relayURL = "ws://" + relayURL
	}
	u, err := url.Parse(relayURL)
	if err != nil {
		return "", fmt.Errorf("parsing relay url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported relay scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	q := u.Query()
	if code != "" {
		q.Set("code", code)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// awaitRoom reads the relay's first frame, which carries the room code.
func (p *PeerLink) awaitRoom(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(handshakeTimeout)
	}
	_ = p.conn.SetReadDeadline(deadline) //nolint:errcheck // surfaced by ReadMessage
	defer p.conn.SetReadDeadline(time.Time{}) //nolint:errcheck // cleared before pumping

	_, frame, err := p.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("waiting for room code: %w", err)
	}
	m, err := DecodeMessage(frame)
	if err != nil {
		return err
	}
	if m.Type != TypeRoom || !ValidCode(m.Code) {
		return fmt.Errorf("unexpected first frame %q", m.Type)
	}
	p.code = m.Code
	return nil
}

// Code returns the room code.
func (p *PeerLink) Code() string {
	return p.code
}

// Role returns which side of the room this link plays.
func (p *PeerLink) Role() Role {
	return p.role
}

// Events returns inbound simulation events. The channel is closed once the
// link is down, after a PartnerLeftEvent if the drop was not local.
func (p *PeerLink) Events() <-chan core.Event {
	return p.inbound
}

// Paired signals each time a partner arrives in the room.
func (p *PeerLink) Paired() <-chan struct{} {
	return p.paired
}

// Done closes when the link is down.
func (p *PeerLink) Done() <-chan struct{} {
	return p.done
}

// Emit sends an event to the partner. It never blocks; under backpressure
// the oldest queued frame is dropped.
func (p *PeerLink) Emit(e core.Event) {
	if p.closing.Load() {
		return
	}
	frame, err := EncodeEvent(e)
	if err != nil {
		p.logger.Debug("dropping event", "err", err)
		return
	}
	p.out.Send(frame)
}

// Close disconnects from the relay. Safe to call multiple times.
func (p *PeerLink) Close() error {
	p.closeOnce.Do(func() {
		p.closing.Store(true)
		p.out.Close()
	})
	return nil
}

func (p *PeerLink) readPump() {
	defer close(p.done)
	defer close(p.inbound)
	defer p.conn.Close()

	for {
		_, frame, err := p.conn.ReadMessage()
		if err != nil {
			if !p.closing.Load() {
				p.logger.Warn("relay connection lost", "code", p.code, "err", err)
				offer(p.inbound, core.Event(core.PartnerLeftEvent{}))
			}
			p.out.Close()
			return
		}

		m, err := DecodeMessage(frame)
		if err != nil {
			p.logger.Debug("ignoring frame", "err", err)
			continue
		}
		switch m.Type {
		case TypeJoined:
			offer(p.paired, struct{}{})
			continue
		case TypeError:
			p.logger.Warn("relay error", "code", p.code, "msg", m.Error)
			continue
		}
		if ev, ok := m.Event(); ok {
			offer(p.inbound, ev)
		}
	}
}
