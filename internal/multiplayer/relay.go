package multiplayer

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	maxFrameSize   = 4096
	peerBufferSize = 256
)

// Relay serves the co-op endpoints: /ws pairs players and forwards their
// frames, /api/signal is the signaling store.
type Relay struct {
	coord    *Coordinator
	signals  *SignalStore
	upgrader websocket.Upgrader
	logger   *log.Logger
	nextID   atomic.Uint64
}

// NewRelay creates a relay around coord.
func NewRelay(coord *Coordinator, logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Relay{
		coord:   coord,
		signals: NewSignalStore(SignalTTL),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins; the relay holds no secrets
			},
		},
		logger: logger,
	}
}

// Signals returns the relay's signaling store.
func (r *Relay) Signals() *SignalStore {
	return r.signals
}

// Handler returns the HTTP routes.
func (r *Relay) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", r.serveWS)
	mux.Handle("/api/signal", r.signals)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rooms": r.coord.RoomCount()})
	})
	return mux
}

// serveWS hosts a new room when no code is given, otherwise joins one.
// Join failures are answered before the upgrade so clients see a status code.
func (r *Relay) serveWS(w http.ResponseWriter, req *http.Request) {
	peer := NewChannelPeer(PeerID(fmt.Sprintf("peer-%d", r.nextID.Add(1))), peerBufferSize)
	code := NormalizeCode(req.URL.Query().Get("code"))

	if code != "" {
		if err := r.coord.Join(code, peer); err != nil {
			status := http.StatusConflict
			if errors.Is(err, ErrRoomNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
	}

	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("websocket upgrade failed", "err", err)
		if code != "" {
			r.coord.Leave(code, peer.ID())
		}
		return
	}
	if code == "" {
		code = r.coord.Create(peer)
	}

	go writePump(conn, peer)
	r.readPump(conn, code, peer)

	r.coord.Leave(code, peer.ID())
	peer.Close()
}

func (r *Relay) readPump(conn *websocket.Conn, code string, peer *ChannelPeer) {
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.logger.Debug("peer read failed", "code", code, "peer", peer.ID(), "err", err)
			}
			return
		}
		r.coord.Forward(code, peer.ID(), frame)
	}
}

// writePump drains queued frames into the socket until the peer is closed.
func writePump(conn *websocket.Conn, peer *ChannelPeer) {
	defer conn.Close()

	for {
		select {
		case frame := <-peer.Frames():
			w, err := conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-peer.Done():
			_ = conn.WriteMessage(websocket.CloseMessage, //nolint:errcheck // closing anyway
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
