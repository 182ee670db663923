package multiplayer

import "sync"

// Peer is the transport-neutral handle the coordinator uses to reach a
// connection. It lets rooms forward frames without depending on websockets.
type Peer interface {
	// ID returns the unique peer identifier.
	ID() PeerID

	// Send queues a frame for the peer.
	// Must be non-blocking; implementations should use buffered channels.
	Send(frame []byte)

	// Done returns a channel that closes when the peer goes away.
	Done() <-chan struct{}

	// Close disconnects the peer. Safe to call multiple times.
	Close()
}

// ChannelPeer is a Peer backed by Go channels.
// The websocket layer drains Frames into the socket.
type ChannelPeer struct {
	id       PeerID
	frames   chan []byte
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelPeer creates a channel-backed peer.
// bufferSize controls how many frames queue up before the oldest is dropped.
func NewChannelPeer(id PeerID, bufferSize int) *ChannelPeer {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelPeer{
		id:     id,
		frames: make(chan []byte, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the peer identifier.
func (p *ChannelPeer) ID() PeerID {
	return p.id
}

// Send queues a frame. If the buffer is full the oldest frame is dropped.
func (p *ChannelPeer) Send(frame []byte) {
	select {
	case <-p.done:
		return
	default:
	}
	offer(p.frames, frame)
}

// Frames returns the channel of queued frames.
func (p *ChannelPeer) Frames() <-chan []byte {
	return p.frames
}

// Done returns the done channel.
func (p *ChannelPeer) Done() <-chan struct{} {
	return p.done
}

// Close marks the peer as gone. Safe to call multiple times.
func (p *ChannelPeer) Close() {
	p.doneOnce.Do(func() {
		close(p.done)
	})
}

// offer puts v on ch without blocking, making room by dropping the oldest
// queued value when ch is full.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	// Best effort: another sender may have refilled the slot.
	select {
	case ch <- v:
	default:
	}
}
