package core

// Event crosses the boundary between the simulation and the co-op transport.
// Delivery is best effort in both directions.
type Event interface {
	event()
}

// PositionEvent carries the sender's protagonist position.
type PositionEvent struct {
	X, Y     float64
	Sneaking bool
}

// LootEvent reports that the sender picked up the item at Index.
type LootEvent struct {
	Index int
}

// LevelEvent asks the receiver to jump to a level. Start is set when the
// host begins a game; otherwise the sender has just cleared a level.
type LevelEvent struct {
	Level int
	Start bool
}

// PartnerLeftEvent is synthesized by the transport when the peer drops.
type PartnerLeftEvent struct{}

func (PositionEvent) event()    {}
func (LootEvent) event()        {}
func (LevelEvent) event()       {}
func (PartnerLeftEvent) event() {}

// Sink receives outbound events. Emit must not block.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }
