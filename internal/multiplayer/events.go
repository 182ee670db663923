package multiplayer

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/tui-heist/internal/games/heist/core"
)

// Message types on the wire. Game messages travel between peers unchanged;
// control messages are written by the relay itself.
const (
	TypePosition   = "pos"
	TypeLoot       = "loot"
	TypeStartLevel = "startLevel"
	TypeNextLevel  = "nextLevel"

	TypeRoom   = "room"   // relay -> host: the room code to share
	TypeJoined = "joined" // relay -> both: the room is paired
	TypeLeft   = "left"   // relay -> survivor: the partner disconnected
	TypeError  = "error"  // relay -> client: the request failed
)

// Message is one JSON frame.
type Message struct {
	Type     string  `json:"type"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Sneaking bool    `json:"sneaking,omitempty"`
	Idx      *int    `json:"idx,omitempty"`
	Level    int     `json:"level,omitempty"`
	Code     string  `json:"code,omitempty"`
	Role     string  `json:"role,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// EncodeEvent serializes an outbound simulation event.
// PartnerLeftEvent is local only and cannot be encoded.
func EncodeEvent(e core.Event) ([]byte, error) {
	var m Message
	switch ev := e.(type) {
	case core.PositionEvent:
		m = Message{Type: TypePosition, X: ev.X, Y: ev.Y, Sneaking: ev.Sneaking}
	case core.LootEvent:
		idx := ev.Index
		m = Message{Type: TypeLoot, Idx: &idx}
	case core.LevelEvent:
		m = Message{Type: TypeNextLevel, Level: ev.Level}
		if ev.Start {
			m.Type = TypeStartLevel
		}
	default:
		return nil, fmt.Errorf("cannot encode %T", e)
	}
	return json.Marshal(m)
}

// DecodeMessage parses one frame.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decoding frame: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("decoding frame: missing type")
	}
	return m, nil
}

// Event converts a message into a simulation event. A "left" notice becomes
// PartnerLeftEvent; other control messages and malformed game messages
// report false.
func (m Message) Event() (core.Event, bool) {
	switch m.Type {
	case TypePosition:
		return core.PositionEvent{X: m.X, Y: m.Y, Sneaking: m.Sneaking}, true
	case TypeLoot:
		if m.Idx == nil {
			return nil, false
		}
		return core.LootEvent{Index: *m.Idx}, true
	case TypeStartLevel:
		return core.LevelEvent{Level: m.Level, Start: true}, true
	case TypeNextLevel:
		return core.LevelEvent{Level: m.Level}, true
	case TypeLeft:
		return core.PartnerLeftEvent{}, true
	default:
		return nil, false
	}
}

func controlFrame(m Message) []byte {
	data, err := json.Marshal(m)
	if err != nil {
		// Message has only plain fields; Marshal cannot fail.
		panic(err)
	}
	return data
}
