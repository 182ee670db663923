package multiplayer

import (
	"testing"

	"github.com/vovakirdan/tui-heist/internal/games/heist/core"
)

func TestEncodeEventWireFormat(t *testing.T) {
	tests := []struct {
		name     string
		event    core.Event
		expected string
	}{
		{"position", core.PositionEvent{X: 60.5, Y: 30, Sneaking: true}, `{"type":"pos","x":60.5,"y":30,"sneaking":true}`},
		{"loot zero", core.LootEvent{Index: 0}, `{"type":"loot","idx":0}`},
		{"start level", core.LevelEvent{Level: 1, Start: true}, `{"type":"startLevel","level":1}`},
		{"next level", core.LevelEvent{Level: 3}, `{"type":"nextLevel","level":3}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeEvent(tc.event)
			if err != nil {
				t.Fatalf("EncodeEvent() error = %v", err)
			}
			if string(got) != tc.expected {
				t.Errorf("EncodeEvent() = %s, expected %s", got, tc.expected)
			}
		})
	}
}

func TestEncodePartnerLeftFails(t *testing.T) {
	if _, err := EncodeEvent(core.PartnerLeftEvent{}); err == nil {
		t.Error("PartnerLeftEvent is local and should not encode")
	}
}

func TestDecodeEvents(t *testing.T) {
	tests := []struct {
		frame    string
		expected core.Event
		ok       bool
	}{
		{`{"type":"pos","x":12,"y":7}`, core.PositionEvent{X: 12, Y: 7}, true},
		{`{"type":"loot","idx":2}`, core.LootEvent{Index: 2}, true},
		{`{"type":"loot"}`, nil, false},
		{`{"type":"startLevel","level":1}`, core.LevelEvent{Level: 1, Start: true}, true},
		{`{"type":"nextLevel","level":4}`, core.LevelEvent{Level: 4}, true},
		{`{"type":"left"}`, core.PartnerLeftEvent{}, true},
		{`{"type":"joined","code":"ABCD"}`, nil, false},
		{`{"type":"chat","text":"hi"}`, nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.frame, func(t *testing.T) {
			m, err := DecodeMessage([]byte(tc.frame))
			if err != nil {
				t.Fatalf("DecodeMessage() error = %v", err)
			}
			got, ok := m.Event()
			if ok != tc.ok || got != tc.expected {
				t.Errorf("Event() = %#v, %v; expected %#v, %v", got, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	for _, frame := range []string{`not json`, `{}`, `{"x":1}`} {
		if _, err := DecodeMessage([]byte(frame)); err == nil {
			t.Errorf("DecodeMessage(%s) should fail", frame)
		}
	}
}
