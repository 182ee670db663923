package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)

	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("dimensions = %dx%d, expected 12x4", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Errorf("cell (%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenColoredCells(t *testing.T) {
	s := NewScreen(10, 3)

	s.SetColored(2, 1, 'G', ColorRed)
	if c := s.GetCell(2, 1); c.Rune != 'G' || c.Color != ColorRed {
		t.Errorf("GetCell(2, 1) = %+v, expected red G", c)
	}

	s.Tint(2, 1, ColorYellow)
	if c := s.GetCell(2, 1); c.Rune != 'G' || c.Color != ColorYellow {
		t.Errorf("after Tint, GetCell(2, 1) = %+v, expected yellow G", c)
	}

	// Out of bounds writes are dropped and reads come back blank.
	s.SetColored(-1, 0, 'X', ColorRed)
	s.SetColored(0, 99, 'X', ColorRed)
	if c := s.GetCell(-1, 0); c.Rune != ' ' {
		t.Errorf("out of bounds GetCell = %+v, expected blank", c)
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(8, 2)
	s.DrawTextColored(5, 0, "ALERT", ColorBrightRed)

	if got := s.Row(0); got != "     ALE" {
		t.Errorf("Row(0) = %q, expected clipped text", got)
	}
	if c := s.GetCell(6, 0); c.Color != ColorBrightRed {
		t.Errorf("clipped text color = %v, expected bright red", c.Color)
	}
}

func TestScreenDrawTextCenteredCountsRunes(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "█░░", ColorDefault)

	// Three runes centered in eleven columns start at column four.
	if s.Get(4, 0) != '█' || s.Get(6, 0) != '░' {
		t.Errorf("DrawTextCentered() row = %q", s.Row(0))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(8, 5)
	s.DrawText(0, 2, "xxxxxxxx")
	s.DrawBox(NewRect(1, 1, 5, 3), ColorCyan)

	if s.Get(1, 1) != '┌' || s.Get(5, 1) != '┐' || s.Get(1, 3) != '└' || s.Get(5, 3) != '┘' {
		t.Errorf("corners wrong:\n%s", s.String())
	}
	if s.Get(3, 2) != ' ' {
		t.Errorf("box interior should be cleared, got %q", s.Get(3, 2))
	}
	if s.Get(0, 2) != 'x' || s.Get(7, 2) != 'x' {
		t.Errorf("box must not touch cells outside it:\n%s", s.String())
	}
	if s.GetCell(1, 2).Color != ColorCyan {
		t.Errorf("border color = %v, expected cyan", s.GetCell(1, 2).Color)
	}
}

func TestScreenResizeKeepsContent(t *testing.T) {
	s := NewScreen(10, 6)
	s.SetColored(0, 0, 'H', ColorGreen)
	s.DrawText(1, 0, "eist")

	s.Resize(6, 2)
	if !strings.HasPrefix(s.Row(0), "Heist") {
		t.Errorf("Row(0) after shrink = %q", s.Row(0))
	}

	s.Resize(20, 8)
	if !strings.HasPrefix(s.Row(0), "Heist") || s.GetCell(0, 0).Color != ColorGreen {
		t.Errorf("content lost after grow: %q", s.Row(0))
	}
	if s.Row(-1) != strings.Repeat(" ", 20) {
		t.Error("out of bounds Row should be spaces")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "ab")
	s.DrawText(0, 1, "cde")

	if got := s.String(); got != "ab \ncde" {
		t.Errorf("String() = %q", got)
	}
}
