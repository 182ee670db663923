package tui

import (
	"time"

	"github.com/vovakirdan/tui-heist/internal/core"
)

// holdWindow is how long a direction stays held after its key was seen.
// Terminals report presses and auto-repeats but never releases, so a held
// key is one that keeps repeating within the window.
const holdWindow = 220 * time.Millisecond

var directions = [4]core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight}

// heldInput turns discrete key presses into held directions.
type heldInput struct {
	until      [4]time.Time
	sneakUntil time.Time
}

func directionIndex(a core.Action) int {
	for i, d := range directions {
		if d == a {
			return i
		}
	}
	return -1
}

// press holds a direction and releases its opposite.
func (h *heldInput) press(a core.Action, sneaking bool, now time.Time) {
	i := directionIndex(a)
	if i < 0 {
		return
	}
	h.until[i] = now.Add(holdWindow)
	h.until[i^1] = time.Time{} // up/down and left/right are adjacent pairs
	if sneaking {
		h.sneakUntil = now.Add(holdWindow)
	} else {
		h.sneakUntil = time.Time{}
	}
}

// apply sets every direction still held at now.
func (h *heldInput) apply(f *core.InputFrame, now time.Time) {
	for i, d := range directions {
		if now.Before(h.until[i]) {
			f.Set(d)
		}
	}
	if now.Before(h.sneakUntil) {
		f.Set(core.ActionSneak)
	}
}

// release lets go of everything.
func (h *heldInput) release() {
	*h = heldInput{}
}
