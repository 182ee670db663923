package core

import (
	"math"

	platformcore "github.com/vovakirdan/tui-heist/internal/core"
)

// Intent is the player's movement request for one tick.
type Intent struct {
	DX, DY int // each -1, 0 or 1
	Sneak  bool
}

// Direction returns the unit movement vector; diagonals are normalized.
func (in Intent) Direction() Vec {
	dx := float64(platformcore.Clamp(in.DX, -1, 1))
	dy := float64(platformcore.Clamp(in.DY, -1, 1))
	if dx != 0 && dy != 0 {
		dx *= math.Sqrt2 / 2
		dy *= math.Sqrt2 / 2
	}
	return Vec{X: dx, Y: dy}
}

// Hero is the locally controlled protagonist.
type Hero struct {
	Pos        Vec
	Radius     float64
	Speed      float64
	SneakSpeed float64
	Sneaking   bool
}

// Body returns the hero's collision circle.
func (h *Hero) Body() Body {
	return Body{Pos: h.Pos, Radius: h.Radius}
}

// Move applies one tick of intent. Each axis is tried separately so the hero
// slides along walls, then the position is clamped inside the level.
func (h *Hero) Move(grid *TileGrid, in Intent, dt float64) {
	h.Sneaking = in.Sneak
	speed := h.Speed
	if in.Sneak {
		speed = h.SneakSpeed
	}
	step := in.Direction().Scale(speed * dt)

	if nx := (Vec{X: h.Pos.X + step.X, Y: h.Pos.Y}); !grid.CollidesWall(nx, h.Radius) {
		h.Pos = nx
	}
	if ny := (Vec{X: h.Pos.X, Y: h.Pos.Y + step.Y}); !grid.CollidesWall(ny, h.Radius) {
		h.Pos = ny
	}

	w, hgt := grid.Size()
	h.Pos.X = platformcore.ClampF(h.Pos.X, h.Radius, w-h.Radius)
	h.Pos.Y = platformcore.ClampF(h.Pos.Y, h.Radius, hgt-h.Radius)
}

// Partner is the last known position of the co-op peer. It is cosmetic
// except for the exit check.
type Partner struct {
	Pos      Vec
	Sneaking bool
}
