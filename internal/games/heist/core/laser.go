package core

import platformcore "github.com/vovakirdan/tui-heist/internal/core"

// Laser is a static tripwire between two points.
type Laser struct {
	A, B   Vec
	Active bool
	Margin float64
}

// NewLaser creates an active laser.
func NewLaser(a, b Vec, margin float64) *Laser {
	return &Laser{A: a, B: b, Active: true, Margin: margin}
}

func (l *Laser) Kind() ThreatKind { return ThreatLaser }
func (l *Laser) sealed()          {}

// Advance is a no-op: lasers never move.
func (l *Laser) Advance(float64) {}

// Tripped reports whether the body touches the beam.
func (l *Laser) Tripped(target Body) bool {
	if !l.Active {
		return false
	}
	closest := platformcore.ClosestPointOnSegment(target.Pos, l.A, l.B)
	return closest.Dist(target.Pos) < target.Radius+l.Margin
}

// Evaluate reports a trip; lasers never detect by sight.
func (l *Laser) Evaluate(_ *TileGrid, target Body) Sighting {
	return Sighting{Tripped: l.Tripped(target)}
}
