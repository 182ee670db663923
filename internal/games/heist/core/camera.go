package core

import "math"

// Camera is fixed in place and sweeps its cone sinusoidally around a base angle.
type Camera struct {
	Pos        Vec
	Base       float64
	Sweep      float64 // half-amplitude, radians
	SweepSpeed float64 // phase per normalized frame before TimeScale
	Phase      float64
	Range      float64
	HalfAngle  float64
	TimeScale  float64
	Facing     float64

	detecting bool
}

// NewCamera creates a camera whose facing already reflects its starting phase.
func NewCamera(pos Vec, base, sweep, sweepSpeed, phase, viewRange, halfAngle, timeScale float64) *Camera {
	c := &Camera{
		Pos:        pos,
		Base:       base,
		Sweep:      sweep,
		SweepSpeed: sweepSpeed,
		Phase:      phase,
		Range:      viewRange,
		HalfAngle:  halfAngle,
		TimeScale:  timeScale,
	}
	c.Facing = c.facingAt(phase)
	return c
}

func (c *Camera) Kind() ThreatKind { return ThreatCamera }
func (c *Camera) sealed()          {}

// Detecting reports the result of the last Evaluate.
func (c *Camera) Detecting() bool { return c.detecting }

func (c *Camera) facingAt(phase float64) float64 {
	return c.Base + math.Sin(phase)*c.Sweep
}

// Observer returns the camera's current vision cone.
func (c *Camera) Observer() Observer {
	return Observer{Pos: c.Pos, Facing: c.Facing, HalfAngle: c.HalfAngle, Range: c.Range}
}

// Advance moves the sweep phase; facing stays within Base±Sweep.
func (c *Camera) Advance(dt float64) {
	c.Phase += c.SweepSpeed * dt * c.TimeScale
	c.Facing = c.facingAt(c.Phase)
}

// Evaluate tests the target against the camera's cone.
func (c *Camera) Evaluate(grid *TileGrid, target Body) Sighting {
	s := evaluateCone(grid, c.Observer(), target)
	c.detecting = s.Detecting
	return s
}
