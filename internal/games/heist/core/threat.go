package core

// ThreatKind tags the three threat variants.
type ThreatKind uint8

const (
	ThreatGuard ThreatKind = iota
	ThreatCamera
	ThreatLaser
)

func (k ThreatKind) String() string {
	switch k {
	case ThreatGuard:
		return "guard"
	case ThreatCamera:
		return "camera"
	case ThreatLaser:
		return "laser"
	default:
		return "unknown"
	}
}

// Body is a circle in world space.
type Body struct {
	Pos    Vec
	Radius float64
}

// Sighting is what one threat reports about the protagonist this tick.
type Sighting struct {
	Detecting bool    // inside a vision cone
	Proximity float64 // only meaningful when Detecting
	Tripped   bool    // laser contact
}

// Threat is implemented by *Guard, *Camera and *Laser only.
type Threat interface {
	Kind() ThreatKind
	// Advance moves the threat forward by dt normalized frames.
	Advance(dt float64)
	// Evaluate tests the target against the threat and updates its detecting flag.
	Evaluate(grid *TileGrid, target Body) Sighting

	sealed()
}

// evaluateCone is the shared vision test for guards and cameras.
func evaluateCone(grid *TileGrid, obs Observer, target Body) Sighting {
	if !InFieldOfView(grid, obs, target.Pos) {
		return Sighting{}
	}
	return Sighting{Detecting: true, Proximity: Proximity(obs, target.Pos)}
}
