package core

import (
	"math"

	platformcore "github.com/vovakirdan/tui-heist/internal/core"
)

// Observer is anything with a vision cone: a guard or a camera.
type Observer struct {
	Pos       Vec
	Facing    float64 // radians
	HalfAngle float64 // radians either side of Facing
	Range     float64 // world units
}

// InFieldOfView is a strict AND of three tests: the target is within range,
// inside the cone and not occluded by walls.
func InFieldOfView(grid *TileGrid, obs Observer, target Vec) bool {
	if obs.Pos.Dist(target) > obs.Range {
		return false
	}
	diff := platformcore.AngleDiff(obs.Pos.AngleTo(target), obs.Facing)
	if math.Abs(diff) > obs.HalfAngle {
		return false
	}
	return grid.HasLineOfSight(obs.Pos, target)
}

// Proximity is 1 at the observer and falls linearly to 0 at the edge of range.
func Proximity(obs Observer, target Vec) float64 {
	if obs.Range <= 0 {
		return 0
	}
	return 1 - math.Min(obs.Pos.Dist(target)/obs.Range, 1)
}
