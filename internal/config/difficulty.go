package config

import "math"

// effectiveLevel pins the ordinal to 1 when progression is off.
func (c HeistConfig) effectiveLevel(level int) float64 {
	if !c.Difficulty.Progression || level < 1 {
		return 1
	}
	return float64(level)
}

// GuardView returns guard view distance in world units for a level ordinal.
func (c HeistConfig) GuardView(level int) float64 {
	lvl := c.effectiveLevel(level)
	return c.World.TileSize * (c.Guards.ViewBase + lvl*c.Guards.ViewPerLevel)
}

// GuardCone returns the guard FOV half-angle in radians for a level ordinal.
func (c HeistConfig) GuardCone(level int) float64 {
	lvl := c.effectiveLevel(level)
	return math.Pi * (c.Guards.ConeBase + lvl*c.Guards.ConePerLevel)
}

// CameraCone returns the fixed camera FOV half-angle in radians.
func (c HeistConfig) CameraCone() float64 {
	return math.Pi * c.Cameras.Cone
}

// DetectRate returns alert gained per normalized frame at full proximity.
// Sneaking uses the lower base; later levels multiply it up linearly.
func (c HeistConfig) DetectRate(level int, sneaking bool) float64 {
	base := c.Alert.WalkDetect
	if sneaking {
		base = c.Alert.SneakDetect
	}
	lvl := c.effectiveLevel(level)
	scale := c.Alert.DetectBase + (lvl-1)*c.Alert.DetectPerLvl
	return base * scale * c.Difficulty.DetectMultiply
}

// DecayRate returns alert lost per normalized frame while unseen.
// It shrinks linearly with the level but never drops below the floor.
func (c HeistConfig) DecayRate(level int) float64 {
	lvl := c.effectiveLevel(level)
	rate := math.Max(c.Alert.DecayFloor, c.Alert.DecayBase-(lvl-1)*c.Alert.DecayPerLevel)
	return rate * c.Difficulty.DecayMultiply
}

// FrameDelta converts elapsed milliseconds to nominal frames, capped at MaxDelta.
func (c HeistConfig) FrameDelta(elapsedMillis float64) float64 {
	if c.Timing.FrameMillis <= 0 || elapsedMillis <= 0 {
		return 0
	}
	return math.Min(elapsedMillis/c.Timing.FrameMillis, c.Timing.MaxDelta)
}
