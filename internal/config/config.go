// Package config provides YAML-based tuning for the heist game and the
// difficulty presets layered on top of it.
package config

// HeistConfig contains every tunable constant of the simulation.
// Distances are in world units unless the field name says tiles.
type HeistConfig struct {
	World      WorldConfig      `yaml:"world"`
	Hero       HeroConfig       `yaml:"hero"`
	Guards     GuardConfig      `yaml:"guards"`
	Cameras    CameraConfig     `yaml:"cameras"`
	Lasers     LaserConfig      `yaml:"lasers"`
	Alert      AlertConfig      `yaml:"alert"`
	Pickup     PickupConfig     `yaml:"pickup"`
	Timing     TimingConfig     `yaml:"timing"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the tile grid and the geometry queries against it.
type WorldConfig struct {
	TileSize       float64 `yaml:"tile_size"`
	CollisionInset float64 `yaml:"collision_inset"` // corner inset for wall collision
	LOSSteps       int     `yaml:"los_steps"`       // samples per line-of-sight test
}

// HeroConfig defines the protagonist.
type HeroConfig struct {
	Radius     float64 `yaml:"radius"`
	Speed      float64 `yaml:"speed"`
	SneakSpeed float64 `yaml:"sneak_speed"`
}

// GuardConfig defines guard motion and how guard vision grows with the level.
// View distance is in tiles; cone values are fractions of π.
type GuardConfig struct {
	ArriveThreshold float64 `yaml:"arrive_threshold"`
	ViewBase        float64 `yaml:"view_base"`
	ViewPerLevel    float64 `yaml:"view_per_level"`
	ConeBase        float64 `yaml:"cone_base"`
	ConePerLevel    float64 `yaml:"cone_per_level"`
}

// CameraConfig defines the camera cone and sweep time base.
type CameraConfig struct {
	Cone      float64 `yaml:"cone"` // half-angle as a fraction of π
	TimeScale float64 `yaml:"time_scale"`
}

// LaserConfig defines tripwire sensitivity.
type LaserConfig struct {
	Margin float64 `yaml:"margin"`
	Burst  float64 `yaml:"burst"` // alert added per normalized frame in the beam
}

// AlertConfig defines detection and decay rates before level scaling.
type AlertConfig struct {
	WalkDetect    float64 `yaml:"walk_detect"`
	SneakDetect   float64 `yaml:"sneak_detect"`
	DetectBase    float64 `yaml:"detect_base"`
	DetectPerLvl  float64 `yaml:"detect_per_level"`
	DecayBase     float64 `yaml:"decay_base"`
	DecayPerLevel float64 `yaml:"decay_per_level"`
	DecayFloor    float64 `yaml:"decay_floor"`
	FrameScale    float64 `yaml:"frame_scale"`
}

// PickupConfig defines interaction radii, in tiles.
type PickupConfig struct {
	LootRadius float64 `yaml:"loot_radius"`
	ExitRadius float64 `yaml:"exit_radius"`
}

// TimingConfig defines the host frame clock.
type TimingConfig struct {
	FrameMillis float64 `yaml:"frame_ms"`  // nominal frame interval
	MaxDelta    float64 `yaml:"max_delta"` // cap on one step, in nominal frames
}

// DifficultyConfig scales detection on top of the per-level curve.
type DifficultyConfig struct {
	Progression    bool    `yaml:"progression"` // false pins scaling to level 1
	DetectMultiply float64 `yaml:"detect_multiplier"`
	DecayMultiply  float64 `yaml:"decay_multiplier"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown strings yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// multipliersForPreset returns detect and decay multipliers for a preset.
func multipliersForPreset(preset DifficultyPreset) (detect, decay float64) {
	switch preset {
	case DifficultyEasy:
		return 0.75, 1.25
	case DifficultyHard:
		return 1.25, 0.8
	default:
		return 1, 1
	}
}
