package config

import (
	_ "embed"
)

//go:embed defaults/heist.yaml
var defaultHeistYAML []byte

// DefaultHeistConfig returns the built-in tuning, used when no YAML can be read.
func DefaultHeistConfig() HeistConfig {
	return HeistConfig{
		World: WorldConfig{
			TileSize:       40,
			CollisionInset: 4,
			LOSSteps:       10,
		},
		Hero: HeroConfig{
			Radius:     10,
			Speed:      2.2,
			SneakSpeed: 1.3,
		},
		Guards: GuardConfig{
			ArriveThreshold: 0.5,
			ViewBase:        2.5,
			ViewPerLevel:    0.25,
			ConeBase:        0.28,
			ConePerLevel:    0.02,
		},
		Cameras: CameraConfig{
			Cone:      0.22,
			TimeScale: 60,
		},
		Lasers: LaserConfig{
			Margin: 4,
			Burst:  0.35,
		},
		Alert: AlertConfig{
			WalkDetect:    0.022,
			SneakDetect:   0.010,
			DetectBase:    0.7,
			DetectPerLvl:  0.05,
			DecayBase:     0.007,
			DecayPerLevel: 0.0006,
			DecayFloor:    0.002,
			FrameScale:    60,
		},
		Pickup: PickupConfig{
			LootRadius: 0.7,
			ExitRadius: 0.8,
		},
		Timing: TimingConfig{
			FrameMillis: 1000.0 / 60.0,
			MaxDelta:    3,
		},
		Difficulty: DifficultyConfig{
			Progression:    true,
			DetectMultiply: 1,
			DecayMultiply:  1,
		},
	}
}
