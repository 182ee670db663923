// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-heist/internal/games/heist/core"
	"gopkg.in/yaml.v3"
)

// YAMLLevel is the on-disk shape of a level. Tile coordinates are [col, row];
// angles are in degrees.
type YAMLLevel struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Size    YAMLSize     `yaml:"size"`
	Border  bool         `yaml:"border,omitempty"`
	Layout  []string     `yaml:"layout,omitempty"` // '#' marks a wall
	Walls   [][2]int     `yaml:"walls,omitempty"`
	Start   [2]int       `yaml:"start"`
	Exit    [2]int       `yaml:"exit"`
	Loot    []YAMLLoot   `yaml:"loot,omitempty"`
	Guards  []YAMLGuard  `yaml:"guards,omitempty"`
	Cameras []YAMLCamera `yaml:"cameras,omitempty"`
	Lasers  []YAMLLaser  `yaml:"lasers,omitempty"`
}

// YAMLSize represents grid dimensions in tiles.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLLoot places an item on a tile. An empty type is a bag.
type YAMLLoot struct {
	At   [2]int `yaml:"at"`
	Type string `yaml:"type,omitempty"`
}

// YAMLGuard is a patrolling guard.
type YAMLGuard struct {
	Waypoints [][2]int `yaml:"waypoints"`
	Speed     float64  `yaml:"speed"`
	Facing    float64  `yaml:"facing,omitempty"`
}

// YAMLCamera is a sweeping camera. At is in tile units, not snapped to centers.
type YAMLCamera struct {
	At         [2]float64 `yaml:"at"`
	Facing     float64    `yaml:"facing"`
	Sweep      float64    `yaml:"sweep"`
	SweepSpeed float64    `yaml:"sweep_speed"`
	View       float64    `yaml:"view"`
}

// YAMLLaser is a tripwire in tile units.
type YAMLLaser struct {
	From [2]float64 `yaml:"from"`
	To   [2]float64 `yaml:"to"`
}

func tile(p [2]int) core.Tile {
	return core.T(p[0], p[1])
}

func vec(p [2]float64) core.Vec {
	return core.Vec{X: p[0], Y: p[1]}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ParseYAML parses a YAML level file into a descriptor. It does not
// validate geometry; callers run core.Validate.
func ParseYAML(data []byte) (core.Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return core.Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	lvl := core.Level{
		ID:    yl.ID,
		Name:  yl.Name,
		Cols:  yl.Size.W,
		Rows:  yl.Size.H,
		Start: tile(yl.Start),
		Exit:  tile(yl.Exit),
	}

	// Size may be implied by the layout.
	if lvl.Rows == 0 {
		lvl.Rows = len(yl.Layout)
	}
	if lvl.Cols == 0 {
		for _, row := range yl.Layout {
			lvl.Cols = max(lvl.Cols, len(row))
		}
	}

	if yl.Border {
		for c := 0; c < lvl.Cols; c++ {
			lvl.Walls = append(lvl.Walls, core.T(c, 0), core.T(c, lvl.Rows-1))
		}
		for r := 1; r < lvl.Rows-1; r++ {
			lvl.Walls = append(lvl.Walls, core.T(0, r), core.T(lvl.Cols-1, r))
		}
	}
	for r, row := range yl.Layout {
		for c, ch := range row {
			if ch == '#' {
				lvl.Walls = append(lvl.Walls, core.T(c, r))
			}
		}
	}
	for _, w := range yl.Walls {
		lvl.Walls = append(lvl.Walls, tile(w))
	}

	for i, l := range yl.Loot {
		kind, ok := core.ParseLootKind(l.Type)
		if !ok {
			return core.Level{}, core.ValidationError{
				Code:    "UNKNOWN_LOOT",
				Message: fmt.Sprintf("loot %d has unknown type %q", i, l.Type),
			}
		}
		lvl.Loot = append(lvl.Loot, core.LootSpec{At: tile(l.At), Kind: kind})
	}

	for _, g := range yl.Guards {
		spec := core.GuardSpec{Speed: g.Speed, Facing: radians(g.Facing)}
		for _, w := range g.Waypoints {
			spec.Path = append(spec.Path, tile(w))
		}
		lvl.Guards = append(lvl.Guards, spec)
	}

	for _, c := range yl.Cameras {
		lvl.Cameras = append(lvl.Cameras, core.CameraSpec{
			At:         vec(c.At),
			Facing:     radians(c.Facing),
			Sweep:      radians(c.Sweep),
			SweepSpeed: c.SweepSpeed,
			View:       c.View,
		})
	}

	for _, l := range yl.Lasers {
		lvl.Lasers = append(lvl.Lasers, core.LaserSpec{From: vec(l.From), To: vec(l.To)})
	}

	return lvl, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
