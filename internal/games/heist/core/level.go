package core

import (
	"errors"
	"fmt"
)

// ErrNoLevels is returned by a LevelSource with nothing to play.
var ErrNoLevels = errors.New("no levels available")

// LootSpec places one item on a tile center.
type LootSpec struct {
	At   Tile
	Kind LootKind
}

// GuardSpec describes a patrol. Waypoints are tile centers.
type GuardSpec struct {
	Path   []Tile
	Speed  float64 // world units per normalized frame
	Facing float64 // radians, overwritten as soon as the guard moves
}

// CameraSpec describes a sweeping camera. At is in tile units and not snapped
// to a tile center, so a camera can sit on a wall corner.
type CameraSpec struct {
	At         Vec
	Facing     float64 // base angle, radians
	Sweep      float64 // half-amplitude, radians
	SweepSpeed float64
	View       float64 // range in tiles
}

// LaserSpec is a tripwire between two points in tile units.
type LaserSpec struct {
	From, To Vec
}

// Level is the immutable descriptor a session is built from. All positions
// are in tiles; the session converts them to world units.
type Level struct {
	ID      string
	Name    string
	Cols    int
	Rows    int
	Walls   []Tile
	Loot    []LootSpec
	Guards  []GuardSpec
	Cameras []CameraSpec
	Lasers  []LaserSpec
	Start   Tile
	Exit    Tile
}

// LevelSource supplies levels by 1-based ordinal.
type LevelSource interface {
	// Count is the number of distinct levels.
	Count() int
	// Level returns the descriptor for an ordinal; ordinals past Count wrap.
	Level(ordinal int) (Level, error)
}

// ValidationError contains details about a malformed level.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) error {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validate fails fast on the first problem that would make the simulation
// undefined. Guard waypoints may sit inside walls since guards do not collide.
func Validate(l Level) error {
	if l.Cols <= 0 || l.Rows <= 0 {
		return invalid("BAD_SIZE", "level %q has size %dx%d", l.ID, l.Cols, l.Rows)
	}
	in := func(t Tile) bool {
		return t.Col >= 0 && t.Col < l.Cols && t.Row >= 0 && t.Row < l.Rows
	}
	inF := func(v Vec) bool {
		return v.X >= 0 && v.X <= float64(l.Cols) && v.Y >= 0 && v.Y <= float64(l.Rows)
	}

	walls := make(map[Tile]bool, len(l.Walls))
	for _, w := range l.Walls {
		if !in(w) {
			return invalid("WALL_OUT_OF_BOUNDS", "wall %v outside %dx%d", w, l.Cols, l.Rows)
		}
		walls[w] = true
	}

	if !in(l.Start) {
		return invalid("START_OUT_OF_BOUNDS", "start %v outside %dx%d", l.Start, l.Cols, l.Rows)
	}
	if walls[l.Start] {
		return invalid("START_IN_WALL", "start %v is a wall", l.Start)
	}
	if !in(l.Exit) {
		return invalid("EXIT_OUT_OF_BOUNDS", "exit %v outside %dx%d", l.Exit, l.Cols, l.Rows)
	}
	if walls[l.Exit] {
		return invalid("EXIT_IN_WALL", "exit %v is a wall", l.Exit)
	}

	for i, it := range l.Loot {
		if !in(it.At) {
			return invalid("LOOT_OUT_OF_BOUNDS", "loot %d at %v outside the level", i, it.At)
		}
		if !it.Kind.Valid() {
			return invalid("UNKNOWN_LOOT", "loot %d has unknown kind %v", i, it.Kind)
		}
	}

	for i, g := range l.Guards {
		if len(g.Path) == 0 {
			return invalid("EMPTY_PATROL", "guard %d has no waypoints", i)
		}
		if g.Speed < 0 {
			return invalid("BAD_SPEED", "guard %d has negative speed %v", i, g.Speed)
		}
		for j, w := range g.Path {
			if !in(w) {
				return invalid("WAYPOINT_OUT_OF_BOUNDS", "guard %d waypoint %d at %v outside the level", i, j, w)
			}
		}
	}

	for i, c := range l.Cameras {
		if !inF(c.At) {
			return invalid("CAMERA_OUT_OF_BOUNDS", "camera %d at %v outside the level", i, c.At)
		}
		if c.View <= 0 {
			return invalid("BAD_CAMERA", "camera %d has view range %v", i, c.View)
		}
		if c.Sweep < 0 {
			return invalid("BAD_CAMERA", "camera %d has negative sweep %v", i, c.Sweep)
		}
	}

	for i, lz := range l.Lasers {
		if !inF(lz.From) || !inF(lz.To) {
			return invalid("LASER_OUT_OF_BOUNDS", "laser %d leaves the level", i)
		}
		if lz.From == lz.To {
			return invalid("BAD_LASER", "laser %d has zero length", i)
		}
	}

	return nil
}
