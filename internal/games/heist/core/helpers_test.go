package core

import "math"

const eps = 1e-9

type testScale struct{}

func (testScale) GuardView(int) float64 { return 120 }
func (testScale) GuardCone(int) float64 { return math.Pi / 4 }
func (testScale) CameraCone() float64   { return 0.22 * math.Pi }
func (testScale) DecayRate(int) float64 { return 0.005 }
func (testScale) DetectRate(_ int, sneaking bool) float64 {
	if sneaking {
		return 0.01
	}
	return 0.02
}

func testTuning() Tuning {
	return Tuning{
		TileSize:        40,
		CollisionInset:  4,
		LOSSteps:        10,
		HeroRadius:      10,
		HeroSpeed:       2,
		SneakSpeed:      1,
		ArriveThreshold: 0.5,
		CameraTimeScale: 60,
		LaserMargin:     4,
		LaserBurst:      0.35,
		FrameScale:      60,
		LootRadius:      0.7,
		ExitRadius:      0.8,
		MaxDelta:        3,
		Scale:           testScale{},
	}
}

type testSource []Level

func (s testSource) Count() int { return len(s) }

func (s testSource) Level(n int) (Level, error) {
	if len(s) == 0 {
		return Level{}, ErrNoLevels
	}
	return s[(n-1)%len(s)], nil
}

// border returns the perimeter walls of a cols x rows room.
func border(cols, rows int) []Tile {
	var w []Tile
	for c := 0; c < cols; c++ {
		w = append(w, T(c, 0), T(c, rows-1))
	}
	for r := 1; r < rows-1; r++ {
		w = append(w, T(0, r), T(cols-1, r))
	}
	return w
}

// room is a 10x8 walled level with the hero in the top-left corner.
func room() Level {
	return Level{
		ID:    "room",
		Name:  "Room",
		Cols:  10,
		Rows:  8,
		Walls: border(10, 8),
		Start: T(1, 1),
		Exit:  T(5, 1),
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) Emit(e Event) { r.events = append(r.events, e) }

func (r *recorder) count(match func(Event) bool) int {
	n := 0
	for _, e := range r.events {
		if match(e) {
			n++
		}
	}
	return n
}

func openGrid() *TileGrid {
	return NewTileGrid(20, 20, nil, GridOptions{TileSize: 40, CollisionInset: 4, LOSSteps: 10})
}
