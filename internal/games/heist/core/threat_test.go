package core

import (
	"math"
	"testing"
)

func TestGuardReachesWaypointWithoutOvershoot(t *testing.T) {
	g := NewGuard([]Vec{{X: 0, Y: 0}, {X: 100, Y: 0}}, 1.0, 0, 0.5, 100, 0.5)

	// 40 ticks of 2.5 sum to 100 time units.
	for i := 0; i < 40; i++ {
		g.Advance(2.5)
		if g.Pos.X > 100+eps || g.Pos.Y != 0 {
			t.Fatalf("tick %d: guard left its segment at %v", i, g.Pos)
		}
	}
	if g.Pos.Dist(Vec{X: 100, Y: 0}) > 1e-6 {
		t.Fatalf("Pos = %v, expected (100,0)", g.Pos)
	}
	if g.NextWaypoint() != 0 {
		t.Errorf("NextWaypoint() = %d, expected 0 after arriving", g.NextWaypoint())
	}

	g.Advance(1)
	if math.Abs(g.Pos.X-99) > 1e-6 {
		t.Errorf("Pos.X = %v, expected 99 heading back", g.Pos.X)
	}
	if math.Abs(math.Abs(g.Facing)-math.Pi) > eps {
		t.Errorf("Facing = %v, expected π", g.Facing)
	}
}

func TestGuardCyclesSquarePatrol(t *testing.T) {
	path := []Vec{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	g := NewGuard(path, 2, 0, 0.5, 100, 0.5)

	var visits []int
	last := g.NextWaypoint()
	for i := 0; i < 400; i++ {
		g.Advance(1)
		if n := g.NextWaypoint(); n != last {
			visits = append(visits, n)
			last = n
		}
		if i == 199 && g.Pos.Dist(path[0]) > 1e-6 {
			t.Errorf("after one lap Pos = %v, expected start %v", g.Pos, path[0])
		}
	}

	expected := []int{2, 3, 0, 1, 2, 3, 0, 1}
	if len(visits) != len(expected) {
		t.Fatalf("visits = %v, expected %v", visits, expected)
	}
	for i := range expected {
		if visits[i] != expected[i] {
			t.Fatalf("visits = %v, expected %v", visits, expected)
		}
	}
}

func TestGuardCarriesBudgetAroundCorner(t *testing.T) {
	g := NewGuard([]Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, 4, 0, 0.5, 100, 0.5)

	g.Advance(3) // 12 units: 10 along x, then 2 down
	if g.Pos.Dist(Vec{X: 10, Y: 2}) > eps {
		t.Errorf("Pos = %v, expected (10,2)", g.Pos)
	}
	if math.Abs(g.Facing-math.Pi/2) > eps {
		t.Errorf("Facing = %v, expected π/2", g.Facing)
	}
}

func TestGuardSingleWaypointStands(t *testing.T) {
	g := NewGuard([]Vec{{X: 50, Y: 50}}, 2, 1.25, 0.5, 100, 0.5)
	for i := 0; i < 10; i++ {
		g.Advance(1)
	}
	if g.Pos != (Vec{X: 50, Y: 50}) || g.Facing != 1.25 {
		t.Errorf("stationary guard moved: pos %v facing %v", g.Pos, g.Facing)
	}
}

func TestCameraSweepStaysInBounds(t *testing.T) {
	c := NewCamera(Vec{X: 100, Y: 100}, math.Pi/2, 1.1, 0.008, 0.3, 140, 0.22*math.Pi, 60)

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < 2000; i++ {
		c.Advance(1 + float64(i%3)*0.5)
		if c.Pos != (Vec{X: 100, Y: 100}) {
			t.Fatal("camera translated")
		}
		lo = math.Min(lo, c.Facing)
		hi = math.Max(hi, c.Facing)
	}
	if lo < math.Pi/2-1.1-eps || hi > math.Pi/2+1.1+eps {
		t.Errorf("facing range [%v, %v] exceeds base±sweep", lo, hi)
	}
	if hi-lo < 2.0 {
		t.Errorf("facing range [%v, %v] should cover most of the sweep", lo, hi)
	}
}

func TestCameraPhaseAdvance(t *testing.T) {
	c := NewCamera(Vec{}, 0, 1, 0.01, 0, 100, 0.5, 60)
	c.Advance(2)
	if math.Abs(c.Phase-1.2) > eps {
		t.Errorf("Phase = %v, expected 1.2", c.Phase)
	}
	if math.Abs(c.Facing-math.Sin(1.2)) > eps {
		t.Errorf("Facing = %v, expected sin(1.2)", c.Facing)
	}
}

func TestLaserTripped(t *testing.T) {
	l := NewLaser(Vec{X: 0, Y: 100}, Vec{X: 100, Y: 100}, 4)

	tests := []struct {
		name     string
		pos      Vec
		expected bool
	}{
		{"on beam", Vec{X: 50, Y: 100}, true},
		{"inside margin", Vec{X: 50, Y: 113}, true},
		{"at margin edge", Vec{X: 50, Y: 114}, false},
		{"past the end", Vec{X: 120, Y: 100}, false},
		{"near endpoint", Vec{X: 108, Y: 100}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := l.Tripped(Body{Pos: tc.pos, Radius: 10}); got != tc.expected {
				t.Errorf("Tripped(%v) = %v, expected %v", tc.pos, got, tc.expected)
			}
		})
	}

	l.Active = false
	if l.Tripped(Body{Pos: Vec{X: 50, Y: 100}, Radius: 10}) {
		t.Error("inactive laser tripped")
	}
}

func TestThreatKinds(t *testing.T) {
	threats := []Threat{
		NewGuard([]Vec{{}}, 1, 0, 1, 1, 0.5),
		NewCamera(Vec{}, 0, 0, 0, 0, 1, 1, 60),
		NewLaser(Vec{}, Vec{X: 1}, 4),
	}
	expected := []string{"guard", "camera", "laser"}
	for i, th := range threats {
		if th.Kind().String() != expected[i] {
			t.Errorf("Kind() = %v, expected %s", th.Kind(), expected[i])
		}
	}
}
