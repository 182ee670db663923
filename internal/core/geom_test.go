package core

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"zero", 0, 0},
		{"pi stays pi", math.Pi, math.Pi},
		{"minus pi maps to pi", -math.Pi, math.Pi},
		{"three halves pi", 1.5 * math.Pi, -0.5 * math.Pi},
		{"minus three halves pi", -1.5 * math.Pi, 0.5 * math.Pi},
		{"several turns", 6*math.Pi + 0.25, 0.25},
		{"negative turns", -4*math.Pi - 0.25, -0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAngle(tc.in)
			if math.Abs(got-tc.expected) > eps {
				t.Errorf("NormalizeAngle(%v) = %v, expected %v", tc.in, got, tc.expected)
			}
			if got <= -math.Pi || got > math.Pi {
				t.Errorf("NormalizeAngle(%v) = %v, outside (-pi, pi]", tc.in, got)
			}
		})
	}
}

func TestAngleDiffAcrossSeam(t *testing.T) {
	// Just either side of the ±π seam the real gap is tiny.
	d := AngleDiff(math.Pi-0.1, -math.Pi+0.1)
	if math.Abs(d+0.2) > eps {
		t.Errorf("AngleDiff() = %v, expected -0.2", d)
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a, b := V(0, 0), V(10, 0)

	tests := []struct {
		name     string
		p        Vec
		expected Vec
	}{
		{"above middle", V(5, 3), V(5, 0)},
		{"before start clamps", V(-4, 2), V(0, 0)},
		{"past end clamps", V(14, -1), V(10, 0)},
		{"on segment", V(7, 0), V(7, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClosestPointOnSegment(tc.p, a, b)
			if got.Dist(tc.expected) > eps {
				t.Errorf("ClosestPointOnSegment(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}

	if got := ClosestPointOnSegment(V(3, 3), V(1, 1), V(1, 1)); got != V(1, 1) {
		t.Errorf("degenerate segment = %v, expected (1,1)", got)
	}
}

func TestVecBasics(t *testing.T) {
	v := V(3, 4)
	if v.Len() != 5 {
		t.Errorf("Len() = %v, expected 5", v.Len())
	}
	if d := V(1, 1).Dist(V(4, 5)); d != 5 {
		t.Errorf("Dist() = %v, expected 5", d)
	}
	if a := V(0, 0).AngleTo(V(0, 2)); math.Abs(a-math.Pi/2) > eps {
		t.Errorf("AngleTo() = %v, expected pi/2", a)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 5, 5)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"top-left corner", 10, 10, true},
		{"center", 12, 12, true},
		{"right edge is exclusive", 15, 12, false},
		{"bottom edge is exclusive", 12, 15, false},
		{"outside left", 9, 12, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("Clamp() returned a value outside the range")
	}
	if ClampF(1.5, 0, 1) != 1 || ClampF(-0.5, 0, 1) != 0 {
		t.Error("ClampF() returned a value outside the range")
	}
}
