package core

// Detection is the per-tick summary of every threat against the protagonist.
// Multiple watchers collapse to the single closest one; they never add up.
type Detection struct {
	AnyDetecting  bool
	BestProximity float64
	Tripped       bool
	Watchers      int // threats with the target in their cone
}

// Aggregate evaluates each threat independently against the target.
func Aggregate(grid *TileGrid, threats []Threat, target Body) Detection {
	var d Detection
	for _, t := range threats {
		s := t.Evaluate(grid, target)
		if s.Tripped {
			d.Tripped = true
		}
		if !s.Detecting {
			continue
		}
		d.AnyDetecting = true
		d.Watchers++
		if s.Proximity > d.BestProximity {
			d.BestProximity = s.Proximity
		}
	}
	return d
}
