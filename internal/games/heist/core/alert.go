package core

import "math"

// AlertState is the discrete view of the alert meter.
type AlertState uint8

const (
	AlertSafe   AlertState = iota // meter below 1
	AlertCaught                   // meter saturated; sticky until Reset
)

func (s AlertState) String() string {
	if s == AlertCaught {
		return "caught"
	}
	return "safe"
}

// Rates drive one alert update. Detect and Decay are per normalized frame;
// FrameScale converts dt into those frames.
type Rates struct {
	Detect     float64
	Decay      float64
	LaserBurst float64
	FrameScale float64
}

// Alert is the suspicion meter in [0, 1].
type Alert struct {
	level  float64
	caught bool
}

// Level returns the meter value.
func (a *Alert) Level() float64 { return a.level }

// State returns AlertCaught once the meter has reached 1.
func (a *Alert) State() AlertState {
	if a.caught {
		return AlertCaught
	}
	return AlertSafe
}

// Reset empties the meter and clears a catch.
func (a *Alert) Reset() {
	a.level = 0
	a.caught = false
}

// Apply folds one tick of detection into the meter. A laser trip adds its
// burst first; then the meter rises by proximity while watched or decays
// while unseen. Touching 1 at any point latches the caught state.
func (a *Alert) Apply(det Detection, r Rates, dt float64) AlertState {
	if a.caught {
		return AlertCaught
	}
	frames := dt * r.FrameScale

	if det.Tripped {
		a.level = math.Min(1, a.level+r.LaserBurst*frames)
		if a.latch() {
			return AlertCaught
		}
	}

	if det.AnyDetecting {
		a.level = math.Min(1, a.level+r.Detect*det.BestProximity*frames)
	} else {
		a.level = math.Max(0, a.level-r.Decay*frames)
	}
	a.latch()
	return a.State()
}

func (a *Alert) latch() bool {
	if a.level >= 1 {
		a.level = 1
		a.caught = true
	}
	return a.caught
}
