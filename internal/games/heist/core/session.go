package core

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	platformcore "github.com/vovakirdan/tui-heist/internal/core"
)

// ErrNotCleared is returned by Advance when the current level is not won.
var ErrNotCleared = errors.New("session: level not cleared")

// Scaler supplies the level-dependent vision and alert rates.
type Scaler interface {
	GuardView(level int) float64
	GuardCone(level int) float64
	CameraCone() float64
	DetectRate(level int, sneaking bool) float64
	DecayRate(level int) float64
}

// Tuning holds the constants a session is built with. Radii for loot and
// the exit are in tiles; everything else is in world units or frames.
type Tuning struct {
	TileSize        float64
	CollisionInset  float64
	LOSSteps        int
	HeroRadius      float64
	HeroSpeed       float64
	SneakSpeed      float64
	ArriveThreshold float64
	CameraTimeScale float64
	LaserMargin     float64
	LaserBurst      float64
	FrameScale      float64
	LootRadius      float64
	ExitRadius      float64
	MaxDelta        float64 // 0 disables the cap
	Scale           Scaler
}

// Session owns all mutable state of one play-through: the current level's
// entities, the alert meter and the score that carries between levels.
// It is not safe for concurrent use; the host loop drives it from one goroutine.
type Session struct {
	tuning  Tuning
	source  LevelSource
	endless bool
	rng     *rand.Rand
	sink    Sink
	inbox   []Event

	ordinal int
	level   Level
	grid    *TileGrid
	hero    Hero
	partner *Partner
	guards  []*Guard
	cameras []*Camera
	lasers  []*Laser
	threats []Threat
	loot    []LootItem
	exit    Vec

	alert         Alert
	lastDetection Detection
	score         int
	status        Status
	tick          uint64
}

// NewSession creates a session. Call Start before Step.
func NewSession(t Tuning, source LevelSource, seed int64) *Session {
	return &Session{
		tuning: t,
		source: source,
		rng:    rand.New(rand.NewSource(seed)),
		status: StatusPlaying,
	}
}

// SetSink installs the outbound event sink; nil drops events.
func (s *Session) SetSink(sink Sink) { s.sink = sink }

// SetEndless makes level ordinals grow forever, wrapping the source.
func (s *Session) SetEndless(on bool) { s.endless = on }

// Endless reports whether the session wraps the campaign.
func (s *Session) Endless() bool { return s.endless }

// Level returns the current level ordinal.
func (s *Session) Level() int { return s.ordinal }

// LevelCount returns the number of distinct levels in the source.
func (s *Session) LevelCount() int { return s.source.Count() }

// Score returns the accumulated score.
func (s *Session) Score() int { return s.score }

// Status returns the lifecycle status.
func (s *Session) Status() Status { return s.status }

// Deliver queues an inbound event for the next Step.
func (s *Session) Deliver(e Event) {
	s.inbox = append(s.inbox, e)
}

// Start loads a level. Ordinals below 1 start the first level and, outside
// endless mode, ordinals past the last level wrap to 1. Score is kept.
func (s *Session) Start(ordinal int) error {
	count := s.source.Count()
	if count == 0 {
		return ErrNoLevels
	}
	if ordinal < 1 || (!s.endless && ordinal > count) {
		ordinal = 1
	}

	lvl, err := s.source.Level(ordinal)
	if err != nil {
		return fmt.Errorf("session: load level %d: %w", ordinal, err)
	}
	if err := Validate(lvl); err != nil {
		return fmt.Errorf("session: level %d: %w", ordinal, err)
	}
	s.build(ordinal, lvl)
	return nil
}

// Restart replays the current level.
func (s *Session) Restart() error {
	return s.Start(s.ordinal)
}

// Advance moves on after a win. After the final level it starts over at 1.
func (s *Session) Advance() error {
	switch s.status {
	case StatusWon:
		return s.Start(s.ordinal + 1)
	case StatusComplete:
		return s.Start(1)
	default:
		return ErrNotCleared
	}
}

// Resume continues after a partner disconnect pause.
func (s *Session) Resume() {
	if s.status == StatusPaused {
		s.status = StatusPlaying
	}
}

func (s *Session) build(ordinal int, lvl Level) {
	t := s.tuning
	ts := t.TileSize

	s.ordinal = ordinal
	s.level = lvl
	s.grid = NewTileGrid(lvl.Cols, lvl.Rows, lvl.Walls, GridOptions{
		TileSize:       ts,
		CollisionInset: t.CollisionInset,
		LOSSteps:       t.LOSSteps,
	})
	s.hero = Hero{
		Pos:        lvl.Start.Center(ts),
		Radius:     t.HeroRadius,
		Speed:      t.HeroSpeed,
		SneakSpeed: t.SneakSpeed,
	}

	s.guards = s.guards[:0]
	for _, g := range lvl.Guards {
		path := make([]Vec, len(g.Path))
		for i, w := range g.Path {
			path[i] = w.Center(ts)
		}
		s.guards = append(s.guards, NewGuard(path, g.Speed, g.Facing,
			t.Scale.GuardCone(ordinal), t.Scale.GuardView(ordinal), t.ArriveThreshold))
	}

	s.cameras = s.cameras[:0]
	for _, c := range lvl.Cameras {
		phase := s.rng.Float64() * 2 * math.Pi
		s.cameras = append(s.cameras, NewCamera(c.At.Scale(ts), c.Facing, c.Sweep, c.SweepSpeed,
			phase, c.View*ts, t.Scale.CameraCone(), t.CameraTimeScale))
	}

	s.lasers = s.lasers[:0]
	for _, l := range lvl.Lasers {
		s.lasers = append(s.lasers, NewLaser(l.From.Scale(ts), l.To.Scale(ts), t.LaserMargin))
	}

	s.threats = make([]Threat, 0, len(s.guards)+len(s.cameras)+len(s.lasers))
	for _, g := range s.guards {
		s.threats = append(s.threats, g)
	}
	for _, c := range s.cameras {
		s.threats = append(s.threats, c)
	}
	for _, l := range s.lasers {
		s.threats = append(s.threats, l)
	}

	s.loot = make([]LootItem, len(lvl.Loot))
	for i, it := range lvl.Loot {
		s.loot[i] = LootItem{Pos: it.At.Center(ts), Kind: it.Kind}
	}
	s.exit = lvl.Exit.Center(ts)

	s.alert.Reset()
	s.lastDetection = Detection{}
	s.status = StatusPlaying
	s.tick = 0
}

// Step advances one tick of dt normalized frames and returns the new
// presentation state. Queued events are applied first. Nothing moves while
// the session is paused or the attempt has ended.
func (s *Session) Step(dt float64, in Intent) Snapshot {
	s.drain()
	if s.grid == nil || s.status != StatusPlaying {
		return s.Snapshot()
	}

	maxDelta := s.tuning.MaxDelta
	if maxDelta <= 0 {
		maxDelta = math.Inf(1)
	}
	dt = platformcore.ClampF(dt, 0, maxDelta)
	s.tick++

	s.hero.Move(s.grid, in, dt)
	s.collectLoot()
	s.emit(PositionEvent{X: s.hero.Pos.X, Y: s.hero.Pos.Y, Sneaking: s.hero.Sneaking})

	for _, t := range s.threats {
		t.Advance(dt)
	}
	det := Aggregate(s.grid, s.threats, s.hero.Body())
	s.lastDetection = det

	if s.alert.Apply(det, s.rates(), dt) == AlertCaught {
		s.status = StatusCaught
		return s.Snapshot()
	}

	if s.allCollected() && s.atExit() {
		next := s.ordinal + 1
		if !s.endless && next > s.source.Count() {
			s.status = StatusComplete
			next = 1
		} else {
			s.status = StatusWon
		}
		s.emit(LevelEvent{Level: next})
	}
	return s.Snapshot()
}

func (s *Session) rates() Rates {
	return Rates{
		Detect:     s.tuning.Scale.DetectRate(s.ordinal, s.hero.Sneaking),
		Decay:      s.tuning.Scale.DecayRate(s.ordinal),
		LaserBurst: s.tuning.LaserBurst,
		FrameScale: s.tuning.FrameScale,
	}
}

func (s *Session) drain() {
	for _, e := range s.inbox {
		switch ev := e.(type) {
		case PositionEvent:
			s.partner = &Partner{Pos: Vec{X: ev.X, Y: ev.Y}, Sneaking: ev.Sneaking}
		case LootEvent:
			if ev.Index >= 0 && ev.Index < len(s.loot) {
				s.loot[ev.Index].Collected = true
			}
		case LevelEvent:
			// A level the source cannot load is dropped like a lost message.
			_ = s.Start(ev.Level)
		case PartnerLeftEvent:
			s.partner = nil
			if s.status == StatusPlaying {
				s.status = StatusPaused
			}
		}
	}
	s.inbox = s.inbox[:0]
}

func (s *Session) collectLoot() {
	reach := s.tuning.LootRadius * s.tuning.TileSize
	for i := range s.loot {
		it := &s.loot[i]
		if it.Collected || s.hero.Pos.Dist(it.Pos) >= reach {
			continue
		}
		it.Collected = true
		s.score += it.Kind.Value()
		s.emit(LootEvent{Index: i})
	}
}

func (s *Session) allCollected() bool {
	for _, it := range s.loot {
		if !it.Collected {
			return false
		}
	}
	return true
}

func (s *Session) atExit() bool {
	reach := s.tuning.ExitRadius * s.tuning.TileSize
	if s.hero.Pos.Dist(s.exit) < reach {
		return true
	}
	return s.partner != nil && s.partner.Pos.Dist(s.exit) < reach
}

func (s *Session) emit(e Event) {
	if s.sink != nil {
		s.sink.Emit(e)
	}
}
