// Package heist adapts the stealth simulation to the platform's game
// interface: it loads tuning and levels, maps input frames to intents and
// draws snapshots into a screen buffer.
package heist

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heist/internal/config"
	platformcore "github.com/vovakirdan/tui-heist/internal/core"
	"github.com/vovakirdan/tui-heist/internal/games/heist/core"
	"github.com/vovakirdan/tui-heist/internal/games/heist/levels"
	"github.com/vovakirdan/tui-heist/internal/registry"
)

// Mode selects between the campaign and endless play.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Package-level settings applied on the next Reset, set from CLI flags.
var (
	configPath       string
	difficultyPreset string
	levelsDir        string
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the tuning file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset (easy, normal, hard, fixed).
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// SetLevelsDir loads levels from a directory instead of the built-in campaign.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetLogger sets the logger used for level transitions.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Game implements registry.Game for the heist.
type Game struct {
	mode    Mode
	tuning  config.HeistConfig
	source  core.LevelSource
	session *core.Session
	snap    core.Snapshot
	sink    core.Sink
	loadErr error

	seed      int64
	start     int
	paused    bool
	announced core.Status
}

// New creates a campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates a game that keeps going past the last level.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register("heist", func() registry.Game {
		return New()
	})
	registry.Register("heist_endless", func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "heist_endless"
	}
	return "heist"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Heist (Endless)"
	}
	return "Heist"
}

// SetSource overrides the level source. It takes effect on the next Reset.
func (g *Game) SetSource(src core.LevelSource) {
	g.source = src
}

// SetSink routes outbound co-op events. Nil disconnects.
func (g *Game) SetSink(s core.Sink) {
	g.sink = s
}

// Deliver queues an inbound co-op event for the next Step.
func (g *Game) Deliver(e core.Event) {
	if g.session != nil {
		g.session.Deliver(e)
	}
}

// Announce tells the partner which level the host is starting.
func (g *Game) Announce() {
	if g.session != nil {
		g.emit(core.LevelEvent{Level: g.session.Level(), Start: true})
	}
}

// Snapshot returns the presentation state of the last step.
func (g *Game) Snapshot() core.Snapshot {
	return g.snap
}

// Err reports why the game could not be set up, if it could not.
func (g *Game) Err() error {
	return g.loadErr
}

// Reset loads tuning and levels and starts the configured level.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.loadErr = nil
	g.paused = false
	g.session = nil
	g.snap = core.Snapshot{}

	hc, err := config.LoadHeist(configPath)
	if err != nil {
		logger.Warn("falling back to default tuning", "path", configPath, "err", err)
		hc = config.DefaultHeistConfig()
	}
	if difficultyPreset != "" {
		config.ApplyHeistPreset(&hc, config.ParsePreset(difficultyPreset))
	}
	g.tuning = hc

	if g.source == nil {
		campaign, err := levels.LoadCampaign(levelsDir, logger)
		if err != nil {
			g.loadErr = err
			logger.Error("cannot load levels", "dir", levelsDir, "err", err)
			return
		}
		g.source = campaign
	}

	g.seed = cfg.Seed
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}
	g.start = cfg.Level
	g.newSession()
}

func (g *Game) newSession() {
	s := core.NewSession(tuningFromConfig(g.tuning), g.source, g.seed)
	s.SetEndless(g.mode == ModeEndless)
	s.SetSink(core.SinkFunc(g.emit))
	if err := s.Start(g.start); err != nil {
		g.loadErr = err
		logger.Error("cannot start level", "level", g.start, "err", err)
		return
	}
	g.session = s
	g.snap = s.Snapshot()
	g.announced = g.snap.Status
	logger.Info("level started", "level", g.snap.Level, "name", g.snap.LevelName)
}

func (g *Game) emit(e core.Event) {
	if g.sink != nil {
		g.sink.Emit(e)
	}
}

// Step advances the simulation by the frame's wall-clock delta.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if g.session == nil {
		return platformcore.StepResult{State: g.State()}
	}
	g.handleLifecycle(in)

	if g.paused {
		// Inbound events still apply while the local player is paused.
		g.snap = g.session.Step(0, core.Intent{})
	} else {
		dx, dy := in.Axis()
		intent := core.Intent{DX: dx, DY: dy, Sneak: in.Has(platformcore.ActionSneak)}
		g.snap = g.session.Step(g.frameDelta(in.Delta), intent)
	}
	g.logTransition()

	return platformcore.StepResult{State: g.State()}
}

func (g *Game) frameDelta(d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return g.tuning.FrameDelta(float64(d) / float64(time.Millisecond))
}

// handleLifecycle applies the keys that move between attempts and levels.
func (g *Game) handleLifecycle(in platformcore.InputFrame) {
	s := g.session
	if s.Status() != core.StatusPlaying {
		g.paused = false
	}
	switch s.Status() {
	case core.StatusPlaying:
		if in.Has(platformcore.ActionPause) {
			g.paused = !g.paused
		}
		if g.paused && in.Has(platformcore.ActionConfirm) {
			g.paused = false
		}
	case core.StatusCaught:
		if in.Has(platformcore.ActionRestart) || in.Has(platformcore.ActionConfirm) {
			g.restart()
		}
	case core.StatusWon:
		if in.Has(platformcore.ActionConfirm) {
			if err := s.Advance(); err != nil {
				logger.Error("cannot advance", "err", err)
			}
		}
	case core.StatusComplete:
		if in.Has(platformcore.ActionConfirm) || in.Has(platformcore.ActionRestart) {
			// Play again is a new run, so the score starts at 0 instead of
			// carrying over like it does between levels. The finished run
			// was saved when it completed.
			g.start = 1
			g.seed = rand.New(rand.NewSource(g.seed)).Int63()
			g.newSession()
			g.Announce()
		}
	case core.StatusPaused:
		switch {
		case in.Has(platformcore.ActionConfirm):
			s.Resume()
		case in.Has(platformcore.ActionRestart):
			g.restart()
		}
	}
}

func (g *Game) restart() {
	if err := g.session.Restart(); err != nil {
		logger.Error("cannot restart level", "err", err)
		return
	}
	g.paused = false
}

func (g *Game) logTransition() {
	if g.snap.Status == g.announced {
		return
	}
	g.announced = g.snap.Status
	switch g.snap.Status {
	case core.StatusPlaying:
		logger.Info("level started", "level", g.snap.Level, "name", g.snap.LevelName)
	case core.StatusCaught:
		logger.Info("caught", "level", g.snap.Level, "score", g.snap.Score)
	case core.StatusWon, core.StatusComplete:
		logger.Info("level cleared", "level", g.snap.Level, "score", g.snap.Score, "status", g.snap.Status)
	case core.StatusPaused:
		logger.Warn("partner left", "level", g.snap.Level)
	}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	st := g.snap.Status
	return platformcore.GameState{
		Score:    g.snap.Score,
		Level:    g.snap.Level,
		GameOver: st == core.StatusCaught || st == core.StatusComplete || g.loadErr != nil,
		Won:      st == core.StatusWon || st == core.StatusComplete,
		Paused:   g.paused || st == core.StatusPaused,
	}
}

// tuningFromConfig flattens the YAML tuning into simulation constants.
func tuningFromConfig(c config.HeistConfig) core.Tuning {
	return core.Tuning{
		TileSize:        c.World.TileSize,
		CollisionInset:  c.World.CollisionInset,
		LOSSteps:        c.World.LOSSteps,
		HeroRadius:      c.Hero.Radius,
		HeroSpeed:       c.Hero.Speed,
		SneakSpeed:      c.Hero.SneakSpeed,
		ArriveThreshold: c.Guards.ArriveThreshold,
		CameraTimeScale: c.Cameras.TimeScale,
		LaserMargin:     c.Lasers.Margin,
		LaserBurst:      c.Lasers.Burst,
		FrameScale:      c.Alert.FrameScale,
		LootRadius:      c.Pickup.LootRadius,
		ExitRadius:      c.Pickup.ExitRadius,
		MaxDelta:        c.Timing.MaxDelta,
		Scale:           c,
	}
}
