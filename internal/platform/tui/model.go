package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heist/internal/core"
	hcore "github.com/vovakirdan/tui-heist/internal/games/heist/core"
	"github.com/vovakirdan/tui-heist/internal/multiplayer"
	"github.com/vovakirdan/tui-heist/internal/registry"
	"github.com/vovakirdan/tui-heist/internal/storage"
)

// coopGame is implemented by games that can be played with a partner.
type coopGame interface {
	SetSink(hcore.Sink)
	Deliver(hcore.Event)
	Announce()
}

// PeerEventMsg carries an inbound co-op event.
type PeerEventMsg struct {
	link  *multiplayer.PeerLink
	Event hcore.Event
}

// PeerPairedMsg is sent when a partner enters the room.
type PeerPairedMsg struct {
	link *multiplayer.PeerLink
}

// PeerClosedMsg is sent once the link is down.
type PeerClosedMsg struct {
	link *multiplayer.PeerLink
}

func waitForPeerEvent(link *multiplayer.PeerLink) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-link.Events()
		if !ok {
			return PeerClosedMsg{link: link}
		}
		return PeerEventMsg{link: link, Event: e}
	}
}

func waitForPaired(link *multiplayer.PeerLink) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-link.Paired():
			return PeerPairedMsg{link: link}
		case <-link.Done():
			return nil
		}
	}
}

// GameOptions configures a GameModel.
type GameOptions struct {
	Store  *storage.Store // Optional, can be nil
	Logger *log.Logger
	// Link plays the game in co-op. The model owns it and closes it on exit.
	Link *multiplayer.PeerLink
	// Announce sends the starting level once the game is set up. The host
	// sets it when the partner is already in the room.
	Announce bool
}

// GameModel is the Bubble Tea model that runs one game.
type GameModel struct {
	game     registry.Game
	coop     coopGame
	link     *multiplayer.PeerLink
	announce bool
	screen   *core.Screen
	store    *storage.Store
	logger   *log.Logger
	config   core.RuntimeConfig
	keys     GameKeyMap
	help     help.Model
	input    core.InputFrame
	held     heldInput
	sneak    bool
	gen      uint64
	lastTick time.Time
	started  time.Time
	state    core.GameState
	saved    bool // this run's result is already recorded

	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for the given game.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := GameModel{
		game:     game,
		link:     opts.Link,
		announce: opts.Announce,
		screen:   core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		store:    opts.Store,
		logger:   logger,
		config:   cfg,
		keys:     DefaultGameKeyMap(),
		help:     help.New(),
		input:    core.NewInputFrame(),
		gen:      nextTickGen(),
		started:  time.Now(),
	}
	m.help.Width = cfg.ScreenW
	if cg, ok := game.(coopGame); ok {
		m.coop = cg
	}
	return m
}

// Init resets the game, wires the co-op link and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)

	cmds := []tea.Cmd{tickCmd(m.config.TickRate, m.gen)}
	if m.link != nil && m.coop != nil {
		m.coop.SetSink(m.link)
		if m.announce {
			m.coop.Announce()
		}
		cmds = append(cmds, waitForPeerEvent(m.link), waitForPaired(m.link))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick(msg.Time)

	case PeerEventMsg:
		if msg.link != m.link || m.coop == nil {
			return m, nil
		}
		m.coop.Deliver(msg.Event)
		return m, waitForPeerEvent(m.link)

	case PeerPairedMsg:
		if msg.link != m.link || m.coop == nil {
			return m, nil
		}
		if m.link.Role() == multiplayer.RoleHost {
			m.logger.Info("partner joined", "code", m.link.Code())
			m.coop.Announce()
		}
		return m, waitForPaired(m.link)

	case PeerClosedMsg:
		if msg.link == m.link {
			m.logger.Info("co-op link closed", "code", m.link.Code())
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.state.GameOver || m.state.Paused {
			m.finish()
			m.backToMenu = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil

	case key.Matches(msg, m.keys.Sneak):
		m.sneak = !m.sneak
		return m, nil
	}

	if a, sneaking, ok := m.keys.Move(msg); ok {
		m.held.press(a, sneaking, time.Now())
		return m, nil
	}
	if a := m.keys.Trigger(msg); a != core.ActionNone {
		if a == core.ActionPause {
			m.held.release()
		}
		m.input.Set(a)
	}
	return m, nil
}

// handleTick steps the simulation by the wall-clock time since the last tick.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.lastTick.IsZero() {
		m.input.Delta = now.Sub(m.lastTick)
	}
	m.lastTick = now
	m.held.apply(&m.input, now)
	if m.sneak {
		m.input.Set(core.ActionSneak)
	}

	prev := m.state
	result := m.game.Step(m.input)
	m.state = result.State
	if newRun(prev, m.state) {
		m.saved = false
		m.started = now
	}
	// Getting caught only ends the attempt; the run is saved once it is
	// complete or abandoned.
	if outcome, ok := outcomeOf(prev, m.state); ok && outcome == storage.OutcomeComplete {
		m.saveResult(outcome)
	}

	m.input.Clear()
	return m, tickCmd(m.config.TickRate, m.gen)
}

// outcomeOf reports how an attempt ended on the tick the game turned over.
func outcomeOf(prev, cur core.GameState) (string, bool) {
	if !cur.GameOver || prev.GameOver {
		return "", false
	}
	if cur.Won {
		return storage.OutcomeComplete, true
	}
	return storage.OutcomeCaught, true
}

// newRun reports a fresh run starting after a completed one.
func newRun(prev, cur core.GameState) bool {
	return prev.GameOver && prev.Won && !cur.GameOver
}

// saveResult records the run's score once, and the co-op run when playing
// with a partner.
func (m *GameModel) saveResult(outcome string) {
	if m.saved || m.store == nil || m.state.Score <= 0 {
		return
	}
	m.saved = true
	entry := storage.ScoreEntry{
		GameID:  m.game.ID(),
		Score:   m.state.Score,
		Level:   m.state.Level,
		Outcome: outcome,
	}
	if _, err := m.store.SaveResult(entry); err != nil {
		m.logger.Warn("cannot save score", "err", err)
	}

	if m.link == nil {
		return
	}
	run := storage.CoopRun{
		RoomCode: m.link.Code(),
		GameID:   m.game.ID(),
		Role:     m.link.Role().String(),
		Score:    m.state.Score,
		Level:    m.state.Level,
		Outcome:  outcome,
		Duration: int(time.Since(m.started).Seconds()),
	}
	if _, err := m.store.SaveCoopRun(run); err != nil {
		m.logger.Warn("cannot save co-op run", "err", err)
	}
}

// finish records an abandoned run and drops the co-op link. A run left on
// the caught screen keeps the caught outcome.
func (m *GameModel) finish() {
	outcome := storage.OutcomeQuit
	if m.state.GameOver && !m.state.Won {
		outcome = storage.OutcomeCaught
	}
	m.saveResult(outcome)
	if m.link != nil {
		_ = m.link.Close() //nolint:errcheck // Close never fails
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".heist", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the game and a one-line key reminder.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + mutedStyle.Render(m.help.View(m.keys))
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// State returns the game state after the last tick.
func (m GameModel) State() core.GameState {
	return m.state
}

// Run plays a single game in the terminal without the menu.
func Run(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) error {
	if opts.Link != nil {
		defer opts.Link.Close() //nolint:errcheck // Close never fails
	}
	p := tea.NewProgram(
		NewGameModel(game, cfg, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
