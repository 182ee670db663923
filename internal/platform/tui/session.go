package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heist/internal/core"
	"github.com/vovakirdan/tui-heist/internal/multiplayer"
	"github.com/vovakirdan/tui-heist/internal/registry"
	"github.com/vovakirdan/tui-heist/internal/storage"
)

// Game IDs started from the menu.
const (
	campaignGameID = "heist"
	endlessGameID  = "heist_endless"
)

type screen int

const (
	screenMenu screen = iota
	screenLobby
	screenGame
	screenScores
)

// SessionOptions configures a full interactive session.
type SessionOptions struct {
	Store      *storage.Store // Optional, can be nil
	Config     core.RuntimeConfig
	RelayURL   string // Enables co-op when set
	Logger     *log.Logger
	LevelNames []string // Campaign levels offered by the start level picker
	User       string   // Shown in logs for SSH sessions
}

// SessionModel manages the full session flow: menu -> game -> menu.
// It is the top-level model for local play and SSH sessions.
type SessionModel struct {
	opts     SessionOptions
	config   core.RuntimeConfig
	logger   *log.Logger
	screen   screen
	menu     MenuModel
	lobby    LobbyModel
	game     GameModel
	scores   ScoreboardModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.User != "" {
		logger = logger.With("user", opts.User)
	}
	return SessionModel{
		opts:   opts,
		config: opts.Config,
		logger: logger,
		menu:   NewMenuModel(opts.Config, opts.LevelNames, opts.RelayURL != ""),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenLobby:
		return m.updateLobby(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.menu.Selected() {
	case ChoiceCampaign:
		return m.startGame(campaignGameID, m.menu.Level(), nil, false)
	case ChoiceEndless:
		return m.startGame(endlessGameID, 1, nil, false)
	case ChoiceHost:
		m.lobby = NewHostLobby(m.opts.RelayURL, m.logger, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenLobby
		return m, m.lobby.Init()
	case ChoiceJoin:
		m.lobby = NewJoinLobby(m.opts.RelayURL, m.logger, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenLobby
		return m, m.lobby.Init()
	case ChoiceScores:
		m.scores = NewScoreboardModel(m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScores
		return m, m.scores.Init()
	}
	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.lobby.Update(msg)
	if lobby, ok := next.(LobbyModel); ok {
		m.lobby = lobby
	}

	switch {
	case m.lobby.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.lobby.BackToMenu():
		return m.backToMenu()
	case m.lobby.Ready():
		return m.startGame(campaignGameID, m.menu.Level(), m.lobby.Link(), m.lobby.Announce())
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(GameModel); ok {
		m.game = game
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

// startGame creates the game and hands it the co-op link, if any.
func (m SessionModel) startGame(id string, level int, link *multiplayer.PeerLink, announce bool) (tea.Model, tea.Cmd) {
	game, err := registry.Create(id)
	if err != nil {
		// Menu only offers registered games
		m.logger.Error("cannot create game", "id", id, "err", err)
		if link != nil {
			_ = link.Close() //nolint:errcheck // Close never fails
		}
		return m.backToMenu()
	}

	cfg := m.config
	cfg.Level = level
	cfg.Seed = m.opts.Config.Seed
	m.logger.Info("starting game", "id", id, "level", level, "coop", link != nil)

	m.game = NewGameModel(game, cfg, GameOptions{
		Store:    m.opts.Store,
		Logger:   m.logger,
		Link:     link,
		Announce: announce,
	})
	m.screen = screenGame
	return m, m.game.Init()
}

// backToMenu rebuilds the menu, keeping the chosen start level.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	cfg := m.config
	cfg.Level = m.menu.Level()
	m.menu = NewMenuModel(cfg, m.opts.LevelNames, m.opts.RelayURL != "")
	m.screen = screenMenu
	return m, m.menu.Init()
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenLobby:
		return m.lobby.View()
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(opts SessionOptions) error {
	p := tea.NewProgram(
		NewSessionModel(opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
