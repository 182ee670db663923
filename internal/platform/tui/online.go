package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heist/internal/multiplayer"
)

const dialTimeout = 10 * time.Second

// LobbyState represents the current step of the co-op flow.
type LobbyState int

const (
	LobbyConnecting LobbyState = iota // Dialing the relay
	LobbyHostWaiting                  // Room open, waiting for a partner
	LobbyEnterCode                    // Typing a room code
	LobbyReady                        // Link is up, the game can start
)

// linkReadyMsg and linkErrMsg carry the result of a dial attempt.
type linkReadyMsg struct {
	attempt int
	link    *multiplayer.PeerLink
}

type linkErrMsg struct {
	attempt int
	err     error
}

// LobbyModel opens or joins a co-op room on the relay.
type LobbyModel struct {
	state    LobbyState
	host     bool
	relayURL string
	logger   *log.Logger
	width    int
	height   int

	attempt int
	link    *multiplayer.PeerLink
	code    string
	err     string

	// announce is set for a host whose partner is already in the room.
	announce   bool
	backToMenu bool
	quitting   bool
}

// NewHostLobby creates a lobby that opens a room.
func NewHostLobby(relayURL string, logger *log.Logger, width, height int) LobbyModel {
	return newLobby(true, relayURL, logger, width, height)
}

// NewJoinLobby creates a lobby that asks for a room code.
func NewJoinLobby(relayURL string, logger *log.Logger, width, height int) LobbyModel {
	m := newLobby(false, relayURL, logger, width, height)
	m.state = LobbyEnterCode
	return m
}

func newLobby(host bool, relayURL string, logger *log.Logger, width, height int) LobbyModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return LobbyModel{
		state:    LobbyConnecting,
		host:     host,
		relayURL: relayURL,
		logger:   logger,
		width:    width,
		height:   height,
	}
}

// Init dials the relay when hosting.
func (m LobbyModel) Init() tea.Cmd {
	if m.host {
		return m.dial("")
	}
	return nil
}

func (m LobbyModel) dial(code string) tea.Cmd {
	attempt, relayURL, logger := m.attempt, m.relayURL, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()

		var (
			link *multiplayer.PeerLink
			err  error
		)
		if code == "" {
			link, err = multiplayer.Host(ctx, relayURL, logger)
		} else {
			link, err = multiplayer.Join(ctx, relayURL, code, logger)
		}
		if err != nil {
			return linkErrMsg{attempt: attempt, err: err}
		}
		return linkReadyMsg{attempt: attempt, link: link}
	}
}

// Update handles messages.
func (m LobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case linkReadyMsg:
		if msg.attempt != m.attempt {
			_ = msg.link.Close() //nolint:errcheck // abandoned attempt
			return m, nil
		}
		m.link = msg.link
		m.code = msg.link.Code()
		m.logger.Info("connected to relay", "code", m.code, "role", m.link.Role())
		if !m.host {
			m.state = LobbyReady
			return m, nil
		}
		m.state = LobbyHostWaiting
		return m, waitForPaired(m.link)

	case linkErrMsg:
		if msg.attempt != m.attempt {
			return m, nil
		}
		m.err = describeLinkError(msg.err)
		m.logger.Warn("cannot reach relay", "err", msg.err)
		if m.host {
			m.backToMenu = true
			return m, nil
		}
		m.state = LobbyEnterCode
		return m, nil

	case PeerPairedMsg:
		if msg.link != m.link || m.state != LobbyHostWaiting {
			return m, nil
		}
		m.announce = true
		m.state = LobbyReady
		return m, nil
	}

	return m, nil
}

func describeLinkError(err error) string {
	switch {
	case errors.Is(err, multiplayer.ErrRoomNotFound):
		return "no room with that code"
	case errors.Is(err, multiplayer.ErrRoomFull):
		return "that room is full"
	case errors.Is(err, context.DeadlineExceeded):
		return "relay did not answer"
	}
	return "relay unreachable"
}

func (m LobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch k {
	case "ctrl+c":
		m.cancel()
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.cancel()
		m.backToMenu = true
		return m, nil
	}

	if m.state != LobbyEnterCode {
		return m, nil
	}

	switch k {
	case "enter":
		if len(m.code) == multiplayer.CodeLength {
			m.attempt++
			m.err = ""
			m.state = LobbyConnecting
			return m, m.dial(m.code)
		}
	case "backspace":
		if m.code != "" {
			m.code = m.code[:len(m.code)-1]
		}
	default:
		if len(k) == 1 && len(m.code) < multiplayer.CodeLength {
			c := multiplayer.NormalizeCode(k)
			if c != "" && multiplayer.ValidCodeRune(rune(c[0])) {
				m.code += c
			}
		}
	}
	return m, nil
}

// cancel abandons any dial in flight and drops the link.
func (m *LobbyModel) cancel() {
	m.attempt++
	if m.link != nil {
		_ = m.link.Close() //nolint:errcheck // Close never fails
		m.link = nil
	}
}

// View renders the current state.
func (m LobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	switch m.state {
	case LobbyConnecting:
		b.WriteString(centerText(titleStyle.Render("CONNECTING"), m.width))
		b.WriteString("\n\n")
		if m.code != "" {
			b.WriteString(centerText("Joining room "+codeStyle.Render(m.code), m.width))
		} else {
			b.WriteString(centerText("Opening a room...", m.width))
		}
		b.WriteString("\n\n")
		b.WriteString(centerText(mutedStyle.Render("esc cancel"), m.width))

	case LobbyHostWaiting:
		b.WriteString(centerText(titleStyle.Render("HOSTING"), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Share this code with your partner:", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(codeStyle.Render(fmt.Sprintf("[ %s ]", m.code)), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Waiting for your partner...", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(mutedStyle.Render("esc cancel"), m.width))

	case LobbyEnterCode:
		b.WriteString(centerText(titleStyle.Render("JOIN"), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Enter the room code:", m.width))
		b.WriteString("\n\n")
		display := m.code
		if len(display) < multiplayer.CodeLength {
			display += "_" + strings.Repeat(" ", multiplayer.CodeLength-len(display)-1)
		}
		b.WriteString(centerText(codeStyle.Render(fmt.Sprintf("[ %s ]", display)), m.width))
		b.WriteString("\n")
		if m.err != "" {
			b.WriteString("\n")
			b.WriteString(centerText(errorStyle.Render(m.err), m.width))
		}
		b.WriteString("\n\n")
		b.WriteString(centerText(mutedStyle.Render("enter connect  esc back"), m.width))

	case LobbyReady:
		b.WriteString(centerText(titleStyle.Render("READY"), m.width))
	}
	return b.String()
}

// Ready returns true once the game can start.
func (m LobbyModel) Ready() bool {
	return m.state == LobbyReady
}

// Link hands the connected link over to the caller, which then owns it.
func (m LobbyModel) Link() *multiplayer.PeerLink {
	return m.link
}

// Announce reports whether the host should send the starting level right away.
func (m LobbyModel) Announce() bool {
	return m.announce
}

// Err returns the last connection error shown to the player.
func (m LobbyModel) Err() string {
	return m.err
}

// State returns the current lobby state.
func (m LobbyModel) State() LobbyState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m LobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m LobbyModel) IsQuitting() bool {
	return m.quitting
}
