package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-heist/internal/core"
	"github.com/vovakirdan/tui-heist/internal/multiplayer"
	"github.com/vovakirdan/tui-heist/internal/storage"
)

var testLevels = []string{"Lobby", "Vault", "Gallery"}

func sendMenu(m MenuModel, msgs ...tea.Msg) MenuModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}
	return m
}

func TestMenuItems(t *testing.T) {
	solo := NewMenuModel(core.DefaultConfig(), testLevels, false)
	coop := NewMenuModel(core.DefaultConfig(), testLevels, true)
	if len(solo.items) != 3 {
		t.Errorf("solo menu has %d items, expected 3", len(solo.items))
	}
	if len(coop.items) != 5 {
		t.Errorf("co-op menu has %d items, expected 5", len(coop.items))
	}
	if !strings.Contains(coop.View(), "Join co-op") {
		t.Error("co-op menu should offer joining a room")
	}
}

func TestMenuLevelPicker(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Level = 9 // out of range falls back to the first level
	m := NewMenuModel(cfg, testLevels, false)
	if m.Level() != 1 {
		t.Fatalf("Level() = %d, expected 1", m.Level())
	}

	right := tea.KeyMsg{Type: tea.KeyRight}
	m = sendMenu(m, right, right, right)
	if m.Level() != len(testLevels) {
		t.Errorf("Level() = %d, expected clamp at %d", m.Level(), len(testLevels))
	}
	m = sendMenu(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Level() != 2 {
		t.Errorf("Level() = %d, expected 2", m.Level())
	}
	if !strings.Contains(m.View(), "Vault") {
		t.Error("View() should name the selected level")
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), testLevels, true)
	if m.Selected() != ChoiceNone {
		t.Fatalf("Selected() = %v before choosing", m.Selected())
	}

	down := tea.KeyMsg{Type: tea.KeyDown}
	m = sendMenu(m, down, down, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != ChoiceHost {
		t.Errorf("Selected() = %v, expected ChoiceHost", m.Selected())
	}

	m = NewMenuModel(core.DefaultConfig(), testLevels, false)
	m = sendMenu(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Selected() != ChoiceScores {
		t.Errorf("Selected() = %v, expected ChoiceScores", m.Selected())
	}
}

func sendLobby(m LobbyModel, msgs ...tea.Msg) (LobbyModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(LobbyModel)
	}
	return m, cmd
}

func TestLobbyCodeEntry(t *testing.T) {
	m := NewJoinLobby("localhost:1", nil, 80, 24)
	if m.Init() != nil {
		t.Error("joining should wait for a code before dialing")
	}

	// 0 and ! are not part of the code alphabet.
	m, _ = sendLobby(m, runes("a"), runes("0"), runes("b"), runes("!"), runes("c"))
	if m.code != "ABC" {
		t.Fatalf("code = %q, expected ABC", m.code)
	}
	m, cmd := sendLobby(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.State() != LobbyEnterCode {
		t.Error("enter should wait for a full code")
	}

	m, _ = sendLobby(m, tea.KeyMsg{Type: tea.KeyBackspace}, runes("d"), runes("e"), runes("f"))
	if m.code != "ABDE" {
		t.Fatalf("code = %q, expected ABDE", m.code)
	}
	m, cmd = sendLobby(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || m.State() != LobbyConnecting {
		t.Errorf("enter with a full code should dial, state %v", m.State())
	}
}

func TestLobbyJoinError(t *testing.T) {
	m := NewJoinLobby("localhost:1", nil, 80, 24)
	m, _ = sendLobby(m, runes("w"), runes("x"), runes("y"), runes("z"), tea.KeyMsg{Type: tea.KeyEnter})

	// A reply to an earlier attempt is ignored.
	m, _ = sendLobby(m, linkErrMsg{attempt: m.attempt - 1, err: errors.New("late")})
	if m.State() != LobbyConnecting {
		t.Fatalf("State() = %v, expected LobbyConnecting", m.State())
	}

	m, _ = sendLobby(m, linkErrMsg{attempt: m.attempt, err: multiplayer.ErrRoomNotFound})
	if m.State() != LobbyEnterCode || m.Err() != "no room with that code" {
		t.Errorf("State() = %v, Err() = %q", m.State(), m.Err())
	}
}

func TestLobbyHostError(t *testing.T) {
	m := NewHostLobby("localhost:1", nil, 80, 24)
	if m.Init() == nil {
		t.Fatal("hosting should dial right away")
	}
	m, _ = sendLobby(m, linkErrMsg{attempt: m.attempt, err: errors.New("refused")})
	if !m.BackToMenu() || m.Err() != "relay unreachable" {
		t.Errorf("BackToMenu() = %v, Err() = %q", m.BackToMenu(), m.Err())
	}
}

func TestLobbyEscape(t *testing.T) {
	m := NewHostLobby("localhost:1", nil, 80, 24)
	m, _ = sendLobby(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc should return to the menu")
	}
}

func sendSession(m SessionModel, msgs ...tea.Msg) (SessionModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(SessionModel)
	}
	return m, cmd
}

func TestSessionFlow(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	cfg := core.DefaultConfig()
	cfg.Seed = 1
	m := NewSessionModel(SessionOptions{Store: store, Config: cfg, LevelNames: testLevels})

	m, _ = sendSession(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.config.ScreenW != 100 {
		t.Errorf("ScreenW = %d, expected 100", m.config.ScreenW)
	}

	// Campaign is the first entry.
	m, cmd := sendSession(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame || cmd == nil {
		t.Fatalf("screen = %v, expected the game", m.screen)
	}
	if m.game.game.ID() != campaignGameID {
		t.Errorf("game ID = %q, expected %q", m.game.game.ID(), campaignGameID)
	}

	m, _ = sendSession(m, runes("p"), TickMsg{Gen: m.game.gen}, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, expected the menu", m.screen)
	}

	m, _ = sendSession(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScores {
		t.Fatalf("screen = %v, expected the scoreboard", m.screen)
	}
	m, _ = sendSession(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("screen = %v, expected the menu", m.screen)
	}

	m, cmd = sendSession(m, runes("q"))
	if !m.quitting || cmd == nil || m.View() != "" {
		t.Error("q should quit from the menu")
	}
}

func TestScoreboardTabs(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if _, err := store.SaveResult(storage.ScoreEntry{GameID: "heist", Score: 1200, Level: 3, Outcome: storage.OutcomeCaught}); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	if _, err := store.SaveCoopRun(storage.CoopRun{RoomCode: "ABCD", GameID: "heist", Role: "guest", Score: 300, Level: 1, Outcome: storage.OutcomeQuit, Duration: 75}); err != nil {
		t.Fatalf("SaveCoopRun() error = %v", err)
	}

	m := NewScoreboardModel(store, 100, 30)
	if got := m.tabs[m.tabCursor].ID; got != "heist" {
		t.Fatalf("first board = %q, expected heist", got)
	}
	if len(m.rows) != 1 || m.rows[0][1] != "1200" || m.rows[0][3] != storage.OutcomeCaught {
		t.Errorf("heist rows = %v", m.rows)
	}

	// Stepping back from the first board wraps to the co-op history.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if !m.tabs[m.tabCursor].Coop {
		t.Fatalf("board = %q, expected co-op runs", m.tabs[m.tabCursor].Title)
	}
	if len(m.rows) != 1 || m.rows[0][0] != "ABCD" || m.rows[0][5] != "1:15" {
		t.Errorf("co-op rows = %v", m.rows)
	}
}
