package heist

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	platformcore "github.com/vovakirdan/tui-heist/internal/core"
	"github.com/vovakirdan/tui-heist/internal/games/heist/core"
	"github.com/vovakirdan/tui-heist/internal/registry"
)

type levelList []core.Level

func (l levelList) Count() int { return len(l) }

func (l levelList) Level(n int) (core.Level, error) {
	if len(l) == 0 {
		return core.Level{}, core.ErrNoLevels
	}
	return l[(n-1)%len(l)], nil
}

// corridor is an 8x3 room: start at the west end, a bag in the middle and
// the exit at the east end.
func corridor(name string) core.Level {
	var walls []core.Tile
	for c := range 8 {
		walls = append(walls, core.T(c, 0), core.T(c, 2))
	}
	walls = append(walls, core.T(0, 1), core.T(7, 1))
	return core.Level{
		ID:    strings.ToLower(name),
		Name:  name,
		Cols:  8,
		Rows:  3,
		Walls: walls,
		Loot:  []core.LootSpec{{At: core.T(3, 1), Kind: core.LootBag}},
		Start: core.T(1, 1),
		Exit:  core.T(6, 1),
	}
}

type recorder struct {
	events []core.Event
}

func (r *recorder) Emit(e core.Event) { r.events = append(r.events, e) }

func newTestGame(t *testing.T, g *Game, lvls ...core.Level) *Game {
	t.Helper()
	g.SetSource(levelList(lvls))
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7, Level: 1})
	if err := g.Err(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	return g
}

func step(g *Game, n int, actions ...platformcore.Action) {
	in := platformcore.NewInputFrame()
	for range n {
		in.Clear()
		for _, a := range actions {
			in.Set(a)
		}
		g.Step(in)
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"heist", "heist_endless"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, expected %q", g.ID(), id)
		}
	}
}

func TestResetLoadsBuiltinCampaign(t *testing.T) {
	g := New()
	g.Reset(platformcore.DefaultConfig())
	if err := g.Err(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	snap := g.Snapshot()
	if snap.Level != 1 || snap.LevelName != "The Suburbs" {
		t.Errorf("started on %d %q, expected 1 The Suburbs", snap.Level, snap.LevelName)
	}
	if g.State().GameOver {
		t.Error("fresh game should not be over")
	}
}

func TestClearLevelThenAdvance(t *testing.T) {
	g := newTestGame(t, New(), corridor("One"), corridor("Two"))

	step(g, 100, platformcore.ActionRight)
	st := g.State()
	if !st.Won || st.GameOver {
		t.Fatalf("State() = %+v, expected a cleared level", st)
	}
	if st.Score != core.LootBag.Value() {
		t.Errorf("Score = %d, expected %d", st.Score, core.LootBag.Value())
	}

	step(g, 1, platformcore.ActionConfirm)
	st = g.State()
	if st.Level != 2 || st.Won {
		t.Errorf("after Confirm State() = %+v, expected level 2 in play", st)
	}
	if st.Score != core.LootBag.Value() {
		t.Errorf("score should carry over, got %d", st.Score)
	}
}

func TestCompleteCampaignStartsOver(t *testing.T) {
	g := newTestGame(t, New(), corridor("One"), corridor("Two"))

	step(g, 100, platformcore.ActionRight)
	step(g, 1, platformcore.ActionConfirm)
	step(g, 100, platformcore.ActionRight)

	if s := g.Snapshot().Status; s != core.StatusComplete {
		t.Fatalf("Status = %s, expected complete", s)
	}
	if !g.State().GameOver {
		t.Error("a completed campaign should report game over")
	}

	step(g, 1, platformcore.ActionConfirm)
	st := g.State()
	if st.Level != 1 || st.Score != 0 || st.GameOver {
		t.Errorf("after play again State() = %+v, expected a fresh level 1", st)
	}
}

func TestEndlessNeverCompletes(t *testing.T) {
	g := newTestGame(t, NewEndless(), corridor("One"), corridor("Two"))

	for lvl := 1; lvl <= 3; lvl++ {
		step(g, 100, platformcore.ActionRight)
		if s := g.Snapshot().Status; s != core.StatusWon {
			t.Fatalf("level %d status = %s, expected won", lvl, s)
		}
		step(g, 1, platformcore.ActionConfirm)
	}
	if g.State().Level != 4 {
		t.Errorf("Level = %d, expected 4", g.State().Level)
	}
}

func TestLaserCatchAndRestart(t *testing.T) {
	lvl := corridor("Wired")
	lvl.Lasers = []core.LaserSpec{{From: core.Vec{X: 2.5, Y: 1}, To: core.Vec{X: 2.5, Y: 2}}}
	g := newTestGame(t, New(), lvl)

	step(g, 20, platformcore.ActionRight)
	if !g.State().GameOver || g.Snapshot().Status != core.StatusCaught {
		t.Fatalf("State() = %+v, expected caught", g.State())
	}

	step(g, 1, platformcore.ActionRestart)
	snap := g.Snapshot()
	if snap.Status != core.StatusPlaying || snap.Alert != 0 {
		t.Errorf("after restart status %s alert %v, expected fresh attempt", snap.Status, snap.Alert)
	}
	if snap.Hero.Pos.X != 60 {
		t.Errorf("hero x = %v, expected back at start 60", snap.Hero.Pos.X)
	}
}

func TestPauseFreezesHero(t *testing.T) {
	g := newTestGame(t, New(), corridor("One"))

	step(g, 1, platformcore.ActionPause)
	if !g.State().Paused {
		t.Fatal("Pause should pause the game")
	}
	step(g, 10, platformcore.ActionRight)
	if x := g.Snapshot().Hero.Pos.X; x != 60 {
		t.Errorf("hero moved while paused to x=%v", x)
	}

	step(g, 1, platformcore.ActionPause)
	step(g, 1, platformcore.ActionRight)
	if x := g.Snapshot().Hero.Pos.X; x <= 60 {
		t.Errorf("hero did not move after unpausing, x=%v", x)
	}
}

func TestFrameDeltaIsCapped(t *testing.T) {
	g := newTestGame(t, New(), corridor("One"))

	in := platformcore.NewInputFrame()
	in.Set(platformcore.ActionRight)
	in.Delta = time.Second
	g.Step(in)

	// One second of wall clock is clamped to three nominal frames.
	expected := 60 + 3*g.tuning.Hero.Speed
	if x := g.Snapshot().Hero.Pos.X; x < expected-1e-9 || x > expected+1e-9 {
		t.Errorf("hero x = %v, expected %v", x, expected)
	}
}

func TestCoopEvents(t *testing.T) {
	g := newTestGame(t, New(), corridor("One"))
	rec := &recorder{}
	g.SetSink(rec)

	g.Announce()
	if len(rec.events) != 1 || rec.events[0] != (core.LevelEvent{Level: 1, Start: true}) {
		t.Fatalf("Announce() emitted %+v", rec.events)
	}

	step(g, 1)
	if _, ok := rec.events[len(rec.events)-1].(core.PositionEvent); !ok {
		t.Errorf("Step() should broadcast position, got %+v", rec.events)
	}

	g.Deliver(core.PartnerLeftEvent{})
	step(g, 1)
	if !g.State().Paused || g.Snapshot().Status != core.StatusPaused {
		t.Fatalf("partner leaving should pause, State() = %+v", g.State())
	}
	step(g, 1, platformcore.ActionConfirm)
	if g.Snapshot().Status != core.StatusPlaying {
		t.Errorf("Confirm should resume, status %s", g.Snapshot().Status)
	}
}

func TestNoLevels(t *testing.T) {
	g := New()
	g.SetSource(levelList(nil))
	g.Reset(platformcore.DefaultConfig())

	if !errors.Is(g.Err(), core.ErrNoLevels) {
		t.Fatalf("Err() = %v, expected ErrNoLevels", g.Err())
	}
	if !g.State().GameOver {
		t.Error("a game without levels should be over")
	}

	s := platformcore.NewScreen(80, 24)
	g.Step(platformcore.NewInputFrame())
	g.Render(s)
	if !strings.Contains(s.String(), "Cannot start heist") {
		t.Errorf("Render() should explain the failure:\n%s", s.String())
	}
}

func TestRenderMap(t *testing.T) {
	g := newTestGame(t, New(), corridor("One"))
	s := platformcore.NewScreen(80, 24)
	g.Render(s)

	// The 16-cell map is centered at column 32, below the HUD.
	checks := []struct {
		name string
		x, y int
		r    rune
	}{
		{"wall corner", 32, 3, '█'},
		{"hero", 35, 4, '@'},
		{"bag", 39, 4, '$'},
		{"exit", 45, 4, ']'},
	}
	for _, c := range checks {
		if got := s.Get(c.x, c.y); got != c.r {
			t.Errorf("%s at (%d, %d) = %q, expected %q", c.name, c.x, c.y, got, c.r)
		}
	}
	if !strings.Contains(s.Row(1), "ALERT") {
		t.Errorf("HUD row = %q, expected alert meter", s.Row(1))
	}
}

func TestConeColor(t *testing.T) {
	grid := core.NewTileGrid(6, 3, []core.Tile{core.T(3, 1)}, core.GridOptions{TileSize: 40, LOSSteps: 20})
	watcher := core.ObserverView{
		Observer: core.Observer{Pos: core.Vec{X: 20, Y: 60}, HalfAngle: 0.5, Range: 200},
		Kind:     core.ThreatGuard,
	}
	inFront := core.T(2, 1).Center(40)
	behindWall := core.T(4, 1).Center(40)

	if seen, c := coneColor(grid, []core.ObserverView{watcher}, inFront); !seen || c != platformcore.ColorYellow {
		t.Errorf("coneColor(in front) = (%v, %v), expected yellow", seen, c)
	}
	if seen, _ := coneColor(grid, []core.ObserverView{watcher}, behindWall); seen {
		t.Error("a wall should hide the tile behind it")
	}

	alarmed := watcher
	alarmed.Detecting = true
	if _, c := coneColor(grid, []core.ObserverView{watcher, alarmed}, inFront); c != platformcore.ColorRed {
		t.Errorf("coneColor() = %v, expected red for a detecting guard", c)
	}
}

func TestRenderConeKeepsFloorGlyph(t *testing.T) {
	lvl := corridor("Watched")
	lvl.Guards = []core.GuardSpec{{Path: []core.Tile{core.T(5, 1)}, Facing: math.Pi}}
	g := newTestGame(t, New(), lvl)
	s := platformcore.NewScreen(80, 24)
	g.Render(s)

	// Tile (4, 1) sits right in front of the guard.
	c := s.GetCell(40, 4)
	if c.Rune != '·' || c.Color == platformcore.ColorDarkGray {
		t.Errorf("cell in the cone = %+v, expected a tinted floor dot", c)
	}
}

func TestRenderOverlays(t *testing.T) {
	lvl := corridor("Wired")
	lvl.Lasers = []core.LaserSpec{{From: core.Vec{X: 2.5, Y: 1}, To: core.Vec{X: 2.5, Y: 2}}}
	g := newTestGame(t, New(), lvl)

	small := platformcore.NewScreen(20, 5)
	g.Render(small)
	if !strings.Contains(small.String(), "too small") {
		t.Errorf("small screen should ask for a resize:\n%s", small.String())
	}

	step(g, 20, platformcore.ActionRight)
	s := platformcore.NewScreen(80, 24)
	g.Render(s)
	if !strings.Contains(s.String(), "CAUGHT!") {
		t.Errorf("caught overlay missing:\n%s", s.String())
	}
}

func TestFacingArrow(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		expected rune
	}{
		{"east", 0, '→'},
		{"south", 1.5708, '↓'},
		{"west", 3.14159, '←'},
		{"north", -1.5708, '↑'},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := facingArrow(tc.angle); got != tc.expected {
				t.Errorf("facingArrow(%v) = %q, expected %q", tc.angle, got, tc.expected)
			}
		})
	}
}
