package heist

import (
	"fmt"
	"math"
	"strings"

	platformcore "github.com/vovakirdan/tui-heist/internal/core"
	"github.com/vovakirdan/tui-heist/internal/games/heist/core"
)

const (
	cellsPerTile = 2 // terminal cells are roughly twice as tall as wide
	hudHeight    = 3
	meterWidth   = 20
)

var lootGlyphs = map[core.LootKind]struct {
	r rune
	c platformcore.Color
}{
	core.LootBag:      {'$', platformcore.ColorYellow},
	core.LootGem:      {'*', platformcore.ColorBrightCyan},
	core.LootLaptop:   {'%', platformcore.ColorBrightBlue},
	core.LootPainting: {'&', platformcore.ColorMagenta},
	core.LootCrown:    {'^', platformcore.ColorBrightYellow},
}

// Render draws the HUD, the map and any overlay for the current state.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.loadErr != nil {
		renderOverlay(dst, "Cannot start heist", g.loadErr.Error(), "Press Q to quit")
		return
	}

	snap := g.snap
	if snap.Grid == nil {
		return
	}
	renderHUD(dst, snap, g.Title())

	grid := snap.Grid
	mapW := grid.Cols() * cellsPerTile
	mapH := grid.Rows()
	if dst.Width() < mapW || dst.Height() < mapH+hudHeight {
		renderOverlay(dst, "Window too small",
			fmt.Sprintf("Need %dx%d", mapW, mapH+hudHeight), "Resize to continue")
		return
	}

	offX := (dst.Width() - mapW) / 2
	v := viewport{
		offX: offX,
		offY: hudHeight,
		tile: grid.TileSize(),
		area: platformcore.NewRect(offX, hudHeight, mapW, mapH),
	}
	renderMap(dst, v, snap)

	switch {
	case snap.Status == core.StatusCaught:
		renderOverlay(dst, "CAUGHT!", fmt.Sprintf("Score: %d", snap.Score), "Press R to try again")
	case snap.Status == core.StatusWon:
		renderOverlay(dst, "LEVEL CLEARED", fmt.Sprintf("Score: %d", snap.Score), "Press Enter for the next level")
	case snap.Status == core.StatusComplete:
		renderOverlay(dst, "ALL LEVELS CLEARED", fmt.Sprintf("Final score: %d", snap.Score), "Press Enter to play again")
	case snap.Status == core.StatusPaused:
		renderOverlay(dst, "PARTNER LEFT", "Enter to continue solo", "R to restart the level")
	case g.paused:
		renderOverlay(dst, "PAUSED", fmt.Sprintf("Level %d", snap.Level), "Press P to continue")
	}
}

// viewport maps world coordinates onto screen cells.
type viewport struct {
	offX, offY int
	tile       float64
	area       platformcore.Rect
}

func (v viewport) cell(p core.Vec) (x, y int) {
	x = v.offX + int(math.Floor(p.X/v.tile*cellsPerTile))
	y = v.offY + int(math.Floor(p.Y/v.tile))
	return x, y
}

func renderHUD(dst *platformcore.Screen, snap core.Snapshot, title string) {
	top := fmt.Sprintf(" %s  Level %d: %s  Score %d  Loot %d/%d",
		title, snap.Level, snap.LevelName, snap.Score, snap.Collected, snap.TotalLoot)
	dst.DrawText(0, 0, top)

	filled := int(math.Round(snap.Alert * meterWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
	dst.DrawText(1, 1, "ALERT ")
	dst.DrawTextColored(7, 1, bar, platformcore.AlertColor(snap.Alert))
	status := fmt.Sprintf(" %3.0f%%", snap.Alert*100)
	if snap.Hero.Sneaking {
		status += "  SNEAKING"
	}
	if snap.Partner != nil {
		status += "  CO-OP"
	}
	dst.DrawText(7+meterWidth, 1, status)

	for x := range dst.Width() {
		dst.Set(x, 2, '─')
	}
}

func renderMap(dst *platformcore.Screen, v viewport, snap core.Snapshot) {
	grid := snap.Grid
	ts := grid.TileSize()

	// Floor, walls and vision cones, one tile at a time.
	for row := range grid.Rows() {
		for col := range grid.Cols() {
			x := v.offX + col*cellsPerTile
			y := v.offY + row
			if grid.IsBlocked(col, row) {
				dst.SetColored(x, y, '█', platformcore.ColorGray)
				dst.SetColored(x+1, y, '█', platformcore.ColorGray)
				continue
			}

			dst.SetColored(x, y, '·', platformcore.ColorDarkGray)
			dst.SetColored(x+1, y, '·', platformcore.ColorDarkGray)
			if seen, color := coneColor(grid, snap.Observers, core.T(col, row).Center(ts)); seen {
				dst.Tint(x, y, color)
				dst.Tint(x+1, y, color)
			}
		}
	}

	for _, l := range snap.Lasers {
		if l.Active {
			renderLaser(dst, v, l)
		}
	}

	ex, ey := v.cell(snap.Exit)
	dst.SetColored(ex-1, ey, '[', platformcore.ColorBrightGreen)
	dst.SetColored(ex, ey, ']', platformcore.ColorBrightGreen)

	for _, it := range snap.Loot {
		if it.Collected {
			continue
		}
		x, y := v.cell(it.Pos)
		gl := lootGlyphs[it.Kind]
		dst.SetColored(x, y, gl.r, gl.c)
	}

	for _, o := range snap.Observers {
		x, y := v.cell(o.Pos)
		if o.Kind == core.ThreatCamera {
			dst.SetColored(x, y, 'C', platformcore.ColorBrightMagenta)
			continue
		}
		color := platformcore.ColorOrange
		if o.Detecting {
			color = platformcore.ColorBrightRed
		}
		dst.SetColored(x, y, 'G', color)
		dst.SetColored(x+1, y, facingArrow(o.Facing), color)
	}

	if snap.Partner != nil {
		x, y := v.cell(snap.Partner.Pos)
		dst.SetColored(x, y, '@', platformcore.ColorBrightCyan)
	}

	hx, hy := v.cell(snap.Hero.Pos)
	dst.SetColored(hx, hy, '@', platformcore.AlertColor(snap.Alert))
}

// coneColor reports whether any observer sees p, red when a detecting one does.
func coneColor(grid *core.TileGrid, observers []core.ObserverView, p core.Vec) (bool, platformcore.Color) {
	seen := false
	for _, o := range observers {
		if !core.InFieldOfView(grid, o.Observer, p) {
			continue
		}
		if o.Detecting {
			return true, platformcore.ColorRed
		}
		seen = true
	}
	return seen, platformcore.ColorYellow
}

func renderLaser(dst *platformcore.Screen, v viewport, l core.LaserView) {
	ax, ay := v.cell(l.A)
	bx, by := v.cell(l.B)
	glyph := '─'
	if ax == bx {
		glyph = '│'
	}
	steps := max(platformcore.Abs(bx-ax), platformcore.Abs(by-ay), 1)
	for i := 0; i <= steps; i++ {
		x := ax + (bx-ax)*i/steps
		y := ay + (by-ay)*i/steps
		if !v.area.Contains(x, y) {
			continue
		}
		dst.SetColored(x, y, glyph, platformcore.ColorBrightRed)
	}
}

// facingArrow picks the arrow closest to an angle measured clockwise from +x.
func facingArrow(a float64) rune {
	arrows := []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
	sector := int(math.Round(platformcore.NormalizeAngle(a)/(math.Pi/4))) + 8
	return arrows[sector%8]
}

func renderOverlay(dst *platformcore.Screen, lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	boxW := width + 4
	boxH := len(lines) + 2
	box := platformcore.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)
	dst.DrawBox(box, platformcore.ColorBrightWhite)
	for i, l := range lines {
		color := platformcore.ColorDefault
		if i == 0 {
			color = platformcore.ColorBrightYellow
		}
		dst.DrawTextCentered(box.Y+1+i, l, color)
	}
}
