// Package core contains the pure heist simulation: the wall index, threats,
// field-of-view detection, the alert meter and the level session that ties
// them together. It performs no I/O and never blocks.
package core

import (
	"math"

	platformcore "github.com/vovakirdan/tui-heist/internal/core"
)

// Vec is a point in world units.
type Vec = platformcore.Vec

// Tile addresses one grid cell.
type Tile struct {
	Col, Row int
}

// T is shorthand for Tile{Col: col, Row: row}.
func T(col, row int) Tile {
	return Tile{Col: col, Row: row}
}

// Center returns the world-space center of the tile.
func (t Tile) Center(tileSize float64) Vec {
	return Vec{
		X: float64(t.Col)*tileSize + tileSize/2,
		Y: float64(t.Row)*tileSize + tileSize/2,
	}
}

// GridOptions controls the geometry queries against a TileGrid.
type GridOptions struct {
	TileSize       float64
	CollisionInset float64 // corners of a body's box are pulled in by this much
	LOSSteps       int     // samples per line-of-sight test
}

// TileGrid is the static wall index of a level, stored as a dense bitset.
// Tiles are either fully walkable or fully blocking; anything outside the
// grid counts as blocking.
type TileGrid struct {
	cols, rows int
	opts       GridOptions
	bits       []uint64
	walls      int
}

// NewTileGrid builds the wall index. Walls outside the grid are ignored.
func NewTileGrid(cols, rows int, walls []Tile, opts GridOptions) *TileGrid {
	if opts.LOSSteps < 1 {
		opts.LOSSteps = 1
	}
	g := &TileGrid{
		cols: cols,
		rows: rows,
		opts: opts,
		bits: make([]uint64, (cols*rows+63)/64),
	}
	for _, w := range walls {
		if !g.InBounds(w.Col, w.Row) {
			continue
		}
		i := w.Row*cols + w.Col
		if g.bits[i/64]&(1<<(i%64)) == 0 {
			g.bits[i/64] |= 1 << (i % 64)
			g.walls++
		}
	}
	return g
}

// Cols returns the grid width in tiles.
func (g *TileGrid) Cols() int { return g.cols }

// Rows returns the grid height in tiles.
func (g *TileGrid) Rows() int { return g.rows }

// TileSize returns the edge length of a tile in world units.
func (g *TileGrid) TileSize() float64 { return g.opts.TileSize }

// WallCount returns the number of distinct blocked tiles.
func (g *TileGrid) WallCount() int { return g.walls }

// Size returns the world-space extent of the grid.
func (g *TileGrid) Size() (w, h float64) {
	return float64(g.cols) * g.opts.TileSize, float64(g.rows) * g.opts.TileSize
}

// InBounds reports whether the tile lies inside the grid.
func (g *TileGrid) InBounds(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

// IsBlocked reports whether the tile is a wall. Out-of-bounds tiles are blocked.
func (g *TileGrid) IsBlocked(col, row int) bool {
	if !g.InBounds(col, row) {
		return true
	}
	i := row*g.cols + col
	return g.bits[i/64]&(1<<(i%64)) != 0
}

// TileAt returns the tile containing a world point.
func (g *TileGrid) TileAt(p Vec) Tile {
	return Tile{
		Col: int(math.Floor(p.X / g.opts.TileSize)),
		Row: int(math.Floor(p.Y / g.opts.TileSize)),
	}
}

// BlockedAt reports whether the tile containing p is blocked.
func (g *TileGrid) BlockedAt(p Vec) bool {
	t := g.TileAt(p)
	return g.IsBlocked(t.Col, t.Row)
}

// CollidesWall tests the four inset corners of a body's bounding box.
func (g *TileGrid) CollidesWall(p Vec, radius float64) bool {
	off := math.Max(0, radius-g.opts.CollisionInset)
	return g.BlockedAt(Vec{X: p.X - off, Y: p.Y - off}) ||
		g.BlockedAt(Vec{X: p.X + off, Y: p.Y - off}) ||
		g.BlockedAt(Vec{X: p.X - off, Y: p.Y + off}) ||
		g.BlockedAt(Vec{X: p.X + off, Y: p.Y + off})
}

// HasLineOfSight samples evenly spaced points from just past `from` up to and
// including `to`. Any sample in a blocked tile breaks sight.
func (g *TileGrid) HasLineOfSight(from, to Vec) bool {
	d := to.Sub(from)
	n := g.opts.LOSSteps
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		if g.BlockedAt(from.Add(d.Scale(t))) {
			return false
		}
	}
	return true
}
