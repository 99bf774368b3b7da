// Package grid implements the weighted 2D grid model: cell values and
// their traversal weights, per-cell search marks, and grid bounds.
//
// The border ring of every grid is always WALL, so callers expanding the
// 8-neighborhood never need bounds checks.
package grid

import "fmt"

// Position is an integer grid cell coordinate.
type Position struct {
	X, Y int
}

// CellValue is the terrain type of a cell.
type CellValue int

const (
	Free CellValue = iota
	Wall
	Sand
	Water
	Mud
	Grass
	Tunnel
)

// weight holds the traversal cost of each CellValue. Wall's entry is a
// sentinel and is never read: Wall cells are always excluded before a
// weight lookup happens.
var weight = [...]float64{
	Free:   1.0,
	Wall:   -1, // sentinel, never consulted
	Sand:   3.0,
	Water:  9.0,
	Mud:    2.3,
	Grass:  1.5,
	Tunnel: 0.1,
}

// Weight returns the traversal cost of v. Panics if v is Wall, since a
// wall's weight must never be read by correct callers.
func Weight(v CellValue) float64 {
	if v == Wall {
		panic("grid: Weight called on Wall cell")
	}
	return weight[v]
}

// CellMark is the per-worker search state of a cell. Marks are local to
// a worker and are never shipped over the wire.
type CellMark int

const (
	None CellMark = iota
	Closed
	Frontier
	Path
)

// Grid is a weighted 2D grid with a start and end position. The border
// ring (x in {0, X-1} or y in {0, Y-1}) is always Wall. A Grid's terrain
// (value, dimensions, Start, End) is built up front (by New, then
// SetValue calls from a generator or a test) and is never changed once a
// search starts, so it is safe to share read-only
// across worker goroutines; per-worker search state lives separately, in
// a Marks value (see NewMarks): marks must belong to exactly one worker
// at a time, so they can never live on the shared Grid itself.
type Grid struct {
	X, Y       int
	value      []CellValue
	Start, End Position
}

// New allocates a width x height grid, with every cell initialized to
// fill (interior) and the border ring forced to Wall. width and height
// must each be at least 3.
func New(width, height int, fill CellValue) (*Grid, error) {
	if width < 3 || height < 3 {
		return nil, fmt.Errorf("grid: dimensions must be >= 3, got %dx%d", width, height)
	}
	g := &Grid{
		X:     width,
		Y:     height,
		value: make([]CellValue, width*height),
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			v := fill
			if onBorder(width, height, x, y) {
				v = Wall
			}
			g.value[g.index(x, y)] = v
		}
	}
	return g, nil
}

func onBorder(width, height, x, y int) bool {
	return x == 0 || y == 0 || x == width-1 || y == height-1
}

func (g *Grid) index(x, y int) int {
	return x*g.Y + y
}

// InBounds reports whether p lies within the grid's dimensions.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.X && p.Y >= 0 && p.Y < g.Y
}

// Value returns the terrain value at p.
func (g *Grid) Value(p Position) CellValue {
	return g.value[g.index(p.X, p.Y)]
}

// SetValue sets the terrain value at p.
func (g *Grid) SetValue(p Position, v CellValue) {
	g.value[g.index(p.X, p.Y)] = v
}

// Marks is a per-worker mutable overlay of search state (None, Closed,
// Frontier, Path) over an otherwise-shared, read-only Grid. Marks are
// never shipped over the wire, and a worker's Marks value is never
// touched by any other worker: a cell closed by worker r is only ever
// closed on r's own Marks value.
type Marks struct {
	g    *Grid
	mark []CellMark
}

// NewMarks allocates a fresh, all-None mark overlay sized to g.
func NewMarks(g *Grid) *Marks {
	return &Marks{g: g, mark: make([]CellMark, g.X*g.Y)}
}

// Mark returns the search mark at p.
func (m *Marks) Mark(p Position) CellMark {
	return m.mark[m.g.index(p.X, p.Y)]
}

// SetMark sets the search mark at p. Mark transitions are monotone
// (None -> Frontier -> Closed -> Path); callers are responsible for
// only ever moving a cell forward along that chain.
func (m *Marks) SetMark(p Position, v CellMark) {
	m.mark[m.g.index(p.X, p.Y)] = v
}

// neighborOffsets are the 8 offsets of a Moore neighborhood, central
// cell elided.
var neighborOffsets = [8]Position{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors calls fn for each of the 8 grid-neighbors of p, together with
// whether the move from p to that neighbor is diagonal. Out-of-bounds
// neighbors are skipped (only possible when p itself is on the border,
// which a correct search never expands since borders are Wall).
func (g *Grid) Neighbors(p Position, fn func(n Position, diagonal bool)) {
	for _, off := range neighborOffsets {
		n := Position{X: p.X + off.X, Y: p.Y + off.Y}
		if !g.InBounds(n) {
			continue
		}
		diagonal := off.X != 0 && off.Y != 0
		fn(n, diagonal)
	}
}
