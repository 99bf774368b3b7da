// Package gridgen builds the grid.Grid terrains a search runs over:
// uniform-density random terrain, and maze terrain generated by
// Wilson's algorithm (random walk with loop erasure), both playing the
// role of the original program's initGridPoints and initGridLaby.
// Callers supply their own *rand.Rand so a run is reproducible from a
// single seed (the CLI's positional seed argument).
package gridgen

import (
	"fmt"
	"math/rand"

	"hdastar/grid"
)

// defaultEndpoints sets Start/End the way the original program does:
// start at bottom-right-of-interior, end at top-left-of-interior.
func defaultEndpoints(g *grid.Grid) {
	g.Start = grid.Position{X: g.X - 2, Y: g.Y - 2}
	g.End = grid.Position{X: 1, Y: 1}
}

// Empty builds a width x height grid with every interior cell Free.
func Empty(width, height int) (*grid.Grid, error) {
	g, err := grid.New(width, height, grid.Free)
	if err != nil {
		return nil, err
	}
	defaultEndpoints(g)
	return g, nil
}

// Points scatters fill over the interior at the given density (each
// interior cell independently becomes fill with probability density,
// else Free), mirroring initGridPoints. density must be in [0,1].
func Points(width, height int, fill grid.CellValue, density float64, rng *rand.Rand) (*grid.Grid, error) {
	if density < 0 || density > 1 {
		return nil, fmt.Errorf("gridgen: density must be in [0,1], got %g", density)
	}
	g, err := grid.New(width, height, grid.Free)
	if err != nil {
		return nil, err
	}
	for x := 1; x < width-1; x++ {
		for y := 1; y < height-1; y++ {
			if rng.Float64() <= density {
				g.SetValue(grid.Position{X: x, Y: y}, fill)
			}
		}
	}
	defaultEndpoints(g)
	return g, nil
}

// Walls is Points fixed to scattering Wall terrain, the original
// program's "random obstacle field" grid type.
func Walls(width, height int, density float64, rng *rand.Rand) (*grid.Grid, error) {
	return Points(width, height, grid.Wall, density, rng)
}

// Maze builds a perfect maze (exactly one path between any two free
// cells) by Wilson's algorithm, with corridors corridorWidth cells wide
// and single-cell walls between them, mirroring initGridLaby. width and
// height are measured in maze cells, not output grid cells: the
// returned grid has dimensions width*(corridorWidth+1)+1 by
// height*(corridorWidth+1)+1.
func Maze(width, height, corridorWidth int, rng *rand.Rand) (*grid.Grid, error) {
	if width < 3 || height < 3 {
		return nil, fmt.Errorf("gridgen: maze dimensions must be >= 3 cells, got %dx%d", width, height)
	}
	if corridorWidth <= 0 {
		corridorWidth = 1
	}

	outW := width*(corridorWidth+1) + 1
	outH := height*(corridorWidth+1) + 1
	g, err := grid.New(outW, outH, grid.Wall)
	if err != nil {
		return nil, err
	}
	// Lay down the regular wall lattice: free everywhere except the
	// gridlines every (corridorWidth+1) cells, which Wilson's algorithm
	// then carves doorways through.
	for x := 0; x < outW; x++ {
		for y := 0; y < outH; y++ {
			v := grid.Free
			if x%(corridorWidth+1) == 0 || y%(corridorWidth+1) == 0 {
				v = grid.Wall
			}
			g.SetValue(grid.Position{X: x, Y: y}, v)
		}
	}
	wilson(width, height, corridorWidth, g, rng)

	g.Start = grid.Position{X: outW - 2, Y: outH - 2}
	g.End = grid.Position{X: 1, Y: 1}
	return g, nil
}

// wilson runs Wilson's loop-erased-random-walk spanning tree algorithm
// over a width x height logical maze-cell grid, carving a doorway
// through g's wall lattice for every tree edge it adds.
//
// next[cell] records the step taken out of cell on the walk currently
// in progress. A walk that revisits a cell simply overwrites that
// cell's next[] entry with its new outgoing step; following next[]
// from the walk's start therefore always traces the current,
// loop-erased path, with no separate loop-detection bookkeeping needed.
func wilson(width, height, w int, g *grid.Grid, rng *rand.Rand) {
	n := width * height
	inTree := make([]bool, n)
	next := make([]int, n)

	idx := func(x, y int) int { return x*height + y }
	xy := func(i int) (int, int) { return i / height, i % height }

	inTree[0] = true

	for start := 0; start < n; start++ {
		if inTree[start] {
			continue
		}

		for cur := start; !inTree[cur]; {
			x, y := xy(cur)
			nx, ny := randomNeighbor(x, y, width, height, rng)
			next[cur] = idx(nx, ny)
			cur = next[cur]
		}

		for cur := start; !inTree[cur]; {
			n2 := next[cur]
			fx, fy := xy(cur)
			tx, ty := xy(n2)
			carveDoorway(g, fx, fy, tx, ty, w)
			inTree[cur] = true
			cur = n2
		}
	}
}

// randomNeighbor picks one of the 4-connected neighbors of (x,y)
// uniformly at random, retrying on a direction that would leave the
// width x height logical grid.
func randomNeighbor(x, y, width, height int, rng *rand.Rand) (nx, ny int) {
	for {
		switch rng.Intn(4) {
		case 0:
			if x <= 0 {
				continue
			}
			return x - 1, y
		case 1:
			if y <= 0 {
				continue
			}
			return x, y - 1
		case 2:
			if x >= width-1 {
				continue
			}
			return x + 1, y
		case 3:
			if y >= height-1 {
				continue
			}
			return x, y + 1
		}
	}
}

// carveDoorway opens the wall segment between logical maze cells
// (fx,fy) and (tx,ty), which must be 4-adjacent, across the full
// corridorWidth w.
func carveDoorway(g *grid.Grid, fx, fy, tx, ty, w int) {
	switch {
	case tx < fx:
		for i := 0; i < w; i++ {
			g.SetValue(grid.Position{X: fx * (w + 1), Y: ty*(w+1) + i + 1}, grid.Free)
		}
	case tx > fx:
		for i := 0; i < w; i++ {
			g.SetValue(grid.Position{X: tx * (w + 1), Y: fy*(w+1) + i + 1}, grid.Free)
		}
	case ty < fy:
		for i := 0; i < w; i++ {
			g.SetValue(grid.Position{X: fx*(w+1) + i + 1, Y: fy * (w + 1)}, grid.Free)
		}
	case ty > fy:
		for i := 0; i < w; i++ {
			g.SetValue(grid.Position{X: fx*(w+1) + i + 1, Y: ty * (w + 1)}, grid.Free)
		}
	}
}
