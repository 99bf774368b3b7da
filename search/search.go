// Package search implements the sequential reference A* search: the
// classical single-process oracle the distributed search is checked
// against.
package search

import (
	"github.com/rs/zerolog"

	"hdastar/grid"
	"hdastar/handle"
	"hdastar/heap"
	"hdastar/heuristic"
)

// NotFound is returned when no path exists between start and end.
const NotFound = -1.0

// Result is the outcome of a sequential search.
type Result struct {
	Cost  float64 // NotFound if no path exists
	Marks *grid.Marks
}

// AStar runs classical A* with an 8-connected neighborhood from g.Start
// to g.End, using h as the cost-to-goal estimator. It records marks in a
// fresh grid.Marks overlay returned as Result.Marks (g itself is not
// modified): Closed for popped nodes, Frontier for discovered-but-open
// nodes, Path for the reconstructed path on success.
//
// Returns NotFound immediately if the end cell is a Wall, and NotFound
// if the frontier empties without reaching the end.
func AStar(g *grid.Grid, h heuristic.Func, log zerolog.Logger) Result {
	marks := grid.NewMarks(g)
	if g.Value(g.End) == grid.Wall {
		log.Error().Msg("destination is on a wall")
		return Result{Cost: NotFound, Marks: marks}
	}

	var window handle.WindowBuffer
	var frontier heap.Frontier

	frontier.Add(heap.Entry{
		Pos:    g.Start,
		Cost:   0,
		Score:  h(g.Start, g.End),
		Parent: handle.Root,
	})
	marks.SetMark(g.Start, grid.Frontier)

	for !frontier.Empty() {
		u := frontier.Pop()

		if marks.Mark(u.Pos) == grid.Closed {
			continue // stale duplicate
		}

		if u.Pos == g.End {
			walkPath(g, marks, &window, u)
			log.Info().Float64("cost", u.Cost).Msg("path found")
			return Result{Cost: u.Cost, Marks: marks}
		}

		marks.SetMark(u.Pos, grid.Closed)
		uHandle := window.Append(0, handle.Node{Pos: u.Pos, Cost: u.Cost, Score: u.Score, Parent: u.Parent})

		g.Neighbors(u.Pos, func(p grid.Position, diagonal bool) {
			if marks.Mark(p) != grid.None || g.Value(p) == grid.Wall {
				return
			}
			bias := 0.0
			if diagonal {
				bias = heuristic.DiagonalBias
			}
			cost := u.Cost + grid.Weight(g.Value(p))
			frontier.Add(heap.Entry{
				Pos:    p,
				Cost:   cost,
				Score:  cost + h(p, g.End) + bias,
				Parent: uHandle,
			})
			marks.SetMark(p, grid.Frontier)
		})
	}

	log.Warn().Msg("frontier exhausted without reaching destination")
	return Result{Cost: NotFound, Marks: marks}
}

// walkPath marks the path from the popped goal entry back to the start,
// using full-position equality as the loop-termination condition (the
// original C reconstruction used an OR of the x and y equalities, which
// terminates too early as soon as the walk reaches a cell sharing either
// coordinate with the start; this walk uses full position equality
// instead).
func walkPath(g *grid.Grid, marks *grid.Marks, window *handle.WindowBuffer, goal heap.Entry) {
	pos := goal.Pos
	parent := goal.Parent
	for pos != g.Start {
		marks.SetMark(pos, grid.Path)
		node := window.At(parent.Index)
		pos = node.Pos
		parent = node.Parent
	}
}
