// Package heuristic provides pluggable cost-to-goal estimators for the
// A* family of searches in this module.
package heuristic

import (
	"math"

	"hdastar/grid"
)

// DiagonalBias is added to a move's score when the move is diagonal,
// breaking ties in favor of straight moves.
const DiagonalBias = 0.01

// Func estimates the cost from a position to the goal. Implementations
// must be non-negative and pure (no side effects, no dependence on
// search-in-progress state).
type Func func(from, to grid.Position) float64

// Euclidean is the "bird's eye view" heuristic: straight-line distance.
// It never overestimates a step that costs at least its own length. A
// step here costs the entered cell's weight, so a diagonal step onto a
// Free cell (length √2, cost 1.0) and any step onto a Tunnel cell
// (weight 0.1) cost less than their length, and on such paths Euclidean
// can overestimate the remaining cost.
func Euclidean(from, to grid.Position) float64 {
	dx := float64(to.X - from.X)
	dy := float64(to.Y - from.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Weighted returns alpha*Euclidean. alpha=0 yields uniform-cost search
// (Dijkstra), alpha=1 yields A* with the plain Euclidean estimate,
// alpha>1 yields a weighted A* that trades optimality for speed.
func Weighted(alpha float64) Func {
	return func(from, to grid.Position) float64 {
		return alpha * Euclidean(from, to)
	}
}
