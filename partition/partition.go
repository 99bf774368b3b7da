// Package partition implements the cell-to-worker owner function shared
// by every worker in a distributed search. Every worker MUST compute
// Owner identically; any disagreement corrupts global correctness,
// since a cell closed by worker r is only ever valid if Owner(p) == r.
package partition

import "hdastar/grid"

// Owner returns the rank of the worker responsible for holding frontier
// and closed state for p, out of worldSize workers. The function is
// intentionally locality-blind (a simple coordinate-sum hash) to spread
// frontier load; it makes no guarantee about neighbor co-location.
func Owner(p grid.Position, worldSize int) int {
	return (p.X + p.Y) % worldSize
}
