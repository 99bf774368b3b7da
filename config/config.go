// Package config parses the astar command's arguments: the original
// program's 5 positional arguments (seed, width, height, type,
// algorithm), plus -workers and -telemetry flags that substitute for
// the absent mpirun launcher and the ambient telemetry dashboard
// respectively, validating argc and rejecting an unknown grid type the
// same way the original program's main() does.
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"
)

// GridType selects which gridgen generator builds the run's terrain.
type GridType string

const (
	GridEmpty GridType = "empty"
	GridWalls GridType = "walls"
	GridMaze  GridType = "maze"
)

// Algorithm selects the heuristic weighting applied during search,
// matching the original program's alpha selector (0: Dijkstra, 1: A*,
// 2: weighted/inadmissible "Approx").
type Algorithm int

const (
	Dijkstra Algorithm = 0
	AStar    Algorithm = 1
	Approx   Algorithm = 2
)

// Config is a fully validated run configuration.
type Config struct {
	Seed      int64
	Width     int
	Height    int
	Type      GridType
	Algorithm Algorithm

	Workers       int
	TelemetryAddr string // empty disables telemetry

	BestKnownCostPruning bool
}

const usage = `Usage: astar [-workers N] [-telemetry addr] <seed> <width> <height> <type> <algorithm>
  seed       PRNG seed; 0 selects a time-derived seed
  width      grid width in cells (>= 3)
  height     grid height in cells (>= 3)
  type       empty | walls | maze
  algorithm  0 (Dijkstra) | 1 (A*) | 2 (Approx, weighted/inadmissible)
  -workers N   number of simulated HDA* worker processes (default 1: sequential search)
  -telemetry addr   serve a live progress dashboard on addr, e.g. :8080 (default: disabled)
`

// Parse parses args (excluding the program name, i.e. os.Args[1:]) into
// a Config. errOut receives usage text on a parse error.
func Parse(args []string, errOut io.Writer) (Config, error) {
	fs := flag.NewFlagSet("astar", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() { fmt.Fprint(errOut, usage) }

	workers := fs.Int("workers", 1, "number of simulated HDA* worker processes")
	telemetry := fs.String("telemetry", "", "serve a live progress dashboard on this address")
	pruning := fs.Bool("best-known-cost-pruning", false, "discard a received frontier entry if a cheaper one for the same cell is already known")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	positional := fs.Args()
	if len(positional) != 5 {
		fs.Usage()
		return Config{}, fmt.Errorf("config: expected 5 positional arguments, got %d", len(positional))
	}

	seed, err := strconv.ParseInt(positional[0], 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid seed %q: %w", positional[0], err)
	}
	if seed == 0 {
		seed = time.Now().Unix() % 1000
	}

	width, err := strconv.Atoi(positional[1])
	if err != nil || width < 3 {
		return Config{}, fmt.Errorf("config: width must be an integer >= 3, got %q", positional[1])
	}
	height, err := strconv.Atoi(positional[2])
	if err != nil || height < 3 {
		return Config{}, fmt.Errorf("config: height must be an integer >= 3, got %q", positional[2])
	}

	gridType := GridType(positional[3])
	switch gridType {
	case GridEmpty, GridWalls, GridMaze:
	default:
		return Config{}, fmt.Errorf("config: unknown type %q, allowed: empty, walls, maze", positional[3])
	}

	algoNum, err := strconv.Atoi(positional[4])
	if err != nil || algoNum < 0 || algoNum > 2 {
		return Config{}, fmt.Errorf("config: algorithm must be 0, 1, or 2, got %q", positional[4])
	}

	if *workers < 1 {
		return Config{}, fmt.Errorf("config: -workers must be >= 1, got %d", *workers)
	}

	return Config{
		Seed:                 seed,
		Width:                width,
		Height:               height,
		Type:                 gridType,
		Algorithm:            Algorithm(algoNum),
		Workers:              *workers,
		TelemetryAddr:        *telemetry,
		BestKnownCostPruning: *pruning,
	}, nil
}
