// Command astar runs Hash-Distributed A* (HDA*) over a generated grid:
// a distributed best-first search simulated as worldSize in-process
// workers connected by package transport, falling back to the
// sequential reference search (package search) when -workers=1.
//
// This replaces the original single-process MPI program's launcher
// (mpirun spawning one OS process per rank): there is no external
// launcher here, so -workers takes the place of mpirun's process count.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"hdastar/config"
	"hdastar/distributed"
	"hdastar/grid"
	"hdastar/gridgen"
	"hdastar/heuristic"
	"hdastar/search"
	"hdastar/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main's testable body: it takes its arguments and output
// streams explicitly instead of reaching for os.Args/os.Stdout, the
// way the original program's main() is a thin wrapper around
// arguments a test harness can substitute.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	rng := rand.New(rand.NewSource(cfg.Seed))

	g, err := buildGrid(cfg, rng)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	h := heuristic.Weighted(float64(cfg.Algorithm))

	var reporter telemetry.Reporter
	if cfg.TelemetryAddr != "" {
		hub := telemetry.NewHub(cfg.TelemetryAddr)
		reporter = hub
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := hub.Serve(ctx); err != nil {
				log.Error().Err(err).Msg("telemetry server stopped")
			}
		}()
	}

	start := time.Now()
	var cost float64

	if cfg.Workers <= 1 {
		result := search.AStar(g, h, log)
		cost = result.Cost
	} else {
		ctx := context.Background()
		dcfg := distributed.Config{
			Heuristic:            h,
			BestKnownCostPruning: cfg.BestKnownCostPruning,
			Reporter:             reporter,
			Logger:               log,
		}
		cost, _, err = distributed.Run(ctx, g, cfg.Workers, dcfg)
		if err != nil {
			fmt.Fprintf(stderr, "astar: %v\n", err)
			return 1
		}
	}
	elapsed := time.Since(start)

	if cost < 0 {
		fmt.Fprintln(stdout, "path not found!")
		return 1
	}

	fmt.Fprintf(stdout, "Nb_cores: %d\nDimensions: %d\nBingo! Path found.. Cost: %g\tPerf: %gs\n",
		cfg.Workers, cfg.Width, cost, elapsed.Seconds())
	return 0
}

// buildGrid dispatches to the gridgen generator matching cfg.Type.
func buildGrid(cfg config.Config, rng *rand.Rand) (*grid.Grid, error) {
	switch cfg.Type {
	case config.GridEmpty:
		return gridgen.Empty(cfg.Width, cfg.Height)
	case config.GridWalls:
		return gridgen.Walls(cfg.Width, cfg.Height, 0.2, rng)
	case config.GridMaze:
		const corridorWidth = 3
		mazeW := cfg.Width / (corridorWidth + 1)
		mazeH := cfg.Height / (corridorWidth + 1)
		if mazeW < 3 {
			mazeW = 3
		}
		if mazeH < 3 {
			mazeH = 3
		}
		return gridgen.Maze(mazeW, mazeH, corridorWidth, rng)
	default:
		return nil, fmt.Errorf("astar: unknown grid type %q", cfg.Type)
	}
}
