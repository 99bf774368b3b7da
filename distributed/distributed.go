// Package distributed implements HDA* (Hash-Distributed A*): a
// distributed best-first search with per-owner priority frontiers,
// asynchronous point-to-point dispatch of discovered nodes, global
// termination on goal discovery, and cooperative back-pointer path
// reconstruction across workers.
//
// Each worker is simulated as one goroutine, connected to every other
// worker by a transport.Fabric. This mirrors the original MPI program's
// A_star_mpi function rank-for-rank, substituting goroutines and
// channels for MPI processes and sockets.
package distributed

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"hdastar/atomic_float"
	"hdastar/grid"
	"hdastar/handle"
	"hdastar/heap"
	"hdastar/heuristic"
	"hdastar/partition"
	"hdastar/telemetry"
	"hdastar/transport"
	"hdastar/wire"
)

// NotFound is returned when no path exists between start and end.
const NotFound = -1.0

// Config controls optional behavior of a distributed run. Heuristic must
// be set; with every other field left at its zero value, a run
// reproduces the original algorithm's behavior exactly.
type Config struct {
	Heuristic heuristic.Func

	// BestKnownCostPruning adds a per-owner best-known-cost table that
	// discards a received node at receive time if a cheaper-or-equal
	// cost for that position is already known, closing off the
	// duplicate-frontier-entry waste that HDA*'s lack of global
	// coordination otherwise allows. This changes optimality
	// characteristics under an inadmissible heuristic and is therefore
	// opt-in, defaulting to false so default behavior matches the
	// original algorithm exactly.
	BestKnownCostPruning bool

	// Reporter, if non-nil, receives periodic per-worker progress
	// snapshots for live observability (see package telemetry). It is
	// never required for correctness.
	Reporter telemetry.Reporter

	Logger zerolog.Logger
}

// Run launches worldSize workers connected by an in-process transport
// fabric and runs HDA* to completion, returning the cost of the path
// found (or NotFound) and the end-owner's Marks (carrying the PATH
// trail; other workers' marks are never merged into one grid, since
// each worker only ever marks its own cells).
//
// If worldSize == 1, callers should use package search instead: a
// single simulated worker pays all of the message-passing overhead of
// this package for none of its benefit, so the CLI auto-selects the
// sequential search at W=1. Run does not special-case W=1 itself.
func Run(ctx context.Context, g *grid.Grid, worldSize int, cfg Config) (cost float64, marks *grid.Marks, err error) {
	if g.Value(g.End) == grid.Wall {
		cfg.Logger.Error().Msg("destination is on a wall")
		return NotFound, grid.NewMarks(g), nil
	}

	fabric := transport.NewFabric(worldSize)
	endOwner := partition.Owner(g.End, worldSize)
	startOwner := partition.Owner(g.Start, worldSize)

	var (
		wg        sync.WaitGroup
		resultMu  sync.Mutex
		result    = NotFound
		resultSet bool
		firstErr  error
	)

	wg.Add(worldSize)
	for rank := 0; rank < worldSize; rank++ {
		w := newWorker(rank, worldSize, g, fabric.Endpoint(rank), endOwner, startOwner, cfg)
		go func() {
			defer wg.Done()
			c, m, werr := w.run(ctx)
			if werr != nil {
				resultMu.Lock()
				if firstErr == nil {
					firstErr = werr
				}
				resultMu.Unlock()
				fabric.Abort()
				return
			}
			if w.rank == endOwner {
				resultMu.Lock()
				result, marks, resultSet = c, m, true
				resultMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return NotFound, nil, firstErr
	}
	if !resultSet {
		return NotFound, nil, fmt.Errorf("distributed: end-owner rank %d produced no result", endOwner)
	}
	return result, marks, nil
}

// worker is one rank's HDA* state.
type worker struct {
	rank, worldSize    int
	g                  *grid.Grid
	ep                 *transport.Endpoint
	endOwner           int
	startOwner         int
	cfg                Config
	marks              *grid.Marks
	frontier           heap.Frontier
	window             handle.WindowBuffer
	bestKnown          map[grid.Position]float64
	expansions         float64
	log                zerolog.Logger
}

func newWorker(rank, worldSize int, g *grid.Grid, ep *transport.Endpoint, endOwner, startOwner int, cfg Config) *worker {
	w := &worker{
		rank:       rank,
		worldSize:  worldSize,
		g:          g,
		ep:         ep,
		endOwner:   endOwner,
		startOwner: startOwner,
		cfg:        cfg,
		marks:      grid.NewMarks(g),
		log:        cfg.Logger.With().Int("rank", rank).Logger(),
	}
	if cfg.BestKnownCostPruning {
		w.bestKnown = make(map[grid.Position]float64)
	}
	return w
}

// run executes this worker's state machine (SEARCHING -> [HELPING] ->
// DONE) until termination, returning the path cost if this worker is
// the end-owner (NotFound otherwise, ignored by the caller).
func (w *worker) run(ctx context.Context) (cost float64, marks *grid.Marks, err error) {
	if w.rank == w.startOwner {
		w.seed()
	}

	for {
		goalReached, noPath, drainErr := w.drain(ctx)
		if drainErr != nil {
			return NotFound, nil, drainErr
		}
		if noPath {
			w.log.Warn().Msg("frontier exhausted without reaching destination")
			return NotFound, w.marks, nil
		}
		if goalReached {
			return w.help(ctx)
		}

		u := w.frontier.Pop()
		if w.marks.Mark(u.Pos) == grid.Closed {
			continue // stale duplicate: already closed by an earlier, cheaper pop of this position
		}

		if w.rank == w.endOwner && u.Pos == w.g.End {
			w.ep.Broadcast(transport.TagGoalReached)
			w.reconstruct(u)
			w.ep.Broadcast(transport.TagPathDone)
			w.log.Info().Float64("cost", u.Cost).Msg("path found")
			return u.Cost, w.marks, nil
		}

		w.close(u)
		if err := w.expand(u); err != nil {
			return NotFound, nil, err
		}
		w.report()
	}
}

// seed inserts the start node into the owner-of-start's own frontier.
func (w *worker) seed() {
	s := heap.Entry{
		Pos:    w.g.Start,
		Cost:   0,
		Score:  w.cfg.Heuristic(w.g.Start, w.g.End),
		Parent: handle.Root,
	}
	w.frontier.Add(s)
	w.marks.SetMark(w.g.Start, grid.Frontier)
	if w.bestKnown != nil {
		w.bestKnown[s.Pos] = s.Cost
	}
}

// drain repeatedly consumes GOAL_REACHED/NODE messages until the
// frontier is non-empty, GOAL_REACHED arrives (in which case drain
// reports goalReached=true and the caller enters Reconstruction-Helper
// mode without popping anything further), or global quiescence is
// reached with nothing found (noPath=true): every worker simultaneously
// has an empty frontier and no NODE message is still in flight, so no
// further work can ever appear. The original program has no equivalent
// check and spins on an empty heap forever in this case (a_star.c's
// `while (heap_empty(Q))`); this replaces that spin.
func (w *worker) drain(ctx context.Context) (goalReached, noPath bool, err error) {
	for {
		// Non-blocking sweep: absorb everything currently pending.
		if w.ep.Probe(transport.TagGoalReached) {
			if _, _, rerr := w.ep.Recv(transport.TagGoalReached); rerr != nil {
				return false, false, rerr
			}
			return true, false, nil
		}
		if w.ep.Probe(transport.TagNoPath) {
			if _, _, rerr := w.ep.Recv(transport.TagNoPath); rerr != nil {
				return false, false, rerr
			}
			return false, true, nil
		}
		for w.ep.Probe(transport.TagNode) {
			payload, _, rerr := w.ep.Recv(transport.TagNode)
			if rerr != nil {
				return false, false, rerr
			}
			if err := w.absorbBatch(payload); err != nil {
				return false, false, err
			}
		}

		if !w.frontier.Empty() {
			return false, false, nil
		}

		if w.ep.MarkIdle() {
			w.ep.Broadcast(transport.TagNoPath)
			return false, true, nil
		}

		// Nothing pending and no local work: block on whichever of the
		// relevant tags arrives next, instead of spinning on Probe.
		payload, _, tag, rerr := w.ep.RecvAny(ctx, transport.TagGoalReached, transport.TagNode, transport.TagNoPath)
		w.ep.MarkBusy()
		if rerr != nil {
			return false, false, rerr
		}
		switch tag {
		case transport.TagGoalReached:
			return true, false, nil
		case transport.TagNoPath:
			return false, true, nil
		default:
			if err := w.absorbBatch(payload); err != nil {
				return false, false, err
			}
		}
	}
}

func (w *worker) absorbBatch(payload []byte) error {
	defer w.ep.AbsorbedNode()
	nodes, err := wire.DecodeNodeBatch(payload)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		hn, parent := n.ToHandleNode()
		if w.bestKnown != nil {
			if best, ok := w.bestKnown[hn.Pos]; ok && best <= hn.Cost {
				continue // pruned: a cheaper-or-equal entry is already known
			}
			w.bestKnown[hn.Pos] = hn.Cost
		}
		w.frontier.Add(heap.Entry{Pos: hn.Pos, Cost: hn.Cost, Score: hn.Score, Parent: parent})
		if w.marks.Mark(hn.Pos) == grid.None {
			w.marks.SetMark(hn.Pos, grid.Frontier)
		}
	}
	return nil
}

// close marks u Closed and appends it to this worker's window buffer.
func (w *worker) close(u heap.Entry) handle.Handle {
	w.marks.SetMark(u.Pos, grid.Closed)
	return w.window.Append(w.rank, handle.Node{Pos: u.Pos, Cost: u.Cost, Score: u.Score, Parent: u.Parent})
}

// expand generates u's 8 neighbors, routing each to its owner: local
// insertion, or batched into one NODE message per distinct remote
// destination (at most 8 destinations, one per neighbor).
func (w *worker) expand(u heap.Entry) error {
	selfHandle := handle.Handle{Owner: w.rank, Index: w.window.Len() - 1}

	batches := make(map[int][]wire.Node)
	w.g.Neighbors(u.Pos, func(p grid.Position, diagonal bool) {
		if w.marks.Mark(p) != grid.None || w.g.Value(p) == grid.Wall {
			return
		}
		bias := 0.0
		if diagonal {
			bias = heuristic.DiagonalBias
		}
		cost := u.Cost + grid.Weight(w.g.Value(p))
		score := cost + w.cfg.Heuristic(p, w.g.End) + bias
		owner := partition.Owner(p, w.worldSize)

		if owner == w.rank {
			w.frontier.Add(heap.Entry{Pos: p, Cost: cost, Score: score, Parent: selfHandle})
		} else {
			batches[owner] = append(batches[owner], wire.Node{
				Pos:          p,
				Cost:         cost,
				Score:        score,
				ParentRank:   int32(selfHandle.Owner),
				ParentHandle: int32(selfHandle.Index),
			})
		}
		// Mark FRONTIER here, on dispatch, not on remote acceptance: a
		// second worker may independently reach and dispatch the same
		// cell before either dispatch arrives at the owner, producing a
		// harmless duplicate frontier entry there. BestKnownCostPruning
		// is the opt-in fix for that; with it off (the default) the
		// duplicate is tolerated, not silently papered over.
		w.marks.SetMark(p, grid.Frontier)
		if w.bestKnown != nil {
			if best, ok := w.bestKnown[p]; !ok || cost < best {
				w.bestKnown[p] = cost
			}
		}
	})

	var dones []<-chan struct{}
	for dst, batch := range batches {
		dones = append(dones, w.ep.SendNode(dst, wire.EncodeNodeBatch(batch)))
	}
	for _, d := range dones {
		<-d
	}
	return nil
}

// reconstruct walks parent references from the just-popped goal entry
// back to the start, marking each visited position Path locally and
// fetching cross-worker parents via PATH_QUERY/PATH_REPLY. Termination
// uses full-position equality (the original's OR-of-coordinates
// condition terminates early as soon as the walk reaches a cell sharing
// either coordinate with the start; not reproduced here).
func (w *worker) reconstruct(goal heap.Entry) {
	pos := goal.Pos
	parent := goal.Parent
	for pos != w.g.Start {
		w.marks.SetMark(pos, grid.Path)
		node := w.lookupParent(parent)
		pos = node.Pos
		parent = node.Parent
	}
}

// lookupParent resolves a parent handle to its node record, either from
// this worker's own window buffer or, for a remote parent, via a
// synchronous PATH_QUERY/PATH_REPLY round trip.
func (w *worker) lookupParent(h handle.Handle) handle.Node {
	if h.Owner == w.rank {
		return w.window.At(h.Index)
	}

	w.ep.Send(h.Owner, transport.TagPathQuery, wire.EncodeHandleIndex(h.Index))
	payload, _, err := w.ep.Recv(transport.TagPathReply)
	if err != nil {
		w.log.Error().Err(err).Int("parent_owner", h.Owner).Msg("path query failed")
		return handle.Node{Pos: w.g.Start} // unreachable in a correctly-running fabric; terminates the walk
	}
	n, err := wire.DecodeNode(payload)
	if err != nil {
		w.log.Error().Err(err).Msg("malformed PATH_REPLY")
		return handle.Node{Pos: w.g.Start}
	}
	hn, parent := n.ToHandleNode()
	hn.Parent = parent
	return hn
}

// help implements Reconstruction-Helper mode: after receiving
// GOAL_REACHED, serve the end-owner's PATH_QUERY requests from this
// worker's own window buffer until PATH_DONE arrives.
func (w *worker) help(ctx context.Context) (cost float64, marks *grid.Marks, err error) {
	for {
		payload, from, tag, err := w.ep.RecvAny(ctx, transport.TagPathDone, transport.TagPathQuery)
		if err != nil {
			return NotFound, nil, err
		}
		if tag == transport.TagPathDone {
			return NotFound, w.marks, nil
		}

		index, derr := wire.DecodeHandleIndex(payload)
		if derr != nil {
			return NotFound, nil, derr
		}
		node := w.window.At(index)
		reply := wire.Node{
			Pos:          node.Pos,
			Cost:         node.Cost,
			Score:        node.Score,
			ParentRank:   int32(node.Parent.Owner),
			ParentHandle: int32(node.Parent.Index),
		}
		<-w.ep.Send(from, transport.TagPathReply, wire.EncodeNode(reply))
	}
}

// report publishes a progress snapshot to cfg.Reporter, if configured.
// This is purely observational and never gates search progress.
func (w *worker) report() {
	if w.cfg.Reporter == nil {
		return
	}
	atomic_float.AtomicAdd(&w.expansions, 1)
	w.cfg.Reporter.Report(telemetry.Snapshot{
		Rank:         w.rank,
		FrontierSize: w.frontier.Len(),
		ClosedCount:  w.window.Len(),
		Expansions:   atomic_float.AtomicRead(&w.expansions),
	})
}
