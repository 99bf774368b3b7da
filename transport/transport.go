// Package transport supplies the message-passing fabric a distributed
// search runs over: reliable point-to-point delivery, typed (tagged)
// messages, non-blocking send, and probe/receive. There is no MPI
// runtime in this environment, so this package is the concrete,
// in-process substitute: one goroutine per worker, connected by
// channels instead of sockets.
package transport

import (
	"context"
	"fmt"
	"sync"

	channerics "github.com/niceyeti/channerics/channels"
)

// Tag identifies a message kind exchanged between workers.
type Tag int

const (
	TagNode Tag = iota
	TagGoalReached
	TagPathQuery
	TagPathReply
	TagPathDone
	TagNoPath
	numTags
)

func (t Tag) String() string {
	switch t {
	case TagNode:
		return "NODE"
	case TagGoalReached:
		return "GOAL_REACHED"
	case TagPathQuery:
		return "PATH_QUERY"
	case TagPathReply:
		return "PATH_REPLY"
	case TagPathDone:
		return "PATH_DONE"
	case TagNoPath:
		return "NO_PATH"
	default:
		return "UNKNOWN"
	}
}

// message is what actually travels a channel: the tag and wire-encoded
// payload plus the sender's rank, since a channel carries no sender
// identity or provenance of its own.
type message struct {
	tag     Tag
	from    int
	payload []byte
}

// Fabric connects worldSize workers. Each (destination, tag) pair owns
// one buffered channel fed by every possible sender. Send enqueues from a
// goroutine of its own, so two Sends in flight at once may land in either
// order; FIFO ordering per (source, destination, tag) holds because every
// caller waits for a Send to land (or, for PATH_QUERY, for its reply)
// before issuing the next one to the same destination and tag, and
// channels are themselves FIFO.
type Fabric struct {
	worldSize int
	inboxes   [][]chan message // inboxes[dst][tag]
	aborted   chan struct{}
	closeOnce sync.Once

	// termMu guards the quiescence-detection state below: inFlight counts
	// NODE messages dispatched but not yet absorbed by their owner, and
	// idle/idleCount track which ranks currently have nothing left to do.
	// The original program never detects this condition at all (it
	// busy-spins on an empty heap forever when no path exists); this is
	// the concrete termination check that replaces that spin.
	termMu    sync.Mutex
	inFlight  int
	idle      []bool
	idleCount int
}

// inboxCapacity is the per-(dst,tag) channel buffer size. It only needs
// to be large enough that a burst of sends does not deadlock against a
// destination that is momentarily busy popping its frontier; Endpoint.Send
// itself never blocks past submission because it hands off to a goroutine.
const inboxCapacity = 64

// NewFabric allocates a fabric for worldSize workers.
func NewFabric(worldSize int) *Fabric {
	f := &Fabric{
		worldSize: worldSize,
		inboxes:   make([][]chan message, worldSize),
		aborted:   make(chan struct{}),
		idle:      make([]bool, worldSize),
	}
	for dst := 0; dst < worldSize; dst++ {
		f.inboxes[dst] = make([]chan message, numTags)
		for tag := range f.inboxes[dst] {
			f.inboxes[dst][tag] = make(chan message, inboxCapacity)
		}
	}
	return f
}

// Endpoint returns the fabric-facing handle for worker rank. Each rank's
// endpoint fans all of its per-tag inboxes into a single merged stream
// via channerics.Merge, built once here for the endpoint's lifetime
// rather than per receive, so no forwarder goroutine is ever abandoned
// mid-stream.
func (f *Fabric) Endpoint(rank int) *Endpoint {
	chans := make([]<-chan message, numTags)
	for t := range chans {
		chans[t] = f.inboxes[rank][t]
	}
	return &Endpoint{
		rank:    rank,
		fabric:  f,
		merged:  channerics.Merge(f.aborted, chans...),
		pending: make(map[Tag][]message),
	}
}

// WorldSize returns the number of workers connected by this fabric.
func (f *Fabric) WorldSize() int {
	return f.worldSize
}

// Abort is the equivalent of MPI_Abort: every endpoint's blocked Recv/
// RecvAny unblocks with ErrAborted.
func (f *Fabric) Abort() {
	f.closeOnce.Do(func() { close(f.aborted) })
}

// ErrAborted is returned by a blocking receive when the fabric was
// aborted while it was waiting.
var ErrAborted = fmt.Errorf("transport: fabric aborted")

// Endpoint is one worker's view of the Fabric: its own rank, plus
// Send/Probe/Recv/RecvAny relative to that rank. An Endpoint's methods
// are only ever called from the single goroutine that owns it — each
// worker is single-threaded and cooperative internally — so the
// pending cache below needs no locking.
type Endpoint struct {
	rank    int
	fabric  *Fabric
	merged  <-chan message
	pending map[Tag][]message // messages drained from merged but not yet claimed by their tag
}

// Rank returns this endpoint's worker rank.
func (e *Endpoint) Rank() int { return e.rank }

// Send is non-blocking (mirrors MPI_Isend): it hands the payload off to
// a goroutine and returns a completion channel immediately. Callers that
// need to wait for a batch of sends to land (mirroring MPI_Waitall)
// should collect the returned channels and drain them.
func (e *Endpoint) Send(dst int, tag Tag, payload []byte) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case e.fabric.inboxes[dst][tag] <- (message{tag: tag, from: e.rank, payload: payload}):
		case <-e.fabric.aborted:
		}
	}()
	return done
}

// SendNode is Send specialized for TagNode: it additionally records the
// message as in flight for quiescence detection (see MarkIdle). Every
// SendNode must eventually be matched by one AbsorbedNode call on the
// receiving end, once the batch has actually been absorbed into that
// worker's frontier.
func (e *Endpoint) SendNode(dst int, payload []byte) <-chan struct{} {
	e.fabric.termMu.Lock()
	e.fabric.inFlight++
	e.fabric.termMu.Unlock()
	return e.Send(dst, TagNode, payload)
}

// AbsorbedNode balances one prior SendNode, once its payload has been
// fully absorbed into this endpoint's owner's frontier.
func (e *Endpoint) AbsorbedNode() {
	e.fabric.termMu.Lock()
	e.fabric.inFlight--
	e.fabric.termMu.Unlock()
}

// MarkIdle records this endpoint's rank as having no local work left
// (empty frontier, about to block waiting for more). It returns true
// exactly once, to exactly one rank, the moment every rank is
// simultaneously idle with no NODE message still in flight: that
// condition means no further work can ever be generated, i.e. no path
// exists between start and end. The caller receiving true is
// responsible for announcing this (see TagNoPath).
func (e *Endpoint) MarkIdle() bool {
	f := e.fabric
	f.termMu.Lock()
	defer f.termMu.Unlock()
	if !f.idle[e.rank] {
		f.idle[e.rank] = true
		f.idleCount++
	}
	return f.idleCount == f.worldSize && f.inFlight == 0
}

// MarkBusy clears this endpoint's idle state, e.g. after it wakes from
// blocking on a message. A no-op if the rank was not marked idle.
func (e *Endpoint) MarkBusy() {
	f := e.fabric
	f.termMu.Lock()
	defer f.termMu.Unlock()
	if f.idle[e.rank] {
		f.idle[e.rank] = false
		f.idleCount--
	}
}

// Broadcast sends an empty-payload message with tag to every rank other
// than this endpoint's own (a loop of point-to-point Isends, not a
// collective — this is how GOAL_REACHED/PATH_DONE/NO_PATH are announced).
// It waits for all sends in the broadcast to land before returning,
// mirroring MPI_Waitall.
func (e *Endpoint) Broadcast(tag Tag) {
	var dones []<-chan struct{}
	for dst := 0; dst < e.fabric.worldSize; dst++ {
		if dst == e.rank {
			continue
		}
		dones = append(dones, e.Send(dst, tag, nil))
	}
	for _, d := range dones {
		<-d
	}
}

// take pops and returns the oldest pending message cached for tag, if
// any.
func (e *Endpoint) take(tag Tag) (message, bool) {
	q := e.pending[tag]
	if len(q) == 0 {
		return message{}, false
	}
	msg := q[0]
	if len(q) == 1 {
		delete(e.pending, tag)
	} else {
		e.pending[tag] = q[1:]
	}
	return msg, true
}

// stash caches a message drained from the merged stream that did not
// match what the current caller is waiting for, so a later Probe/Recv/
// RecvAny for its tag still finds it.
func (e *Endpoint) stash(msg message) {
	e.pending[msg.tag] = append(e.pending[msg.tag], msg)
}

// drainNonBlocking pulls every message currently available on the
// merged stream into the pending cache, without blocking. Probe uses
// this so a worker's repeated non-blocking polling of its inbox
// actually observes newly-arrived messages instead of only ever seeing
// whatever was cached by a previous call.
func (e *Endpoint) drainNonBlocking() {
	for {
		select {
		case msg, ok := <-e.merged:
			if !ok {
				return
			}
			e.stash(msg)
		default:
			return
		}
	}
}

// Probe is a non-blocking peek (mirrors MPI_Iprobe) for whether a
// message addressed to this endpoint with the given tag is pending.
func (e *Endpoint) Probe(tag Tag) bool {
	if len(e.pending[tag]) > 0 {
		return true
	}
	e.drainNonBlocking()
	return len(e.pending[tag]) > 0
}

// Recv performs a blocking receive (mirrors MPI_Recv) of the next
// message with the given tag addressed to this endpoint, from any
// source. It returns the payload and the sender's rank.
func (e *Endpoint) Recv(tag Tag) (payload []byte, from int, err error) {
	if msg, ok := e.take(tag); ok {
		return msg.payload, msg.from, nil
	}
	for {
		select {
		case msg, ok := <-e.merged:
			if !ok {
				return nil, 0, ErrAborted
			}
			if msg.tag == tag {
				return msg.payload, msg.from, nil
			}
			e.stash(msg)
		case <-e.fabric.aborted:
			return nil, 0, ErrAborted
		}
	}
}

// RecvAny blocks until a message with any of the given tags is pending
// for this endpoint, then receives and returns it along with which tag
// matched. This is what lets a worker's drain loop wait efficiently
// instead of busy-spinning on Probe.
func (e *Endpoint) RecvAny(ctx context.Context, tags ...Tag) (payload []byte, from int, tag Tag, err error) {
	for _, t := range tags {
		if msg, ok := e.take(t); ok {
			return msg.payload, msg.from, msg.tag, nil
		}
	}
	wanted := func(t Tag) bool {
		for _, want := range tags {
			if want == t {
				return true
			}
		}
		return false
	}
	for {
		select {
		case msg, ok := <-e.merged:
			if !ok {
				return nil, 0, 0, ErrAborted
			}
			if wanted(msg.tag) {
				return msg.payload, msg.from, msg.tag, nil
			}
			e.stash(msg)
		case <-e.fabric.aborted:
			return nil, 0, 0, ErrAborted
		case <-ctx.Done():
			return nil, 0, 0, ctx.Err()
		}
	}
}
