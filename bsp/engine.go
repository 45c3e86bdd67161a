package bsp

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/ericpony/pregel/graph"
	"github.com/ericpony/pregel/utils"
)

var (
	ErrNilGraph         = errors.New("engine needs a graph")
	ErrNilAlgorithm     = errors.New("engine needs an algorithm")
	ErrBadMaxIterations = errors.New("max iterations must be positive")
)

type Options struct {
	MaxIterations int   // Superstep bound; the engine stops once the completed count exceeds it.
	NumThreads    int   // Workers per phase. Zero or negative selects runtime.NumCPU().
	SweepSeed     int64 // If non-zero, sweep sources in a seeded permutation instead of natural order. The outcome must not change.
}

// Per-vertex, per-superstep mail accumulator. Activity is set atomically by
// any sender; a vertex enters the apply phase iff it is non-zero.
type mailbox[M MVI[M]] struct {
	Inbox    M
	Activity int32
}

// Engine runs the bulk-synchronous superstep loop: a full edge sweep producing
// and merging mail, an apply phase over vertices that received mail, and a
// termination check on the superstep boundary. It is algorithm-agnostic.
type Engine[A any, M MVI[M]] struct {
	g   *graph.Graph
	alg Algorithm[A, M]

	attrs     []A          // Attribute vector; sweeps read this.
	nextAttrs []A          // Apply phase writes here; swapped at the barrier.
	mailboxes []mailbox[M] // Scratch, reset on entry to each superstep.
	sentFlags []bool       // One per directed edge, by CSR ordinal. Scratch.
	srcOrder  []uint32     // Sweep order over source vertices.
	ranges    [][2]uint32  // Contiguous [start, end) vertex shard per thread.

	maxIterations int
	numThreads    int
	supersteps    int
	lastSent      int
	updates       []int // Per-thread vertex program invocation counts, for the summary log.
	watch         utils.Watch
}

// New validates the configuration and prepares the scratch state. The graph
// must come from the graph package constructors, which already enforce the
// symmetry and size requirements.
func New[A any, M MVI[M]](g *graph.Graph, alg Algorithm[A, M], opts Options) (*Engine[A, M], error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if alg == nil {
		return nil, ErrNilAlgorithm
	}
	if opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadMaxIterations, opts.MaxIterations)
	}
	numThreads := opts.NumThreads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	n := g.NumVertices()
	if numThreads > n {
		numThreads = n
	}

	e := &Engine[A, M]{
		g:             g,
		alg:           alg,
		attrs:         make([]A, n),
		nextAttrs:     make([]A, n),
		mailboxes:     make([]mailbox[M], n),
		sentFlags:     make([]bool, g.NumEdges()),
		maxIterations: opts.MaxIterations,
		numThreads:    numThreads,
		updates:       make([]int, numThreads),
		lastSent:      1, // Synthetic flag: at least one superstep must run.
	}

	e.srcOrder = make([]uint32, n)
	for i := range e.srcOrder {
		e.srcOrder[i] = uint32(i)
	}
	if opts.SweepSeed != 0 {
		utils.Shuffle(rand.New(rand.NewSource(opts.SweepSeed)), e.srcOrder)
	}

	// Contiguous shards; each thread owns its vertices' attributes and its
	// sources' sent flags outright.
	per := (n + numThreads - 1) / numThreads
	for start := 0; start < n; start += per {
		end := utils.Min(start+per, n)
		e.ranges = append(e.ranges, [2]uint32{uint32(start), uint32(end)})
	}

	return e, nil
}

// Run executes the full loop: initialization, then supersteps until a sweep
// sends nothing (converged) or the completed count exceeds the bound. Returns
// the number of completed supersteps; a result greater than MaxIterations
// means the bound was hit, which is an expected outcome, not an error.
func (e *Engine[A, M]) Run() (supersteps int) {
	e.watch.Start()
	e.initialize()

	for {
		sent := e.Superstep()
		if sent == 0 {
			break
		}
		if e.supersteps > e.maxIterations {
			log.Debug().Msg("Iteration bound hit with " + utils.V(sent) + " messages still in flight.")
			break
		}
	}

	log.Info().Msg("Iterations: " + utils.V(e.supersteps) + " Updates: " + utils.V(utils.Sum(e.updates)) +
		" Converged: " + utils.V(e.lastSent == 0) +
		" Elapsed: " + utils.F("%.3f", e.watch.Elapsed().Seconds()*1000) + "ms")
	return e.supersteps
}

// Every vertex runs the vertex program once against the init sentinel.
func (e *Engine[A, M]) initialize() {
	e.parallelFor(func(tidx int) int {
		for v := e.ranges[tidx][0]; v < e.ranges[tidx][1]; v++ {
			e.attrs[v] = e.alg.OnInitVertex(v)
		}
		return 0
	})
	e.supersteps = 0
	e.lastSent = 1
}

// Superstep performs one sweep and apply round, separated by hard barriers,
// and returns how many directed edges produced a message. Exported so a
// caller can drive single rounds against the engine's current state (Run uses
// it internally).
func (e *Engine[A, M]) Superstep() (sent int) {
	// Reset scratch: mailboxes and sent flags are per-superstep state.
	e.parallelFor(func(tidx int) int {
		var empty M
		for v := e.ranges[tidx][0]; v < e.ranges[tidx][1]; v++ {
			e.mailboxes[v].Inbox = empty.New()
			e.mailboxes[v].Activity = 0
			off := e.g.EdgeOffset(v)
			for k := range e.g.OutEdges(v) {
				e.sentFlags[off+k] = false
			}
		}
		return 0
	})

	// Sweeping: pure map over the directed edge set, reading pre-sweep
	// attributes, merging into destination mailboxes. Source order within a
	// shard follows srcOrder; the result must not depend on it.
	sent = e.parallelFor(func(tidx int) (tSent int) {
		for i := e.ranges[tidx][0]; i < e.ranges[tidx][1]; i++ {
			src := e.srcOrder[i]
			off := e.g.EdgeOffset(src)
			for k, edge := range e.g.OutEdges(src) {
				m, ok := e.alg.OnSendMessage(src, edge.Didx, edge.Weight, e.attrs[src], e.attrs[edge.Didx])
				if !ok {
					continue
				}
				e.sentFlags[off+k] = true
				e.alg.MessageMerge(m, &e.mailboxes[edge.Didx].Inbox)
				atomic.StoreInt32(&e.mailboxes[edge.Didx].Activity, 1)
				tSent++
			}
		}
		return tSent
	})

	// Applying: pure map over the active set. Each vertex writes only its own
	// slot in the next buffer; reads go through the pre-apply frame.
	frame := &Frame[A]{g: e.g, attrs: e.attrs}
	e.parallelFor(func(tidx int) int {
		for v := e.ranges[tidx][0]; v < e.ranges[tidx][1]; v++ {
			if e.mailboxes[v].Activity != 0 {
				e.nextAttrs[v] = e.alg.OnUpdateVertex(frame, v, e.attrs[v], e.mailboxes[v].Inbox)
				e.updates[tidx]++
			} else {
				e.nextAttrs[v] = e.attrs[v]
			}
		}
		return 0
	})
	e.attrs, e.nextAttrs = e.nextAttrs, e.attrs

	e.supersteps++
	e.lastSent = sent
	log.Trace().Msg("Superstep " + utils.V(e.supersteps) + " sent " + utils.V(sent))
	return sent
}

// Supersteps is the number of completed supersteps so far.
func (e *Engine[A, M]) Supersteps() int {
	return e.supersteps
}

// Converged reports whether the last sweep produced no messages.
func (e *Engine[A, M]) Converged() bool {
	return e.lastSent == 0
}

// Attributes copies out the current attribute vector.
func (e *Engine[A, M]) Attributes() []A {
	out := make([]A, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// SentFlags copies out the per-directed-edge flags of the last sweep, indexed
// by CSR ordinal (graph.EdgeOffset).
func (e *Engine[A, M]) SentFlags() []bool {
	out := make([]bool, len(e.sentFlags))
	copy(out, e.sentFlags)
	return out
}
