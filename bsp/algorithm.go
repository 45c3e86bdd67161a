package bsp

import (
	"github.com/ericpony/pregel/graph"
)

// Mail Value Interface. New is the "default constructor": the empty mailbox
// value every vertex starts each superstep with.
type MVI[M any] interface {
	New() (new M)
}

// Algorithm is the pluggable triple the engine drives: a send function over
// directed edges, a combiner over a destination's mail, and a vertex program.
// A is the per-vertex attribute, M the mail value.
type Algorithm[A any, M MVI[M]] interface {
	// OnInitVertex is the vertex program's answer to the init sentinel: the
	// attribute vertex vidx holds before superstep 0.
	OnInitVertex(vidx uint32) (attr A)

	// OnSendMessage is invoked once per directed edge (src, dst) per sweep,
	// reading the pre-sweep attributes of both endpoints. Returning sent=false
	// produces no message and leaves the edge's sent flag clear.
	OnSendMessage(src, dst uint32, weight float64, srcAttr, dstAttr A) (m M, sent bool)

	// MessageMerge folds incoming into the destination mailbox. It must be
	// associative and commutative, and safe against concurrent senders
	// (merge atomically); the engine provides no lock around it.
	MessageMerge(incoming M, existing *M)

	// OnUpdateVertex is invoked during the apply phase for each vertex that
	// received mail, with the merged mailbox value. The frame exposes the
	// pre-apply attribute snapshot, so neighbour reads never observe writes
	// from the round in progress.
	OnUpdateVertex(f *Frame[A], vidx uint32, attr A, merged M) (newAttr A)
}

// Frame is the read-only view handed to the vertex program: the graph and the
// attribute vector as it stood when the apply phase began.
type Frame[A any] struct {
	g     *graph.Graph
	attrs []A
}

func (f *Frame[A]) Graph() *graph.Graph {
	return f.g
}

// Attr is vertex v's attribute from before the apply phase in progress.
func (f *Frame[A]) Attr(v uint32) A {
	return f.attrs[v]
}
