// Package colouring binds greedy graph colouring into the superstep engine.
// Adjacent vertices with equal colours signal each other; the lower-priority
// endpoint moves to the smallest colour none of its neighbours holds.
package colouring

import (
	"sync/atomic"

	"github.com/ericpony/pregel/bsp"
	"github.com/ericpony/pregel/graph"
	"github.com/ericpony/pregel/utils"
)

type Colouring struct{}

// Mail is a recolour signal; any non-zero value means at least one edge
// collided this round.
type Mail uint32

func (Mail) New() Mail {
	return 0
}

// Dummy hash; identity keeps the scheme deterministic and reproducible.
// Could mix bits for better balance on adversarial id assignments.
func hash(id uint32) uint32 {
	return id
}

// Returns true if p1 has priority over p2. Smaller hash first, id as the
// tie-break. The higher-priority endpoint of a collision never moves, which
// is what guarantees progress round over round.
func comparePriority(p1, p2 uint32, id1, id2 uint32) bool {
	return p1 < p2 || (p1 == p2 && id1 < id2)
}

// Everyone starts at colour zero; the first sweep flags every edge.
func (*Colouring) OnInitVertex(uint32) uint32 {
	return 0
}

// Signal the destination when the endpoints hold the same colour. The
// mirrored sweep direction signals the other endpoint, so both sides of a
// collision wake up. A self loop can never be satisfied and is skipped.
func (*Colouring) OnSendMessage(src, dst uint32, _ float64, srcAttr, dstAttr uint32) (Mail, bool) {
	if src != dst && srcAttr == dstAttr {
		return 1, true
	}
	return 0, false
}

// Boolean OR: any signal is as good as many. The store is atomic for
// concurrent senders; every sent value is non-zero so ordering is irrelevant.
func (*Colouring) MessageMerge(incoming Mail, existing *Mail) {
	atomic.StoreUint32((*uint32)(existing), uint32(incoming))
}

// On a recolour signal: move only if some higher-priority neighbour holds our
// colour, and then to the smallest colour unused by any neighbour in the
// pre-apply snapshot. Degree is less than the vertex count, so the chosen
// colour always stays within [0, numVertices).
func (*Colouring) OnUpdateVertex(f *bsp.Frame[uint32], vidx uint32, attr uint32, merged Mail) uint32 {
	if merged == 0 {
		return attr
	}

	outEdges := f.Graph().OutEdges(vidx)
	mustMove := false
	var used utils.Bitmap
	used.Grow(uint32(len(outEdges)))
	myPriority := hash(vidx)
	for _, e := range outEdges {
		if e.Didx == vidx {
			continue
		}
		nbrColour := f.Attr(e.Didx)
		used.Set(nbrColour)
		if nbrColour == attr && comparePriority(hash(e.Didx), myPriority, e.Didx, vidx) {
			mustMove = true
		}
	}
	if !mustMove {
		return attr
	}
	return used.FirstUnused()
}

// Run colours the graph and returns the colour vector and the completed
// superstep count. A count greater than opts.MaxIterations means the bound
// was hit before convergence.
func Run(g *graph.Graph, opts bsp.Options) (colours []uint32, supersteps int, err error) {
	e, err := bsp.New[uint32, Mail](g, new(Colouring), opts)
	if err != nil {
		return nil, 0, err
	}
	supersteps = e.Run()
	return e.Attributes(), supersteps, nil
}
