package graph

import (
	"errors"
	"fmt"
	"sort"
)

// Configuration errors, rejected at construction. The store is immutable
// afterwards, so nothing downstream needs to re-validate.
var (
	ErrTooFewVertices = errors.New("graph needs at least two vertices")
	ErrBadShape       = errors.New("weight matrix is not square")
	ErrNotSymmetric   = errors.New("weight relation is not symmetric")
	ErrVertexRange    = errors.New("vertex id out of range")
)

// Edge is one directed half of a symmetric relation.
type Edge struct {
	Didx   uint32
	Weight float64
}

// WeightedEdge is an input pair for NewFromEdges. Declared once; the mirrored
// direction is added during construction.
type WeightedEdge struct {
	Src    uint32
	Dst    uint32
	Weight float64
}

// Graph is an immutable symmetric weighted adjacency store.
// Adjacency is adjacent(i,j) == (weight(i,j) != 0); weight(i,j) == weight(j,i).
type Graph struct {
	outEdges [][]Edge // Sorted by Didx within each vertex.
	edgeOffs []int    // CSR offsets: ordinal of vertex i's first directed edge.
	numEdges int      // Directed edge count.
}

// NewFromMatrix builds a store from a dense n x n weight matrix.
// A zero entry means no edge. Non-square or non-symmetric input is a
// configuration error.
func NewFromMatrix(weights [][]float64) (*Graph, error) {
	n := len(weights)
	if n <= 1 {
		return nil, fmt.Errorf("%w: n=%d", ErrTooFewVertices, n)
	}
	for i := range weights {
		if len(weights[i]) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrBadShape, i, len(weights[i]), n)
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if weights[i][j] != weights[j][i] {
				return nil, fmt.Errorf("%w: weight(%d,%d)=%v but weight(%d,%d)=%v",
					ErrNotSymmetric, i, j, weights[i][j], j, i, weights[j][i])
			}
		}
	}

	g := &Graph{outEdges: make([][]Edge, n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if weights[i][j] != 0 {
				g.outEdges[i] = append(g.outEdges[i], Edge{Didx: uint32(j), Weight: weights[i][j]})
			}
		}
	}
	g.finalize()
	return g, nil
}

// NewFromEdges builds a store over n vertices from an undirected edge list.
// Each input edge is mirrored. The first declaration of a pair wins if the
// same pair appears more than once.
func NewFromEdges(n int, edges []WeightedEdge) (*Graph, error) {
	if n <= 1 {
		return nil, fmt.Errorf("%w: n=%d", ErrTooFewVertices, n)
	}

	g := &Graph{outEdges: make([][]Edge, n)}
	for _, e := range edges {
		if int(e.Src) >= n || int(e.Dst) >= n {
			return nil, fmt.Errorf("%w: edge (%d,%d) with n=%d", ErrVertexRange, e.Src, e.Dst, n)
		}
		if e.Weight == 0 {
			continue // Zero weight means no edge.
		}
		if g.hasEdge(e.Src, e.Dst) {
			continue
		}
		g.outEdges[e.Src] = append(g.outEdges[e.Src], Edge{Didx: e.Dst, Weight: e.Weight})
		if e.Src != e.Dst {
			g.outEdges[e.Dst] = append(g.outEdges[e.Dst], Edge{Didx: e.Src, Weight: e.Weight})
		}
	}
	g.finalize()
	return g, nil
}

func (g *Graph) hasEdge(i, j uint32) bool {
	for _, e := range g.outEdges[i] {
		if e.Didx == j {
			return true
		}
	}
	return false
}

// Sorts adjacency and computes CSR offsets for directed-edge ordinals.
func (g *Graph) finalize() {
	g.edgeOffs = make([]int, len(g.outEdges)+1)
	for i := range g.outEdges {
		sort.Slice(g.outEdges[i], func(a, b int) bool { return g.outEdges[i][a].Didx < g.outEdges[i][b].Didx })
		g.edgeOffs[i+1] = g.edgeOffs[i] + len(g.outEdges[i])
	}
	g.numEdges = g.edgeOffs[len(g.outEdges)]
}

func (g *Graph) NumVertices() int {
	return len(g.outEdges)
}

// NumEdges is the directed edge count (each undirected edge counts twice).
func (g *Graph) NumEdges() int {
	return g.numEdges
}

// OutEdges gives the adjacency of vertex i, sorted by destination.
// Callers must not mutate the returned slice.
func (g *Graph) OutEdges(i uint32) []Edge {
	return g.outEdges[i]
}

// EdgeOffset is the ordinal of vertex i's first directed edge; the edge
// (i, OutEdges(i)[k]) has ordinal EdgeOffset(i)+k.
func (g *Graph) EdgeOffset(i uint32) int {
	return g.edgeOffs[i]
}

// Weight of the directed pair (i, j); zero when not adjacent.
func (g *Graph) Weight(i, j uint32) float64 {
	edges := g.outEdges[i]
	k := sort.Search(len(edges), func(x int) bool { return edges[x].Didx >= j })
	if k < len(edges) && edges[k].Didx == j {
		return edges[k].Weight
	}
	return 0
}

func (g *Graph) Adjacent(i, j uint32) bool {
	return g.Weight(i, j) != 0
}
