package bsp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericpony/pregel/graph"
	"github.com/ericpony/pregel/utils"
)

// Minimum-label propagation, the simplest convergent algorithm the engine can
// host. Used here to exercise the engine itself; the full binding lives in
// the cc package.
type minLabel struct{}

type minMail uint32

func (minMail) New() minMail {
	return math.MaxUint32
}

func (*minLabel) OnInitVertex(vidx uint32) uint32 {
	return vidx
}

func (*minLabel) OnSendMessage(src, dst uint32, _ float64, srcAttr, dstAttr uint32) (minMail, bool) {
	if srcAttr < dstAttr {
		return minMail(srcAttr), true
	}
	return math.MaxUint32, false
}

func (*minLabel) MessageMerge(incoming minMail, existing *minMail) {
	utils.AtomicMinUint32((*uint32)(existing), uint32(incoming))
}

func (*minLabel) OnUpdateVertex(_ *Frame[uint32], _ uint32, _ uint32, merged minMail) uint32 {
	return uint32(merged)
}

// Sends on every edge every round; can never terminate by silence.
type oscillator struct{}

func (*oscillator) OnInitVertex(uint32) uint32 {
	return 0
}

func (*oscillator) OnSendMessage(uint32, uint32, float64, uint32, uint32) (minMail, bool) {
	return 1, true
}

func (*oscillator) MessageMerge(incoming minMail, existing *minMail) {
	utils.AtomicMinUint32((*uint32)(existing), uint32(incoming))
}

func (*oscillator) OnUpdateVertex(_ *Frame[uint32], _ uint32, attr uint32, _ minMail) uint32 {
	return attr ^ 1
}

func pathGraph(t *testing.T, n int) *graph.Graph {
	edges := make([]graph.WeightedEdge, 0, n-1)
	for i := 0; i < n-1; i++ {
		edges = append(edges, graph.WeightedEdge{Src: uint32(i), Dst: uint32(i + 1), Weight: 1})
	}
	g, err := graph.NewFromEdges(n, edges)
	require.NoError(t, err)
	return g
}

func TestConfigErrors(t *testing.T) {
	g := pathGraph(t, 4)

	_, err := New[uint32, minMail](nil, new(minLabel), Options{MaxIterations: 10})
	require.ErrorIs(t, err, ErrNilGraph)

	_, err = New[uint32, minMail](g, nil, Options{MaxIterations: 10})
	require.ErrorIs(t, err, ErrNilAlgorithm)

	_, err = New[uint32, minMail](g, new(minLabel), Options{MaxIterations: 0})
	require.ErrorIs(t, err, ErrBadMaxIterations)

	_, err = New[uint32, minMail](g, new(minLabel), Options{MaxIterations: -3})
	require.ErrorIs(t, err, ErrBadMaxIterations)
}

func TestPathConverges(t *testing.T) {
	g := pathGraph(t, 4)
	e, err := New[uint32, minMail](g, new(minLabel), Options{MaxIterations: 100})
	require.NoError(t, err)

	supersteps := e.Run()
	require.True(t, e.Converged())
	// Three productive rounds, one more to observe silence.
	require.LessOrEqual(t, supersteps, 4)
	require.Equal(t, []uint32{0, 0, 0, 0}, e.Attributes())
}

// Once silent, one more superstep changes nothing and raises no flags.
func TestIdempotentAtFixedPoint(t *testing.T) {
	g := pathGraph(t, 4)
	e, err := New[uint32, minMail](g, new(minLabel), Options{MaxIterations: 100})
	require.NoError(t, err)
	e.Run()
	require.True(t, e.Converged())

	before := e.Attributes()
	sent := e.Superstep()
	require.Equal(t, 0, sent)
	require.Equal(t, before, e.Attributes())
	for _, flag := range e.SentFlags() {
		require.False(t, flag)
	}
}

// An isolated vertex keeps its initial attribute and is never applied.
func TestIsolatedVertex(t *testing.T) {
	g, err := graph.NewFromEdges(3, []graph.WeightedEdge{{Src: 0, Dst: 1, Weight: 1}})
	require.NoError(t, err)

	e, err := New[uint32, minMail](g, new(minLabel), Options{MaxIterations: 10})
	require.NoError(t, err)
	e.Run()
	require.True(t, e.Converged())
	require.Equal(t, []uint32{0, 0, 2}, e.Attributes())
}

// Edge-processing and apply order within a superstep must be unobservable:
// any thread count and any sweep permutation gives the same vector.
func TestPermutationInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	edges := make([]graph.WeightedEdge, 0, 120)
	n := 40
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < 0.1 {
				edges = append(edges, graph.WeightedEdge{Src: uint32(i), Dst: uint32(j), Weight: 1})
			}
		}
	}
	g, err := graph.NewFromEdges(n, edges)
	require.NoError(t, err)

	var baseline []uint32
	for trial := 0; trial < 12; trial++ {
		opts := Options{
			MaxIterations: 100,
			NumThreads:    rng.Intn(8) + 1,
			SweepSeed:     rng.Int63(),
		}
		e, err := New[uint32, minMail](g, new(minLabel), opts)
		require.NoError(t, err)
		e.Run()
		require.True(t, e.Converged())
		if baseline == nil {
			baseline = e.Attributes()
			continue
		}
		require.Equal(t, baseline, e.Attributes(), "trial %d: order must not be observable", trial)
	}
}

// The bound caps work and is only ever checked on a superstep boundary;
// exceeding it is reported through the count, not an error.
func TestIterationBound(t *testing.T) {
	g := pathGraph(t, 4)
	maxIterations := 5
	e, err := New[uint32, minMail](g, new(oscillator), Options{MaxIterations: maxIterations})
	require.NoError(t, err)

	supersteps := e.Run()
	require.False(t, e.Converged())
	require.Equal(t, maxIterations+1, supersteps)
	require.Greater(t, supersteps, maxIterations)
}

// At least one superstep runs even when the graph is already at a fixed
// point before superstep zero.
func TestAlwaysRunsOneSuperstep(t *testing.T) {
	g, err := graph.NewFromEdges(2, nil)
	require.NoError(t, err)

	e, err := New[uint32, minMail](g, new(minLabel), Options{MaxIterations: 10})
	require.NoError(t, err)
	supersteps := e.Run()
	require.Equal(t, 1, supersteps)
	require.True(t, e.Converged())
}
