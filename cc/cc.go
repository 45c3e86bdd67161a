// Package cc binds connected-component labelling into the superstep engine.
// Every vertex starts as its own component representative; labels flow
// downhill along edges until each component agrees on its minimum member id.
package cc

import (
	"math"

	"github.com/ericpony/pregel/bsp"
	"github.com/ericpony/pregel/graph"
	"github.com/ericpony/pregel/utils"
)

type ConnectedComponents struct{}

const EMPTY_VAL = math.MaxUint32

type Mail uint32

func (Mail) New() Mail {
	return EMPTY_VAL
}

// A vertex accepts its own id as its starting label. Ids are unique, so the
// eventual component label is the smallest id in the component.
func (*ConnectedComponents) OnInitVertex(vidx uint32) uint32 {
	return vidx
}

// Offer our label downhill. The mirrored direction of the sweep covers the
// case where dst holds the smaller label, so an edge stays silent in both
// directions exactly when its endpoints already agree.
func (*ConnectedComponents) OnSendMessage(src, dst uint32, _ float64, srcAttr, dstAttr uint32) (Mail, bool) {
	if srcAttr < dstAttr {
		return Mail(srcAttr), true
	}
	return EMPTY_VAL, false
}

func (*ConnectedComponents) MessageMerge(incoming Mail, existing *Mail) {
	utils.AtomicMinUint32((*uint32)(existing), uint32(incoming))
}

// Adopt the merged label unconditionally; send/merge guarantee it improves on
// the current one.
func (*ConnectedComponents) OnUpdateVertex(_ *bsp.Frame[uint32], _ uint32, _ uint32, merged Mail) uint32 {
	return uint32(merged)
}

// Run labels the graph and returns the label vector and the completed
// superstep count. A count greater than opts.MaxIterations means the bound
// was hit before convergence.
func Run(g *graph.Graph, opts bsp.Options) (labels []uint32, supersteps int, err error) {
	e, err := bsp.New[uint32, Mail](g, new(ConnectedComponents), opts)
	if err != nil {
		return nil, 0, err
	}
	supersteps = e.Run()
	return e.Attributes(), supersteps, nil
}
