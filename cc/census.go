package cc

import (
	"github.com/rs/zerolog/log"

	"github.com/ericpony/pregel/graph"
	"github.com/ericpony/pregel/utils"
)

// Census sanity checks a label vector and counts the distinct components.
// Panics if any edge straddles two labels, since that would mean the caller
// is inspecting a non-converged result as if it had converged.
func Census(g *graph.Graph, labels []uint32) (components int) {
	unique := make(map[uint32]bool)

	for v := 0; v < g.NumVertices(); v++ {
		ourValue := labels[v]
		unique[ourValue] = true
		for _, e := range g.OutEdges(uint32(v)) {
			if labels[e.Didx] != ourValue {
				log.Panic().Msg("Connected vertices with different labels: " +
					utils.V(v) + "=" + utils.V(ourValue) + " vs " + utils.V(e.Didx) + "=" + utils.V(labels[e.Didx]))
			}
		}
	}
	log.Info().Msg("Number of unique components: " + utils.V(len(unique)))
	return len(unique)
}
