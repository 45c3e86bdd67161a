package colouring

import (
	"github.com/rs/zerolog/log"

	"github.com/ericpony/pregel/graph"
	"github.com/ericpony/pregel/utils"
)

// Census sanity checks a colour vector and reports the highest colour index
// and the number of distinct colours in use. Panics on an improper colouring
// (two adjacent vertices sharing a colour, self loops aside), since that
// means the caller is inspecting a non-converged result as if converged.
func Census(g *graph.Graph, colours []uint32) (maxColour uint32, nColours int) {
	unique := make(map[uint32]bool)

	for v := 0; v < g.NumVertices(); v++ {
		ourColour := colours[v]
		unique[ourColour] = true
		maxColour = utils.Max(maxColour, ourColour)
		for _, e := range g.OutEdges(uint32(v)) {
			if e.Didx != uint32(v) && colours[e.Didx] == ourColour {
				log.Panic().Msg("Adjacent vertices with the same colour: " +
					utils.V(v) + " and " + utils.V(e.Didx) + " both " + utils.V(ourColour))
			}
		}
	}
	log.Info().Msg("Colours used: " + utils.V(len(unique)) + " Max colour: " + utils.V(maxColour))
	return maxColour, len(unique)
}
