package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/ericpony/pregel/bsp"
	"github.com/ericpony/pregel/colouring"
	"github.com/ericpony/pregel/graph"
	"github.com/ericpony/pregel/utils"
)

// Greedily colours an undirected edge-list graph.
func main() {
	graphPtr := flag.String("g", "", "Graph file, whitespace separated edge list: src dst [weight].")
	threadPtr := flag.Int("t", 0, "Thread count for the engine. 0 uses all CPUs.")
	iterPtr := flag.Int("i", 1000, "Superstep bound.")
	seedPtr := flag.Int64("seed", 0, "If non-zero, sweep edges in a seeded permuted order.")
	debugPtr := flag.Int("debug", 0, "Adds extra debug output. 0 info, 1 debug, 2 trace.")
	colourPtr := flag.Bool("nc", false, "Removes the colouring from the log output.")
	flag.Parse()

	if *colourPtr {
		utils.SetLoggerConsole(true)
	}
	utils.SetLevel(*debugPtr)

	if *graphPtr == "" {
		flag.Usage()
		log.Fatal().Msg("No graph file given.")
	}

	g, err := graph.LoadEdgeList(*graphPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load graph.")
	}

	opts := bsp.Options{MaxIterations: *iterPtr, NumThreads: *threadPtr, SweepSeed: *seedPtr}
	colours, supersteps, err := colouring.Run(g, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad engine configuration.")
	}
	if supersteps > opts.MaxIterations {
		log.Warn().Msg("Hit the superstep bound before convergence; colours below are partial.")
		return
	}

	colouring.Census(g, colours)
}
