package graph

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ericpony/pregel/utils"
)

// LoadEdgeList reads a whitespace separated "src dst [weight]" file into a
// store. Lines starting with # are skipped; a missing weight defaults to 1.
// The vertex count is the largest id seen plus one.
// This exists for the demo binaries only; the engine itself never does I/O.
func LoadEdgeList(path string) (*Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open edge list: %w", err)
	}
	defer file.Close()

	var edges []WeightedEdge
	maxId := uint32(0)
	lines := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("edge list line %d: want at least 2 fields, got %d", lines, len(fields))
		}
		src, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("edge list line %d: %w", lines, err)
		}
		dst, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("edge list line %d: %w", lines, err)
		}
		weight := 1.0
		if len(fields) >= 3 {
			if weight, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("edge list line %d: %w", lines, err)
			}
		}
		maxId = utils.Max(maxId, utils.Max(uint32(src), uint32(dst)))
		edges = append(edges, WeightedEdge{Src: uint32(src), Dst: uint32(dst), Weight: weight})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}

	g, err := NewFromEdges(int(maxId)+1, edges)
	if err != nil {
		return nil, err
	}
	log.Debug().Msg("Loaded " + utils.V(g.NumVertices()) + " vertices, " +
		utils.V(g.NumEdges()/2) + " undirected edges from " + path)
	return g, nil
}
