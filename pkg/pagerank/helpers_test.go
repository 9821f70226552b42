package pagerank_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
)

func mustBuild(t *testing.T, adjacency map[graph.NodeID][]graph.NodeID) *graph.Graph {
	t.Helper()
	g, err := graph.Build(adjacency)
	require.NoError(t, err)
	return g
}

// randomAdjacency returns n numbered pages with up to maxOut links each,
// repeated links and links to unknown pages included. Roughly one page in
// five has no links.
func randomAdjacency(n, maxOut int, seed int64) map[graph.NodeID][]graph.NodeID {
	rng := rand.New(rand.NewSource(seed))
	adjacency := make(map[graph.NodeID][]graph.NodeID, n)
	for i := 0; i < n; i++ {
		id := graph.NodeID(strconv.Itoa(i))
		adjacency[id] = nil
		if rng.Intn(5) == 0 {
			continue
		}
		for k := rng.Intn(maxOut) + 1; k > 0; k-- {
			// n+3 leaves a few targets outside the page set
			adjacency[id] = append(adjacency[id], graph.NodeID(strconv.Itoa(rng.Intn(n+3))))
		}
	}
	return adjacency
}

// clique links every member to every other member.
func clique(adjacency map[graph.NodeID][]graph.NodeID, prefix string, size int) {
	for i := 0; i < size; i++ {
		src := graph.NodeID(prefix + strconv.Itoa(i))
		adjacency[src] = nil
		for j := 0; j < size; j++ {
			if i != j {
				adjacency[src] = append(adjacency[src], graph.NodeID(prefix+strconv.Itoa(j)))
			}
		}
	}
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}
