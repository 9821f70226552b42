// Package graph turns a link mapping (page -> outgoing links) into an
// indexed, immutable, simple directed graph.
package graph

import (
	"errors"
	"sort"
)

var ErrEmptyGraph = errors.New("graph: empty graph")

// Edge is a directed link between two dense indices.
type Edge struct {
	Source int
	Target int
}

// Graph is a snapshot of a link structure. Indices are dense, zero based and
// assigned in Compare order of the identifiers. A Graph is never modified
// after Build, so it can be shared by concurrent readers.
type Graph struct {
	ids       []NodeID
	index     map[NodeID]int
	edges     []Edge // sorted by (Source, Target)
	outDegree []int
	inDegree  []int
	dangling  []int // ascending
	dropped   int   // links to unknown targets
	repeated  int   // repeated links collapsed by deduplication
}

// Build indexes every key of adjacency as a node and emits one edge per
// distinct (source, target) pair. Targets that are not keys of adjacency are
// dropped. Self links are kept.
func Build(adjacency map[NodeID][]NodeID) (*Graph, error) {
	if len(adjacency) == 0 {
		return nil, ErrEmptyGraph
	}
	ids := make([]NodeID, 0, len(adjacency))
	for id := range adjacency {
		ids = append(ids, id)
	}
	SortIDs(ids)

	n := len(ids)
	g := &Graph{
		ids:       ids,
		index:     make(map[NodeID]int, n),
		outDegree: make([]int, n),
		inDegree:  make([]int, n),
	}
	for i, id := range ids {
		g.index[id] = i
	}

	seen := make(map[int]struct{})
	var row []int
	for i, id := range ids {
		row = row[:0]
		clear(seen)
		for _, target := range adjacency[id] {
			j, ok := g.index[target]
			if !ok {
				g.dropped++
				continue
			}
			if _, dup := seen[j]; dup {
				g.repeated++
				continue
			}
			seen[j] = struct{}{}
			row = append(row, j)
		}
		sort.Ints(row)
		for _, j := range row {
			g.edges = append(g.edges, Edge{Source: i, Target: j})
			g.inDegree[j]++
		}
		g.outDegree[i] = len(row)
		if len(row) == 0 {
			g.dangling = append(g.dangling, i)
		}
	}
	return g, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.ids) }

// ID returns the identifier stored at index i.
func (g *Graph) ID(i int) NodeID { return g.ids[i] }

// Index returns the dense index of id.
func (g *Graph) Index(id NodeID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// IDs returns the index -> identifier table. The slice is shared and must
// not be modified.
func (g *Graph) IDs() []NodeID { return g.ids }

// Edges returns the deduplicated edges in (source, target) order. The slice
// is shared and must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// OutDegree returns the number of distinct outgoing links of node i.
func (g *Graph) OutDegree(i int) int { return g.outDegree[i] }

// InDegree returns the number of distinct incoming links of node i.
func (g *Graph) InDegree(i int) int { return g.inDegree[i] }

// Dangling returns the ascending indices of nodes without outgoing links.
// The slice is shared and must not be modified.
func (g *Graph) Dangling() []int { return g.dangling }

// IsDangling reports whether node i has no outgoing links.
func (g *Graph) IsDangling(i int) bool { return g.outDegree[i] == 0 }

// Dropped returns how many links pointed at unknown nodes.
func (g *Graph) Dropped() int { return g.dropped }

// Repeated returns how many repeated links were collapsed.
func (g *Graph) Repeated() int { return g.repeated }
