package pagerank

import (
	"fmt"
	"sort"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
)

// Entry is one ranked node.
type Entry struct {
	ID    graph.NodeID
	Index int
	Score float64
}

// Ranking orders a rank vector by descending score. Equal scores are broken
// by ascending NodeID (graph.Compare), so identical inputs always produce
// identical rankings.
type Ranking struct {
	g       *graph.Graph
	ranks   []float64
	entries []Entry
}

// NewRanking maps ranks, indexed like g, back to node identifiers.
func NewRanking(g *graph.Graph, ranks []float64) (*Ranking, error) {
	if len(ranks) != g.Len() {
		return nil, fmt.Errorf("%w: %d scores for %d nodes", ErrLengthMismatch, len(ranks), g.Len())
	}
	entries := make([]Entry, len(ranks))
	for i, score := range ranks {
		entries[i] = Entry{ID: g.ID(i), Index: i, Score: score}
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Score != entries[b].Score {
			return entries[a].Score > entries[b].Score
		}
		return graph.Less(entries[a].ID, entries[b].ID)
	})
	return &Ranking{g: g, ranks: ranks, entries: entries}, nil
}

// Len returns the number of ranked nodes.
func (r *Ranking) Len() int { return len(r.entries) }

// All returns every node, best first.
func (r *Ranking) All() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Top returns the k best nodes. k larger than Len returns all of them.
func (r *Ranking) Top(k int) []Entry {
	if k <= 0 {
		return []Entry{}
	}
	if k > len(r.entries) {
		k = len(r.entries)
	}
	out := make([]Entry, k)
	copy(out, r.entries[:k])
	return out
}

// Score returns the score of id.
func (r *Ranking) Score(id graph.NodeID) (float64, bool) {
	i, ok := r.g.Index(id)
	if !ok {
		return 0, false
	}
	return r.ranks[i], true
}

// Scores returns the scores keyed by identifier.
func (r *Ranking) Scores() map[graph.NodeID]float64 {
	scores := make(map[graph.NodeID]float64, len(r.ranks))
	for i, score := range r.ranks {
		scores[r.g.ID(i)] = score
	}
	return scores
}
