package pagerank

import (
	"sort"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
)

// Operator is the row-stochastic transition matrix of a graph, stored by
// target (in-links) so that each output entry of x·P is a private gather.
// Dangling rows are all zero; their mass is spread by the solver against the
// current iterate instead.
type Operator struct {
	n        int
	inPtr    []int     // len n+1; in-links of j are inSrc[inPtr[j]:inPtr[j+1]]
	inSrc    []int     // ascending within each target
	weight   []float64 // 1/OutDegree(inSrc[k])
	dangling []int
}

// Normalize derives the transition operator of g. Every non-dangling row
// sums to 1 up to rounding of OutDegree·(1/OutDegree); dangling rows sum to 0.
func Normalize(g *graph.Graph) *Operator {
	n := g.Len()
	edges := g.Edges()
	op := &Operator{
		n:        n,
		inPtr:    make([]int, n+1),
		inSrc:    make([]int, len(edges)),
		weight:   make([]float64, len(edges)),
		dangling: g.Dangling(),
	}
	for _, e := range edges {
		op.inPtr[e.Target+1]++
	}
	for j := 0; j < n; j++ {
		op.inPtr[j+1] += op.inPtr[j]
	}
	// Edges are sorted by source, so each bucket fills in ascending source order
	next := make([]int, n)
	copy(next, op.inPtr[:n])
	for _, e := range edges {
		k := next[e.Target]
		next[e.Target]++
		op.inSrc[k] = e.Source
		op.weight[k] = 1 / float64(g.OutDegree(e.Source))
	}
	return op
}

// Len returns N.
func (op *Operator) Len() int { return op.n }

// Nonzeros returns the number of stored entries.
func (op *Operator) Nonzeros() int { return len(op.inSrc) }

// Dangling returns the indices whose rows are all zero.
func (op *Operator) Dangling() []int { return op.dangling }

// At returns the transition probability from i to j.
func (op *Operator) At(i, j int) float64 {
	lo, hi := op.inPtr[j], op.inPtr[j+1]
	k := lo + sort.SearchInts(op.inSrc[lo:hi], i)
	if k < hi && op.inSrc[k] == i {
		return op.weight[k]
	}
	return 0
}

// RowSums returns the sum of every row of the operator.
func (op *Operator) RowSums() []float64 {
	sums := make([]float64, op.n)
	for k, i := range op.inSrc {
		sums[i] += op.weight[k]
	}
	return sums
}

// propagate writes dst[j] = sum_i x[i]·P[i][j] for j in [lo, hi). Each
// entry is summed in ascending source order whatever the partitioning.
func (op *Operator) propagate(x, dst []float64, lo, hi int) {
	for j := lo; j < hi; j++ {
		var sum float64
		for k := op.inPtr[j]; k < op.inPtr[j+1]; k++ {
			sum += x[op.inSrc[k]] * op.weight[k]
		}
		dst[j] = sum
	}
}

type span struct{ lo, hi int }

// partition splits the target rows into at most parts contiguous, non-empty
// spans of roughly equal work (in-links plus one per row).
func (op *Operator) partition(parts int) []span {
	if parts < 1 {
		parts = 1
	}
	if parts > op.n {
		parts = op.n
	}
	total := op.inPtr[op.n] + op.n
	spans := make([]span, 0, parts)
	lo := 0
	for p := 1; p <= parts && lo < op.n; p++ {
		if p == parts {
			spans = append(spans, span{lo, op.n})
			break
		}
		want := total * p / parts
		hi := lo + 1
		for hi < op.n && op.inPtr[hi]+hi < want {
			hi++
		}
		spans = append(spans, span{lo, hi})
		lo = hi
	}
	return spans
}
