// Package pagerank ranks the nodes of a directed graph with the random
// surfer model: the graph is normalized into a row-stochastic operator and
// a damped power iteration runs to its stationary distribution. Dangling
// mass and teleport probability are spread uniformly over every node.
package pagerank

import (
	"context"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
)

// Report bundles everything a single run produces.
type Report struct {
	Graph   *graph.Graph
	Result  *Result
	Ranking *Ranking
}

// Rank validates cfg, builds a fresh graph snapshot from adjacency, solves it
// and maps the scores back to identifiers.
func Rank(ctx context.Context, adjacency map[graph.NodeID][]graph.NodeID, cfg Config) (*Report, error) {
	solver, err := NewSolver(cfg)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(adjacency)
	if err != nil {
		return nil, err
	}
	res, err := solver.Solve(ctx, Normalize(g))
	if err != nil {
		return nil, err
	}
	ranking, err := NewRanking(g, res.Ranks)
	if err != nil {
		return nil, err
	}
	return &Report{Graph: g, Result: res, Ranking: ranking}, nil
}
