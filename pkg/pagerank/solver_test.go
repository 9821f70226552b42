package pagerank_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/pagerank"
)

func solve(t *testing.T, g *graph.Graph, cfg pagerank.Config) *pagerank.Result {
	t.Helper()
	solver, err := pagerank.NewSolver(cfg)
	require.NoError(t, err)
	res, err := solver.Solve(context.Background(), pagerank.Normalize(g))
	require.NoError(t, err)
	return res
}

func TestNewSolver_InvalidDamping(t *testing.T) {
	for _, d := range []float64{0, 1, -0.1, 1.5, math.NaN(), math.Inf(1)} {
		cfg := pagerank.DefaultConfig()
		cfg.Damping = d
		_, err := pagerank.NewSolver(cfg)
		require.ErrorIs(t, err, pagerank.ErrInvalidDamping, "damping %v", d)
	}
}

func TestNewSolver_ReportsEveryProblem(t *testing.T) {
	cfg := pagerank.Config{Damping: 2, MaxIterations: 0, Workers: -1, Budget: -1}
	_, err := pagerank.NewSolver(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, pagerank.ErrInvalidDamping)
	assert.ErrorIs(t, err, pagerank.ErrInvalidMaxIterations)
	assert.ErrorIs(t, err, pagerank.ErrInvalidWorkers)
	assert.ErrorIs(t, err, pagerank.ErrInvalidBudget)
}

func TestNewSolver_DefaultsStopPolicy(t *testing.T) {
	solver, err := pagerank.NewSolver(pagerank.Config{Damping: 0.85, MaxIterations: 10})
	require.NoError(t, err)
	assert.Equal(t, pagerank.L1Tolerance{PerNode: pagerank.DefaultFineTolerance}, solver.Config().Stop)
}

func TestSolve_NilOperator(t *testing.T) {
	solver, err := pagerank.NewSolver(pagerank.DefaultConfig())
	require.NoError(t, err)
	_, err = solver.Solve(context.Background(), nil)
	require.ErrorIs(t, err, graph.ErrEmptyGraph)
}

func TestSolve_MassAndFloorEveryIteration(t *testing.T) {
	g := mustBuild(t, randomAdjacency(200, 6, 3))
	cfg := pagerank.DefaultConfig()
	floor := (1 - cfg.Damping) / float64(g.Len())

	finished := 0
	cfg.Observer = func(e pagerank.Event) {
		if e.Kind != pagerank.IterationFinished {
			return
		}
		finished++
		assert.InDelta(t, 1.0, sum(e.Ranks), 1e-9, "iteration %d", e.Iteration)
		for i, x := range e.Ranks {
			if x < floor-1e-12 {
				t.Fatalf("iteration %d: rank[%d]=%g below teleport floor %g", e.Iteration, i, x, floor)
			}
		}
		assert.InDelta(t, 1.0, e.Step.Mass, 1e-9)
	}
	res := solve(t, g, cfg)

	require.True(t, res.Converged())
	assert.Equal(t, res.Iterations, finished)
	assert.InDelta(t, 1.0, sum(res.Ranks), 1e-9)
	assert.Less(t, res.Diff, float64(g.Len())*pagerank.DefaultFineTolerance)
}

func TestSolve_SingleNode(t *testing.T) {
	g := mustBuild(t, map[graph.NodeID][]graph.NodeID{"1": nil})
	res := solve(t, g, pagerank.DefaultConfig())

	assert.Equal(t, []float64{1.0}, res.Ranks)
	assert.Equal(t, pagerank.Converged, res.State)
	assert.Equal(t, 1, res.Iterations)
}

func TestSolve_AllDanglingIsUniform(t *testing.T) {
	g := mustBuild(t, map[graph.NodeID][]graph.NodeID{"1": nil, "2": {"9"}, "3": {}})
	res := solve(t, g, pagerank.DefaultConfig())

	require.True(t, res.Converged())
	assert.Equal(t, 1, res.Iterations)
	for _, x := range res.Ranks {
		assert.InDelta(t, 1.0/3.0, x, 1e-15)
	}
}

func TestSolve_TwoCycle(t *testing.T) {
	g := mustBuild(t, map[graph.NodeID][]graph.NodeID{"A": {"B"}, "B": {"A"}})
	res := solve(t, g, pagerank.DefaultConfig())

	require.True(t, res.Converged())
	assert.InDelta(t, 0.5, res.Ranks[0], 1e-6)
	assert.InDelta(t, 0.5, res.Ranks[1], 1e-6)
}

func TestSolve_StarClosedForm(t *testing.T) {
	const leaves = 6
	adjacency := map[graph.NodeID][]graph.NodeID{"hub": nil}
	for i := 0; i < leaves; i++ {
		adjacency[graph.NodeID(string(rune('a'+i)))] = []graph.NodeID{"hub"}
	}
	g := mustBuild(t, adjacency)
	cfg := pagerank.DefaultConfig()
	cfg.Stop = pagerank.L1Tolerance{PerNode: 1e-13}
	res := solve(t, g, cfg)
	require.True(t, res.Converged())

	// Stationary point of leaf = (1-d)/N + d·hub/N, hub = 1 - L·leaf
	n, d, l := float64(leaves+1), cfg.Damping, float64(leaves)
	wantLeaf := 1 / (n + d*l)
	wantHub := (1 + d*l) / (n + d*l)

	hub, ok := g.Index("hub")
	require.True(t, ok)
	assert.InDelta(t, wantHub, res.Ranks[hub], 1e-9)
	for i, x := range res.Ranks {
		if i == hub {
			continue
		}
		assert.InDelta(t, wantLeaf, x, 1e-9)
		assert.Greater(t, res.Ranks[hub], x)
	}
}

func TestSolve_DuplicateLinksEquivalent(t *testing.T) {
	withDuplicates := mustBuild(t, map[graph.NodeID][]graph.NodeID{
		"1": {"2", "2", "3", "2"},
		"2": {"3", "1", "3"},
		"3": {"3", "3"},
		"4": {"1", "1"},
	})
	deduplicated := mustBuild(t, map[graph.NodeID][]graph.NodeID{
		"1": {"2", "3"},
		"2": {"3", "1"},
		"3": {"3"},
		"4": {"1"},
	})
	a := solve(t, withDuplicates, pagerank.DefaultConfig())
	b := solve(t, deduplicated, pagerank.DefaultConfig())

	assert.Equal(t, b.Ranks, a.Ranks)
	assert.Equal(t, b.Iterations, a.Iterations)
}

func TestSolve_SlowConvergenceExhausts(t *testing.T) {
	adjacency := map[graph.NodeID][]graph.NodeID{}
	clique(adjacency, "a", 10)
	clique(adjacency, "b", 3)
	adjacency["a0"] = append(adjacency["a0"], "b0")
	g := mustBuild(t, adjacency)

	cfg := pagerank.DefaultConfig()
	cfg.MaxIterations = 2
	exhausted := false
	cfg.Observer = func(e pagerank.Event) {
		if e.Kind == pagerank.Exhausted {
			exhausted = true
		}
	}
	res := solve(t, g, cfg)

	assert.Equal(t, pagerank.MaxIterationsExhausted, res.State)
	assert.False(t, res.Converged())
	assert.True(t, exhausted)
	assert.Equal(t, 2, res.Iterations)
	assert.InDelta(t, 1.0, sum(res.Ranks), 1e-9)

	// The same graph converges once the cap allows it
	full := solve(t, g, pagerank.DefaultConfig())
	require.True(t, full.Converged())
	assert.Greater(t, full.Iterations, 2)
}

func TestSolve_WorkersDoNotChangeResult(t *testing.T) {
	g := mustBuild(t, randomAdjacency(500, 8, 42))
	sequential := solve(t, g, pagerank.DefaultConfig())

	for _, workers := range []int{2, 3, 8, 1000} {
		cfg := pagerank.DefaultConfig()
		cfg.Workers = workers
		parallel := solve(t, g, cfg)
		assert.Equal(t, sequential.Ranks, parallel.Ranks, "workers=%d", workers)
		assert.Equal(t, sequential.Iterations, parallel.Iterations, "workers=%d", workers)
	}
}

func TestSolve_DualRecordsCoarseIteration(t *testing.T) {
	g := mustBuild(t, randomAdjacency(300, 5, 9))

	var coarseEvents int
	cfg := pagerank.DefaultConfig()
	cfg.Observer = func(e pagerank.Event) {
		if e.Kind == pagerank.CoarseConverged {
			coarseEvents++
			assert.Less(t, e.Step.RelativeChange, pagerank.DefaultCoarseThreshold)
		}
	}
	dual := solve(t, g, cfg)
	require.True(t, dual.Converged())
	assert.Equal(t, 1, coarseEvents)
	assert.Positive(t, dual.CoarseIteration)
	assert.LessOrEqual(t, dual.CoarseIteration, dual.Iterations)

	single := pagerank.DefaultConfig()
	single.Stop, single.Watch = pagerank.SingleThreshold()
	coarse := solve(t, g, single)
	require.True(t, coarse.Converged())
	assert.Zero(t, coarse.CoarseIteration)
	assert.Equal(t, dual.CoarseIteration, coarse.Iterations)
	assert.LessOrEqual(t, coarse.Iterations, dual.Iterations)
}

func TestSolve_EventOrder(t *testing.T) {
	g := mustBuild(t, map[graph.NodeID][]graph.NodeID{"1": nil})
	var kinds []pagerank.EventKind
	cfg := pagerank.DefaultConfig()
	cfg.Observer = func(e pagerank.Event) { kinds = append(kinds, e.Kind) }
	solve(t, g, cfg)

	assert.Equal(t, []pagerank.EventKind{
		pagerank.IterationStarted,
		pagerank.IterationFinished,
		pagerank.CoarseConverged,
		pagerank.Solved,
	}, kinds)
}

func TestSolve_CancelledContextKeepsUniform(t *testing.T) {
	g := mustBuild(t, randomAdjacency(20, 3, 1))
	solver, err := pagerank.NewSolver(pagerank.DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := solver.Solve(ctx, pagerank.Normalize(g))
	require.NoError(t, err)

	assert.Equal(t, pagerank.BudgetExhausted, res.State)
	assert.Zero(t, res.Iterations)
	assert.InDelta(t, 1.0, sum(res.Ranks), 1e-12)
	for _, x := range res.Ranks {
		assert.Equal(t, 1.0/float64(g.Len()), x)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Converged", pagerank.Converged.String())
	assert.Equal(t, "MaxIterationsExhausted", pagerank.MaxIterationsExhausted.String())
	assert.Equal(t, "Undefined", pagerank.State(42).String())
	assert.Equal(t, "Solved", pagerank.Solved.String())
}
