package pagerank

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
)

// Result is the outcome of a solve. Converged is the only success state;
// MaxIterationsExhausted and BudgetExhausted still carry the last iterate.
type Result struct {
	Ranks           []float64 // by graph index, sums to 1
	State           State
	Iterations      int     // completed iterations
	CoarseIteration int     // first iteration where Watch held, 0 if never
	Diff            float64 // L1 change of the last iteration
	RelativeChange  float64 // Diff relative to the previous mass
	Elapsed         time.Duration
}

// Converged reports whether the stop policy was met.
func (r *Result) Converged() bool { return r.State == Converged }

// Solver runs damped power iteration on an Operator. A Solver holds no
// per-solve state and may be reused.
type Solver struct {
	cfg Config
}

// NewSolver validates cfg.
func NewSolver(cfg Config) (*Solver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Solver{cfg: cfg}, nil
}

// Config returns the validated configuration.
func (s *Solver) Config() Config { return s.cfg }

// Solve iterates
//
//	x'[j] = (1-d)/N + d·(sum_i x[i]·P[i][j] + dangling/N)
//
// from the uniform vector, renormalizing x' to unit mass after every step,
// until the stop policy holds, the iteration cap is reached or ctx ends.
// ctx is only consulted between iterations.
func (s *Solver) Solve(ctx context.Context, op *Operator) (*Result, error) {
	if op == nil || op.Len() == 0 {
		return nil, graph.ErrEmptyGraph
	}
	if s.cfg.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Budget)
		defer cancel()
	}
	start := time.Now()

	n := op.Len()
	nf := float64(n)
	d := s.cfg.Damping
	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / nf
	}
	next := make([]float64, n)
	spans := op.partition(s.cfg.Workers)
	res := &Result{State: Initialized}

	for iter := 1; iter <= s.cfg.MaxIterations; iter++ {
		if ctx.Err() != nil {
			res.State = BudgetExhausted
			break
		}
		res.State = Iterating
		s.emit(Event{Kind: IterationStarted, Iteration: iter, State: res.State, Ranks: x})

		mass := floats.Sum(x)
		var dangling float64
		for _, i := range op.dangling {
			dangling += x[i]
		}
		s.propagate(op, x, next, spans)
		teleport := (1-d)/nf + d*dangling/nf
		for j := range next {
			next[j] = teleport + d*next[j]
		}
		renormalize(next)

		diff := floats.Distance(next, x, 1)
		step := Step{
			Iteration:      iter,
			Nodes:          n,
			Diff:           diff,
			Mass:           mass,
			RelativeChange: diff / mass,
			DanglingMass:   dangling,
		}
		x, next = next, x
		res.Iterations = iter
		res.Diff = step.Diff
		res.RelativeChange = step.RelativeChange
		s.emit(Event{Kind: IterationFinished, Iteration: iter, State: res.State, Step: step, Ranks: x})

		if s.cfg.Watch != nil && res.CoarseIteration == 0 && s.cfg.Watch.Met(step) {
			res.CoarseIteration = iter
			s.emit(Event{Kind: CoarseConverged, Iteration: iter, State: res.State, Step: step, Ranks: x})
		}
		if s.cfg.Stop.Met(step) {
			res.State = Converged
			s.emit(Event{Kind: Solved, Iteration: iter, State: res.State, Step: step, Ranks: x})
			break
		}
	}
	switch res.State {
	case Converged:
	case BudgetExhausted:
		s.emit(Event{Kind: Exhausted, Iteration: res.Iterations, State: res.State, Ranks: x})
	default:
		res.State = MaxIterationsExhausted
		s.emit(Event{Kind: Exhausted, Iteration: res.Iterations, State: res.State, Ranks: x})
	}

	res.Ranks = x
	res.Elapsed = time.Since(start)
	return res, nil
}

// propagate computes next = x·P, one goroutine per span when there is more
// than one. Spans own disjoint outputs, so the result does not depend on
// scheduling.
func (s *Solver) propagate(op *Operator, x, next []float64, spans []span) {
	if len(spans) == 1 {
		op.propagate(x, next, spans[0].lo, spans[0].hi)
		return
	}
	var eg errgroup.Group
	for _, sp := range spans {
		sp := sp
		eg.Go(func() error {
			op.propagate(x, next, sp.lo, sp.hi)
			return nil
		})
	}
	_ = eg.Wait()
}

// renormalize scales v to unit mass, correcting the drift accumulated by
// rounding, and returns the mass it had.
func renormalize(v []float64) float64 {
	mass := floats.Sum(v)
	floats.Scale(1/mass, v)
	return mass
}

func (s *Solver) emit(e Event) {
	if s.cfg.Observer != nil {
		s.cfg.Observer(e)
	}
}
