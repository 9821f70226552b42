package pagerank

import (
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultDamping is the probability of following a link instead of
	// teleporting to a uniformly random page.
	DefaultDamping = 0.85

	// DefaultMaxIterations bounds the solve when the second eigenvalue of the
	// operator is close to the damping factor.
	DefaultMaxIterations = 200

	// DefaultCoarseThreshold is the relative L1 change at which the coarse
	// policy reports convergence.
	DefaultCoarseThreshold = 0.005

	// DefaultFineTolerance is the per-node L1 tolerance of the fine policy.
	DefaultFineTolerance = 1e-6
)

// Config encapsulates the parameters of a Solver.
type Config struct {
	// Damping is the probability that the random surfer follows one of the
	// outgoing links of the current page. Must be in (0, 1).
	Damping float64

	// MaxIterations caps the number of iterations. When it is reached before
	// Stop holds, the last iterate is returned as MaxIterationsExhausted.
	MaxIterations int

	// Stop ends the iteration when met. Nil selects L1Tolerance with
	// DefaultFineTolerance.
	Stop Policy

	// Watch is evaluated every iteration but never stops it; the first
	// iteration where it holds is recorded in Result.CoarseIteration.
	Watch Policy

	// Workers is the number of target-row partitions evaluated concurrently
	// by the matrix-vector product. 0 and 1 both mean sequential.
	Workers int

	// Budget bounds the wall time of a solve. It is checked between
	// iterations only. 0 means no budget.
	Budget time.Duration

	// Observer receives iteration boundary events. May be nil.
	Observer Observer
}

// DefaultConfig returns the dual-threshold configuration with damping 0.85.
func DefaultConfig() Config {
	stop, watch := DualThreshold()
	return Config{
		Damping:       DefaultDamping,
		MaxIterations: DefaultMaxIterations,
		Stop:          stop,
		Watch:         watch,
		Workers:       1,
	}
}

// validate reports every invalid field at once.
func (c *Config) validate() error {
	var err error
	if math.IsNaN(c.Damping) || c.Damping <= 0 || c.Damping >= 1 {
		err = multierror.Append(err, fmt.Errorf("%w: got %v", ErrInvalidDamping, c.Damping))
	}
	if c.MaxIterations <= 0 {
		err = multierror.Append(err, fmt.Errorf("%w: got %d", ErrInvalidMaxIterations, c.MaxIterations))
	}
	if c.Workers < 0 {
		err = multierror.Append(err, fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Workers))
	}
	if c.Budget < 0 {
		err = multierror.Append(err, fmt.Errorf("%w: got %s", ErrInvalidBudget, c.Budget))
	}
	if c.Stop == nil {
		c.Stop = L1Tolerance{PerNode: DefaultFineTolerance}
	}
	return err
}
