package pagerank

import "fmt"

// Step summarizes one completed iteration.
type Step struct {
	Iteration      int     // 1-based
	Nodes          int     // N
	Diff           float64 // sum of |x_new - x|
	Mass           float64 // sum of x before the iteration
	RelativeChange float64 // Diff / Mass
	DanglingMass   float64 // mass held by dangling nodes before the iteration
}

// Policy is a named convergence rule evaluated after every iteration.
type Policy interface {
	Met(s Step) bool
	String() string
}

// RelativeChange holds when the L1 change relative to the previous mass
// drops below Threshold.
type RelativeChange struct {
	Threshold float64
}

func (p RelativeChange) Met(s Step) bool { return s.RelativeChange < p.Threshold }

func (p RelativeChange) String() string {
	return fmt.Sprintf("relative-change<%g", p.Threshold)
}

// L1Tolerance holds when the L1 change drops below N * PerNode, so the
// residual error left on any single node is small enough not to reorder
// near ties.
type L1Tolerance struct {
	PerNode float64
}

func (p L1Tolerance) Met(s Step) bool { return s.Diff < float64(s.Nodes)*p.PerNode }

func (p L1Tolerance) String() string {
	return fmt.Sprintf("l1<N*%g", p.PerNode)
}

// DualThreshold returns the fine stopping rule and the coarse rule that is
// only recorded.
func DualThreshold() (stop, watch Policy) {
	return L1Tolerance{PerNode: DefaultFineTolerance}, RelativeChange{Threshold: DefaultCoarseThreshold}
}

// SingleThreshold stops as soon as the coarse rule holds.
func SingleThreshold() (stop, watch Policy) {
	return RelativeChange{Threshold: DefaultCoarseThreshold}, nil
}
