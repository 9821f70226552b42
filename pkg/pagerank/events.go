package pagerank

// State can be treated as an enum
// (iota: the constants in this group, of type State, are auto-increment)
type State int32

const (
	Initialized            State = iota // Uniform vector, no iteration yet
	Iterating                           // Iteration in progress
	Converged                           // Stop policy met
	MaxIterationsExhausted              // Cap reached first, last iterate kept
	BudgetExhausted                     // Context or time budget ended between iterations
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Iterating:
		return "Iterating"
	case Converged:
		return "Converged"
	case MaxIterationsExhausted:
		return "MaxIterationsExhausted"
	case BudgetExhausted:
		return "BudgetExhausted"
	}
	return "Undefined"
}

// EventKind identifies an iteration boundary.
type EventKind int32

const (
	IterationStarted  EventKind = iota // Before the dangling mass is read
	IterationFinished                  // New iterate in place, Step filled
	CoarseConverged                    // Watch policy held for the first time
	Solved                             // Stop policy held
	Exhausted                          // Cap or budget reached
)

func (k EventKind) String() string {
	switch k {
	case IterationStarted:
		return "IterationStarted"
	case IterationFinished:
		return "IterationFinished"
	case CoarseConverged:
		return "CoarseConverged"
	case Solved:
		return "Solved"
	case Exhausted:
		return "Exhausted"
	}
	return "Undefined"
}

// Event is delivered to an Observer at iteration boundaries.
type Event struct {
	Kind      EventKind
	Iteration int
	State     State
	Step      Step // zero for IterationStarted
	// Ranks is the current iterate. It is only valid during the callback
	// and must not be modified.
	Ranks []float64
}

// Observer is called synchronously from the solve loop.
type Observer func(Event)
