package pagerank

import "errors"

var (
	// ErrInvalidDamping is returned when the damping factor is outside (0, 1).
	ErrInvalidDamping = errors.New("pagerank: damping must be in (0, 1)")

	// ErrInvalidMaxIterations is returned when the iteration cap is not positive.
	ErrInvalidMaxIterations = errors.New("pagerank: max iterations must be positive")

	// ErrInvalidWorkers is returned for a negative partition hint.
	ErrInvalidWorkers = errors.New("pagerank: workers must not be negative")

	// ErrInvalidBudget is returned for a negative time budget.
	ErrInvalidBudget = errors.New("pagerank: budget must not be negative")

	// ErrLengthMismatch is returned when a rank vector does not match the graph.
	ErrLengthMismatch = errors.New("pagerank: rank vector length mismatch")
)
