package model

import "errors"

// Failure kinds the planner surfaces. Callers discriminate with errors.Is;
// everything else wraps one of these. Filtering out an infeasible transfer
// candidate is not an error, only an over-constrained optimization is.
var (
	// ErrInvalidRating means a fixture difficulty rating outside [1,5].
	ErrInvalidRating = errors.New("fixture difficulty rating out of range")

	// ErrInsufficientPool means some position has fewer eligible players
	// than the required squad count, so selection is not even attempted.
	ErrInsufficientPool = errors.New("insufficient players in pool")

	// ErrInfeasible means budget, composition, and club limits cannot all
	// be satisfied by any combination in the pool.
	ErrInfeasible = errors.New("no feasible squad under constraints")

	// ErrInvalidConfiguration means the supplied constraint values are
	// internally inconsistent (formation bounds that cannot reach the
	// starting XI size, negative thresholds, and so on).
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
