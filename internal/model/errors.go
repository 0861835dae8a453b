package model

import "errors"

// Error kinds, all fatal for the current assignment request. Callers
// classify with errors.Is; messages carry the offending detail.
var (
	// ErrInvalidInput covers structural problems in the submitted program:
	// missing fields, empty names, unknown positions, inconsistent targets.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidIdentifier is returned when an identifier body does not
	// match the ULID pattern.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInfeasible is returned when no partition of a session roster can
	// satisfy the declared group count and size bounds.
	ErrInfeasible = errors.New("infeasible session")
)
