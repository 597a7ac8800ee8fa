package models

import "errors"

// Custom errors
var (
	// ErrInsufficientData indicates an empty observation series. The
	// candidate is skipped; batches are never aborted for this.
	ErrInsufficientData = errors.New("insufficient data: observation series is empty")

	// ErrDegenerateInput indicates a zero or negative value where a
	// division is required (exposure fraction, distribution mean).
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrInvalidOdds indicates a quoted price at or below 1.0.
	ErrInvalidOdds = errors.New("invalid odds: price must be greater than 1.0")

	// ErrConfiguration indicates a missing or non-monotonic threshold
	// table. Fatal at engine construction, never per candidate.
	ErrConfiguration = errors.New("invalid engine configuration")

	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
)
