package distmat

import "errors"

// Errors are grouped by kind. Every message starts with "distmat:"; callers
// match with errors.Is since most are wrapped with the offending labels.
var (
	// ErrInvalidLabel is returned for an empty label.
	ErrInvalidLabel = errors.New("distmat: label must not be empty")

	// ErrInvalidDistance is returned for negative, NaN or infinite distances.
	ErrInvalidDistance = errors.New("distmat: distance must be a finite non-negative number")

	// ErrNonZeroDiagonal is returned when a label's distance to itself is set
	// to anything but zero.
	ErrNonZeroDiagonal = errors.New("distmat: self distance must be zero")

	// ErrConflict is returned by FromMap when both orientations of a pair are
	// given with different values.
	ErrConflict = errors.New("distmat: conflicting distances for pair")

	// ErrUnknownLabel is returned when a label is not in the matrix.
	ErrUnknownLabel = errors.New("distmat: unknown label")

	// ErrUnset is returned when reading a pair whose distance was never set.
	ErrUnset = errors.New("distmat: distance not set")
)
