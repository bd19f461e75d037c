package merge

import "errors"

var (
	// ErrInvalidTopN is returned when the shortlist size is not positive.
	ErrInvalidTopN = errors.New("top n must be positive")

	// ErrInvalidWeights is returned when a weight is negative or both are zero.
	ErrInvalidWeights = errors.New("weights must be non-negative and not both zero")
)
