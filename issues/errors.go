package issues

import "errors"

var (
	// ErrNoSnapshot is returned by Latest when a directory holds no snapshot file.
	ErrNoSnapshot = errors.New("no issue snapshot found")

	// ErrInvalidSnapshot is returned when a snapshot file cannot be decoded
	// or contains an invalid issue.
	ErrInvalidSnapshot = errors.New("invalid issue snapshot")
)
