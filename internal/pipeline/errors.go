package pipeline

import "errors"

// Error kinds returned by the per-file conversions. Callers match them with
// errors.Is; the underlying cause stays wrapped alongside.
var (
	ErrInputNotFound = errors.New("input not found")
	ErrInputParse    = errors.New("input could not be parsed")
	ErrOutputWrite   = errors.New("output could not be written")

	// ErrBatchLocked is returned when another run holds the output
	// directory's lock.
	ErrBatchLocked = errors.New("output directory is locked by another run")
)
