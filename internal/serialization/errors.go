package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch = errors.New("checksum mismatch: file may be corrupted")
	ErrMissingChecksum  = errors.New("archive has no checksum entry")
	ErrTooManyEntries   = errors.New("too many entries in archive")
	ErrInvalidName      = errors.New("invalid entry name")
	ErrNotMatrix        = errors.New("entry is not a 2D float64 array")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Err     error  // Sentinel describing the failure
	Name    string // Entry involved, if any
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%v: entry %q: %s", e.Err, e.Name, e.Details)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Details)
}

// Unwrap returns the sentinel so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
