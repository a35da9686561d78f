package serialization

import (
	"fmt"
	"strings"
)

// Validation limits for archives read from disk.
const (
	MaxEntries   = 100_000 // Maximum number of state dict entries
	MaxNameLen   = 4096    // Maximum entry name length
	checksumName = "__checksum__"
	npySuffix    = ".npy"
)

// ValidateName checks a state dict key before it becomes a zip entry name.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Err: ErrInvalidName, Details: "empty name"}
	case len(name) > MaxNameLen:
		return &ValidationError{
			Err:     ErrInvalidName,
			Name:    name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxNameLen),
		}
	case name == checksumName:
		return &ValidationError{Err: ErrInvalidName, Name: name, Details: "reserved name"}
	case strings.Contains(name, ".."):
		// Path traversal when the archive is extracted.
		return &ValidationError{Err: ErrInvalidName, Name: name, Details: "contains '..'"}
	case strings.ContainsAny(name, "/\\"):
		return &ValidationError{Err: ErrInvalidName, Name: name, Details: "contains path separator"}
	case strings.Contains(name, "\x00"):
		return &ValidationError{Err: ErrInvalidName, Name: name, Details: "contains null byte"}
	}
	return nil
}

// ValidateEntryCount rejects archives with more than MaxEntries entries.
func ValidateEntryCount(n int) error {
	if n > MaxEntries {
		return &ValidationError{
			Err:     ErrTooManyEntries,
			Details: fmt.Sprintf("got %d, max %d", n, MaxEntries),
		}
	}
	return nil
}
