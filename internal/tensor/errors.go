package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidShape           = errors.New("invalid shape")
	ErrDataLength             = errors.New("data length does not match tensor size")
	ErrShapeMismatch          = errors.New("shape mismatch")
	ErrDimensionMismatch      = errors.New("dimension mismatch")
	ErrIndexOutOfRange        = errors.New("index out of range")
	ErrUnsupportedCardinality = errors.New("unsupported cardinality")
)

// IndexError reports an out-of-range matrix access on a single axis.
type IndexError struct {
	Axis  string // "row" or "col"
	Index int
	Size  int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("%s %d out of bounds [0, %d)", e.Axis, e.Index, e.Size)
}

// Unwrap makes IndexError match ErrIndexOutOfRange with errors.Is.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
