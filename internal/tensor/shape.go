package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (at least one axis, all dimensions > 0).
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: tensor can not be 0 dimensional", ErrInvalidShape)
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("%w: dimension at index %d is %d (must be > 0)", ErrInvalidShape, i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}
