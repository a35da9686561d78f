// Package tensor implements the dense float64 arrays used by the layers:
// n-dimensional tensors, 2D matrices and convolution kernels.
package tensor

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Tensor is an n-dimensional array of float64 stored flat in row-major order.
//
// Elementwise operations take an explicit inPlace flag: when true the receiver
// is overwritten and returned, otherwise a new tensor of the same shape is
// allocated. Callers are responsible for tracking which handles share storage.
type Tensor struct {
	shape Shape
	data  []float64
}

// New creates a tensor with the given shape.
//
// If data is nil the tensor is zero-filled. Otherwise data must hold exactly
// shape.NumElements() values and is adopted as the tensor's storage (not copied).
//
// Example:
//
//	t, err := tensor.New(tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
func New(shape Shape, data []float64) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	size := shape.NumElements()
	if data == nil {
		data = make([]float64, size)
	} else if len(data) != size {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d", ErrDataLength, shape, size, len(data))
	}
	return &Tensor{shape: shape.Clone(), data: data}, nil
}

// MustNew is like New but panics on error. Intended for literals in tests and demos.
func MustNew(shape Shape, data []float64) *Tensor {
	t, err := New(shape, data)
	if err != nil {
		panic(err)
	}
	return t
}

// Zeros creates a zero-filled tensor with the given dimensions.
func Zeros(dims ...int) (*Tensor, error) {
	return New(Shape(dims), nil)
}

// Clone returns a deep copy of t.
func Clone(t *Tensor) *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: t.shape.Clone(), data: data}
}

// Shape returns the tensor's dimensions. The returned slice must not be modified.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Cardinality returns the number of axes.
func (t *Tensor) Cardinality() int {
	return len(t.shape)
}

// Size returns the total number of elements.
func (t *Tensor) Size() int {
	return len(t.data)
}

// Data returns the underlying storage (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// MatchesSignature reports whether t and other have identical dimensions.
func (t *Tensor) MatchesSignature(other *Tensor) bool {
	return t.shape.Equal(other.shape)
}

// Operation applies fn(a, b) to every pair of corresponding elements.
//
// Shapes are validated before anything is written, so a failing call never
// leaves a partially updated receiver.
func (t *Tensor) Operation(other *Tensor, fn func(a, b float64) float64, inPlace bool) (*Tensor, error) {
	if !t.MatchesSignature(other) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, t.shape, other.shape)
	}

	out := t.target(inPlace)
	for i, a := range t.data {
		out.data[i] = fn(a, other.data[i])
	}
	return out, nil
}

// Add returns t + other.
func (t *Tensor) Add(other *Tensor, inPlace bool) (*Tensor, error) {
	return t.Operation(other, func(a, b float64) float64 { return a + b }, inPlace)
}

// Subtract returns t - other.
func (t *Tensor) Subtract(other *Tensor, inPlace bool) (*Tensor, error) {
	return t.Operation(other, func(a, b float64) float64 { return a - b }, inPlace)
}

// PiecewiseMultiply returns the Hadamard product of t and other.
func (t *Tensor) PiecewiseMultiply(other *Tensor, inPlace bool) (*Tensor, error) {
	return t.Operation(other, func(a, b float64) float64 { return a * b }, inPlace)
}

// Map applies fn to every element.
func (t *Tensor) Map(fn func(x float64) float64, inPlace bool) *Tensor {
	out := t.target(inPlace)
	for i, x := range t.data {
		out.data[i] = fn(x)
	}
	return out
}

// Randomize fills a tensor with values drawn uniformly from [low, high),
// optionally floored to integers. A nil rng uses the math/rand package source.
func (t *Tensor) Randomize(rng *rand.Rand, low, high float64, inPlace, floor bool) *Tensor {
	next := rand.Float64
	if rng != nil {
		next = rng.Float64
	}
	return t.Map(func(float64) float64 {
		//nolint:gosec // weight initialization is not security-critical
		x := next()*(high-low) + low
		if floor {
			return math.Floor(x)
		}
		return x
	}, inPlace)
}

// Zero sets every element to 0 in place.
func (t *Tensor) Zero() *Tensor {
	clear(t.data)
	return t
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float64 {
	return floats.Sum(t.data)
}

// Reshape returns a tensor with a new shape sharing t's storage.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(t.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v into %v", ErrShapeMismatch, t.shape, shape)
	}
	return &Tensor{shape: shape.Clone(), data: t.data}, nil
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v%v", []int(t.shape), t.data)
}

func (t *Tensor) target(inPlace bool) *Tensor {
	if inPlace {
		return t
	}
	return &Tensor{shape: t.shape.Clone(), data: make([]float64, len(t.data))}
}
