// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/minnet/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a dense float64 array with a shape.
type Tensor = tensor.Tensor

// Matrix is a 2D Tensor.
type Matrix = tensor.Matrix

// Kernel is a square (2r+1)×(2r+1) correlation kernel with a scalar bias.
type Kernel = tensor.Kernel

// IndexError reports an out-of-range matrix index.
type IndexError = tensor.IndexError

// Errors returned by tensor operations. Compare with errors.Is.
var (
	ErrInvalidShape           = tensor.ErrInvalidShape
	ErrDataLength             = tensor.ErrDataLength
	ErrShapeMismatch          = tensor.ErrShapeMismatch
	ErrDimensionMismatch      = tensor.ErrDimensionMismatch
	ErrIndexOutOfRange        = tensor.ErrIndexOutOfRange
	ErrUnsupportedCardinality = tensor.ErrUnsupportedCardinality
)

// New creates a tensor with the given shape. A nil data slice gives zeros;
// otherwise data is adopted and must have exactly shape.NumElements() values.
func New(shape Shape, data []float64) (*Tensor, error) {
	return tensor.New(shape, data)
}

// MustNew is like New but panics on error.
func MustNew(shape Shape, data []float64) *Tensor {
	return tensor.MustNew(shape, data)
}

// Zeros creates a zero-filled tensor.
func Zeros(dims ...int) (*Tensor, error) {
	return tensor.Zeros(dims...)
}

// Clone returns a deep copy of t.
func Clone(t *Tensor) *Tensor {
	return tensor.Clone(t)
}

// NewMatrix creates a rows×cols matrix.
func NewMatrix(rows, cols int, data []float64) (*Matrix, error) {
	return tensor.NewMatrix(rows, cols, data)
}

// MustMatrix is like NewMatrix but panics on error.
func MustMatrix(rows, cols int, data []float64) *Matrix {
	return tensor.MustMatrix(rows, cols, data)
}

// FromTensor views a 1D or 2D tensor as a matrix; a 1D tensor becomes a column.
func FromTensor(t *Tensor) (*Matrix, error) {
	return tensor.FromTensor(t)
}

// FromDense copies a gonum matrix.
func FromDense(d mat.Matrix) *Matrix {
	return tensor.FromDense(d)
}

// Transposed returns a new matrix holding the transpose of a.
func Transposed(a *Matrix) *Matrix {
	return tensor.Transposed(a)
}

// Multiply returns the matrix product a·b.
//
// Example:
//
//	c, err := tensor.Multiply(a, b)
//	if errors.Is(err, tensor.ErrDimensionMismatch) { ... }
func Multiply(a, b *Matrix) (*Matrix, error) {
	return tensor.Multiply(a, b)
}

// NewKernel creates a kernel of the given radius with weights and bias drawn
// from [-1, 1). A nil rng uses the math/rand package source.
func NewKernel(radius int, rng *rand.Rand) (*Kernel, error) {
	return tensor.NewKernel(radius, rng)
}

// NewZeroKernel creates a zero kernel of the given radius.
func NewZeroKernel(radius int) (*Kernel, error) {
	return tensor.NewZeroKernel(radius)
}
