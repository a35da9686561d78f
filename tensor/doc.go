// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 arrays used by minnet layers.
//
// # Overview
//
// Tensors are the fundamental data structure of minnet. This package provides:
//   - Tensor: an N-dimensional float64 array in row-major order
//   - Matrix: a 2D Tensor with transposition and multiplication
//   - Kernel: a square correlation kernel with a scalar bias
//
// # Basic Usage
//
//	import "github.com/born-ml/minnet/tensor"
//
//	func main() {
//	    x := tensor.MustNew(tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
//	    y := tensor.MustNew(tensor.Shape{2, 3}, nil) // zeros
//
//	    z, err := x.Add(y, false) // new tensor
//	    _, err = x.Add(y, true)   // x += y
//	}
//
// # In-place Operations
//
// Every elementwise operation takes an inPlace flag. With inPlace set the
// receiver is overwritten and returned; otherwise a new tensor is allocated.
// Shapes are checked before anything is written, so a failed in-place call
// leaves the receiver untouched.
//
// # Matrices
//
//	a := tensor.MustMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
//	a.Transpose()                 // in place, now 3×2
//	b := tensor.Transposed(a)     // copy, 2×3
//	c, err := tensor.Multiply(a, b)
//
// Matrices convert to and from gonum with AsDense and FromDense.
//
// # Kernels
//
// Kernel.Pass correlates a kernel over every depth slice of a
// [depth, rows, cols] tensor. Taps that fall outside an image are skipped, so
// the output keeps the input's spatial size.
package tensor
