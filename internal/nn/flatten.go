package nn

import (
	"fmt"

	"github.com/born-ml/minnet/internal/tensor"
)

// Flatten reshapes a [depth, rows, cols] tensor into a column matrix and back.
// It has no parameters.
//
// This is useful for connecting Conv2D layers to Dense layers.
type Flatten struct {
	Base
	signature tensor.Shape
}

// NewFlatten creates a Flatten layer for inputs of the given 3D signature.
func NewFlatten(signature tensor.Shape) (*Flatten, error) {
	if err := signature.Validate(); err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	if len(signature) != 3 {
		return nil, fmt.Errorf("flatten: %w: signature must be 3 dimensional, got %v", tensor.ErrInvalidShape, signature)
	}
	return &Flatten{Base: NewBase(3, 2), signature: signature.Clone()}, nil
}

// Feedforward returns the input as a [size, 1] column sharing its storage.
func (f *Flatten) Feedforward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if err := f.Accepts(input); err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	if !input.Shape().Equal(f.signature) {
		return nil, fmt.Errorf("flatten: %w: expected %v, got %v", tensor.ErrShapeMismatch, f.signature, input.Shape())
	}
	return input.Reshape(tensor.Shape{input.Size(), 1})
}

// Backpropagate reshapes a 2D error back into the input signature.
func (f *Flatten) Backpropagate(errT *tensor.Tensor, _ bool) (*tensor.Tensor, error) {
	if err := f.AcceptsError(errT); err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	out, err := errT.Reshape(f.signature)
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	return out, nil
}

// ApplyDeltas is a no-op.
func (f *Flatten) ApplyDeltas() {}

// Signature returns the 3D input shape.
func (f *Flatten) Signature() tensor.Shape {
	return f.signature.Clone()
}

// StateDict returns an empty state dict.
func (f *Flatten) StateDict() map[string]*tensor.Matrix {
	return map[string]*tensor.Matrix{}
}

// LoadStateDict accepts any state dict; Flatten has nothing to load.
func (f *Flatten) LoadStateDict(map[string]*tensor.Matrix) error {
	return nil
}
