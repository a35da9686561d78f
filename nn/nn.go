// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/minnet/internal/nn"
	"github.com/born-ml/minnet/internal/tensor"
)

// Layer is the contract implemented by every layer.
type Layer = nn.Layer

// Base carries the dimensions and cost common to all layers.
type Base = nn.Base

// NewBase returns a Base with the given input and output cardinalities.
func NewBase(inputDim, outputDim int) Base {
	return nn.NewBase(inputDim, outputDim)
}

// Stateful is implemented by layers whose parameters can be exported and restored.
type Stateful = nn.Stateful

// Errors returned by layers. Compare with errors.Is.
var (
	ErrLengthMismatch   = nn.ErrLengthMismatch
	ErrNotFed           = nn.ErrNotFed
	ErrMissingParameter = nn.ErrMissingParameter
)

// Activations

// Activation is an elementwise function paired with its derivative, which is
// evaluated on the forward output.
type Activation = nn.Activation

// Built-in activations.
var (
	Sigmoid  = nn.Sigmoid
	ReLU     = nn.ReLU
	Tanh     = nn.Tanh
	Identity = nn.Identity
)

// Loss is a per-element loss paired with its derivative.
type Loss = nn.Loss

// SquaredError is (expected - result)² / 2.
var SquaredError = nn.SquaredError

// DefaultLearningRate is used when a config leaves LearningRate at zero.
const DefaultLearningRate = nn.DefaultLearningRate

// Layers

// Dense is a fully connected multi-stage layer.
type Dense = nn.Dense

// DenseConfig holds configuration for a Dense layer.
type DenseConfig = nn.DenseConfig

// NewDense creates a Dense layer for the given stage widths.
//
// Example:
//
//	dense, err := nn.NewDense([]int{2, 3, 1}, nn.DenseConfig{LearningRate: 0.5})
func NewDense(structure []int, config DenseConfig) (*Dense, error) {
	return nn.NewDense(structure, config)
}

// Conv2D is a multi-kernel 2D correlation layer.
type Conv2D = nn.Conv2D

// Conv2DConfig holds configuration for a Conv2D layer.
type Conv2DConfig = nn.Conv2DConfig

// NewConv2D creates a Conv2D layer.
//
// Example:
//
//	conv, err := nn.NewConv2D(nn.Conv2DConfig{NumKernels: 4, KernelRadius: 1})
func NewConv2D(config Conv2DConfig) (*Conv2D, error) {
	return nn.NewConv2D(config)
}

// Flatten reshapes [depth, rows, cols] tensors into columns and back.
type Flatten = nn.Flatten

// NewFlatten creates a Flatten layer for inputs of the given 3D signature.
func NewFlatten(signature tensor.Shape) (*Flatten, error) {
	return nn.NewFlatten(signature)
}

// Composition

// Composite is a sequential pipeline of layers.
type Composite = nn.Composite

// NewComposite creates a Composite from layers, checking that adjacent
// dimensions agree.
func NewComposite(layers ...Layer) (*Composite, error) {
	return nn.NewComposite(layers...)
}

// Emitter wraps a model shared by several Receivers.
type Emitter = nn.Emitter

// NewEmitter wraps model.
func NewEmitter(model Layer) *Emitter {
	return nn.NewEmitter(model)
}

// Receiver attaches its own model to an Emitter's output.
type Receiver = nn.Receiver

// NewReceiver wraps model and subscribes it to emitter.
func NewReceiver(model Layer, emitter *Emitter) (*Receiver, error) {
	return nn.NewReceiver(model, emitter)
}

// Training

// Train runs one sample through l, backpropagates its error and returns the cost.
func Train(l Layer, input, expected *tensor.Tensor, applyDeltas bool) (float64, error) {
	return nn.Train(l, input, expected, applyDeltas)
}

// BatchTrain trains l on every sample and applies the summed deltas once.
func BatchTrain(l Layer, inputs, expecteds []*tensor.Tensor) (float64, error) {
	return nn.BatchTrain(l, inputs, expecteds)
}

// Evaluate returns the average loss of l over the samples without training.
func Evaluate(l Layer, inputs, expecteds []*tensor.Tensor, loss Loss) (float64, error) {
	return nn.Evaluate(l, inputs, expecteds, loss)
}
