// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and the training protocol.
//
// # Overview
//
// This package contains:
//   - Layers: Dense, Conv2D, Flatten
//   - Composition: Composite, Emitter, Receiver
//   - Activations: Sigmoid, ReLU, Tanh, Identity
//   - Loss functions: SquaredError
//   - Training: Train, BatchTrain, Evaluate
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/minnet/nn"
//	    "github.com/born-ml/minnet/tensor"
//	)
//
//	func main() {
//	    dense, err := nn.NewDense([]int{2, 3, 1}, nn.DenseConfig{LearningRate: 0.5})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    x := tensor.MustMatrix(2, 1, []float64{0, 1}).Tensor
//	    y := tensor.MustMatrix(1, 1, []float64{1}).Tensor
//	    cost, err := nn.Train(dense, x, y, true)
//	}
//
// # Deltas
//
// Backpropagate only accumulates deltas; ApplyDeltas commits them. Train
// with applyDeltas false followed by a single ApplyDeltas gives mini-batch
// gradient descent, which is what BatchTrain does.
//
// # Pipelines
//
// Build convolutional models by composing layers:
//
//	conv, _ := nn.NewConv2D(nn.Conv2DConfig{NumKernels: 4, KernelRadius: 1})
//	flat, _ := nn.NewFlatten(tensor.Shape{4, 8, 8})
//	dense, _ := nn.NewDense([]int{256, 16, 1}, nn.DenseConfig{})
//	model, err := nn.NewComposite(conv, flat, dense)
//
// # Shared Models
//
// An Emitter lets several Receivers train one shared model jointly. Every
// feedforward through the emitter reaches all receivers:
//
//	shared := nn.NewEmitter(base)
//	and, _ := nn.NewReceiver(andHead, shared)
//	or, _ := nn.NewReceiver(orHead, shared)
package nn
