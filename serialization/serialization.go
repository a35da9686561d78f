// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package serialization saves and loads model checkpoints as NumPy .npz archives.
//
// Example:
//
//	if err := serialization.Save("model.npz", model); err != nil {
//	    log.Fatal(err)
//	}
//	if err := serialization.Load("model.npz", model); err != nil {
//	    log.Fatal(err)
//	}
package serialization

import (
	"io"

	"github.com/born-ml/minnet/internal/nn"
	"github.com/born-ml/minnet/internal/serialization"
	"github.com/born-ml/minnet/internal/tensor"
)

// Errors returned when reading or writing archives. Compare with errors.Is.
var (
	ErrChecksumMismatch = serialization.ErrChecksumMismatch
	ErrMissingChecksum  = serialization.ErrMissingChecksum
	ErrTooManyEntries   = serialization.ErrTooManyEntries
	ErrInvalidName      = serialization.ErrInvalidName
	ErrNotMatrix        = serialization.ErrNotMatrix
)

// ValidationError provides detailed information about validation failures.
type ValidationError = serialization.ValidationError

// WriteNPZ writes a state dict to w as an .npz archive.
func WriteNPZ(w io.Writer, state map[string]*tensor.Matrix) error {
	return serialization.WriteNPZ(w, state)
}

// ReadNPZ reads a state dict written by WriteNPZ and verifies its checksum.
func ReadNPZ(r io.ReaderAt, size int64) (map[string]*tensor.Matrix, error) {
	return serialization.ReadNPZ(r, size)
}

// Save writes model's state dict to the .npz file at path.
func Save(path string, model nn.Stateful) error {
	return serialization.Save(path, model)
}

// Load reads the .npz file at path into model.
func Load(path string, model nn.Stateful) error {
	return serialization.Load(path, model)
}
