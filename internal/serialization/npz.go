package serialization

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/minnet/internal/nn"
	"github.com/born-ml/minnet/internal/tensor"
)

// WriteNPZ writes a state dict to w as an .npz archive.
func WriteNPZ(w io.Writer, state map[string]*tensor.Matrix) error {
	zw := npz.NewWriter(w)
	if err := writeState(zw, state); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// ReadNPZ reads a state dict written by WriteNPZ and verifies its checksum.
func ReadNPZ(r io.ReaderAt, size int64) (map[string]*tensor.Matrix, error) {
	zr, err := npz.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("while opening archive: %w", err)
	}
	return readState(zr)
}

// Save writes model's state dict to the .npz file at path.
func Save(path string, model nn.Stateful) error {
	w, err := npz.Create(path)
	if err != nil {
		return fmt.Errorf("while creating %s: %w", path, err)
	}
	if err := writeState(w, model.StateDict()); err != nil {
		_ = w.Close()
		return fmt.Errorf("while saving %s: %w", path, err)
	}
	// Close writes the zip directory.
	if err := w.Close(); err != nil {
		return fmt.Errorf("while closing %s: %w", path, err)
	}
	return nil
}

// Load reads the .npz file at path and loads it into model.
func Load(path string, model nn.Stateful) error {
	r, err := npz.Open(path)
	if err != nil {
		return fmt.Errorf("while opening %s: %w", path, err)
	}
	defer r.Close()

	state, err := readState(r)
	if err != nil {
		return fmt.Errorf("while reading %s: %w", path, err)
	}
	if err := model.LoadStateDict(state); err != nil {
		return fmt.Errorf("while loading %s: %w", path, err)
	}
	return nil
}

func writeState(w *npz.Writer, state map[string]*tensor.Matrix) error {
	if err := ValidateEntryCount(len(state)); err != nil {
		return err
	}
	names := make([]string, 0, len(state))
	for name := range state {
		if err := ValidateName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.Write(name+npySuffix, state[name].AsDense()); err != nil {
			return fmt.Errorf("while writing %s: %w", name, err)
		}
	}
	sum := ComputeChecksum(state)
	if err := w.Write(checksumName+npySuffix, sum[:]); err != nil {
		return fmt.Errorf("while writing checksum: %w", err)
	}
	return nil
}

func readState(r *npz.Reader) (map[string]*tensor.Matrix, error) {
	keys := r.Keys()
	if err := ValidateEntryCount(len(keys)); err != nil {
		return nil, err
	}

	state := make(map[string]*tensor.Matrix, len(keys))
	var stored []uint8
	haveChecksum := false
	for _, key := range keys {
		name := strings.TrimSuffix(key, npySuffix)
		if name == checksumName {
			if err := r.Read(key, &stored); err != nil {
				return nil, fmt.Errorf("while reading checksum: %w", err)
			}
			haveChecksum = true
			continue
		}
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		m, err := readMatrix(r, key)
		if err != nil {
			return nil, err
		}
		state[name] = m
	}

	if !haveChecksum {
		return nil, ErrMissingChecksum
	}
	if len(stored) != 32 {
		return nil, fmt.Errorf("%w: checksum has %d bytes", ErrChecksumMismatch, len(stored))
	}
	var want [32]byte
	copy(want[:], stored)
	if err := ValidateChecksum(ComputeChecksum(state), want); err != nil {
		return nil, err
	}
	return state, nil
}

func readMatrix(r *npz.Reader, key string) (*tensor.Matrix, error) {
	header := r.Header(key)
	if header == nil {
		return nil, &ValidationError{Err: ErrNotMatrix, Name: key, Details: "no header"}
	}
	shape := header.Descr.Shape
	if len(shape) != 2 || shape[0] <= 0 || shape[1] <= 0 {
		return nil, &ValidationError{Err: ErrNotMatrix, Name: key, Details: fmt.Sprintf("shape %v", shape)}
	}

	var raw []float64
	if err := r.Read(key, &raw); err != nil {
		return nil, fmt.Errorf("while reading %s: %w", key, err)
	}
	rows, cols := shape[0], shape[1]
	if len(raw) != rows*cols {
		return nil, &ValidationError{
			Err:     ErrNotMatrix,
			Name:    key,
			Details: fmt.Sprintf("%d values for shape %v", len(raw), shape),
		}
	}

	if header.Descr.Fortran {
		// Column-major on disk: read as the transpose and copy out row-major.
		return tensor.FromDense(mat.NewDense(cols, rows, raw).T()), nil
	}
	return tensor.NewMatrix(rows, cols, raw)
}
