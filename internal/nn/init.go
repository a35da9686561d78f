package nn

import (
	"math/rand"

	"github.com/born-ml/minnet/internal/tensor"
)

// Default hyperparameters applied to zero-valued config fields.
const (
	DefaultLearningRate = 0.1
)

// Uniform creates a rows x cols matrix with values drawn from [low, high).
//
// A nil rng uses the math/rand package source.
func Uniform(rows, cols int, low, high float64, rng *rand.Rand) (*tensor.Matrix, error) {
	m, err := tensor.NewMatrix(rows, cols, nil)
	if err != nil {
		return nil, err
	}
	return m.Randomize(rng, low, high, true, false), nil
}

// Zeros creates a zero-filled rows x cols matrix, used for delta buffers.
func Zeros(rows, cols int) (*tensor.Matrix, error) {
	return tensor.NewMatrix(rows, cols, nil)
}

func learningRateOrDefault(lr float64) float64 {
	if lr == 0 {
		return DefaultLearningRate
	}
	return lr
}

func activationOrDefault(a Activation) Activation {
	if a.isZero() {
		return Sigmoid
	}
	return a
}
