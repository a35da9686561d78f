package tensor

import (
	"fmt"
	"math/rand"
)

// Kernel is a square (2*radius+1) filter with a scalar bias.
type Kernel struct {
	*Matrix
	Bias   float64
	radius int
}

// NewKernel creates a kernel with weights and bias drawn uniformly from [-1, 1).
func NewKernel(radius int, rng *rand.Rand) (*Kernel, error) {
	k, err := NewZeroKernel(radius)
	if err != nil {
		return nil, err
	}
	k.Matrix.Randomize(rng, -1, 1, true, false)
	if rng != nil {
		k.Bias = rng.Float64()*2 - 1
	} else {
		//nolint:gosec // weight initialization is not security-critical
		k.Bias = rand.Float64()*2 - 1
	}
	return k, nil
}

// NewZeroKernel creates a kernel with zero weights and bias, as used for delta buffers.
func NewZeroKernel(radius int) (*Kernel, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: kernel radius must be >= 0, got %d", ErrInvalidShape, radius)
	}
	side := 2*radius + 1
	m, err := NewMatrix(side, side, nil)
	if err != nil {
		return nil, err
	}
	return &Kernel{Matrix: m, radius: radius}, nil
}

// Radius returns the kernel radius.
func (k *Kernel) Radius() int {
	return k.radius
}

// Pass correlates k over every depth slice of images ([depth, rows, cols]) and
// writes the results into slices [kernelIndex*depth, (kernelIndex+1)*depth) of
// processed. Taps falling outside the image are skipped, not zero-padded.
func (k *Kernel) Pass(images, processed *Tensor, kernelIndex int) error {
	if images.Cardinality() != 3 {
		return fmt.Errorf("%w: can only pass on 3d tensors, got shape %v", ErrShapeMismatch, images.shape)
	}
	depth, rows, cols := images.shape[0], images.shape[1], images.shape[2]
	if processed.Cardinality() != 3 || processed.shape[1] != rows || processed.shape[2] != cols ||
		kernelIndex < 0 || (kernelIndex+1)*depth > processed.shape[0] {
		return fmt.Errorf("%w: output %v can not hold kernel %d over input %v",
			ErrShapeMismatch, processed.shape, kernelIndex, images.shape)
	}

	side := 2*k.radius + 1
	imageSize := rows * cols
	base := kernelIndex * images.Size()
	for d := 0; d < depth; d++ {
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				sum := 0.0
				for yOff := -k.radius; yOff <= k.radius; yOff++ {
					y := row + yOff
					if y < 0 || y >= rows {
						continue
					}
					for xOff := -k.radius; xOff <= k.radius; xOff++ {
						x := col + xOff
						if x < 0 || x >= cols {
							continue
						}
						sum += k.data[(yOff+k.radius)*side+xOff+k.radius] * images.data[d*imageSize+y*cols+x]
					}
				}
				processed.data[base+d*imageSize+row*cols+col] = sum + k.Bias
			}
		}
	}
	return nil
}

// Add combines the weights and bias of k and other.
func (k *Kernel) Add(other *Kernel, inPlace bool) (*Kernel, error) {
	t, err := k.Tensor.Add(other.Tensor, inPlace)
	if err != nil {
		return nil, err
	}
	out := k
	if !inPlace {
		out = &Kernel{Matrix: &Matrix{Tensor: t}, radius: k.radius}
	}
	out.Bias = k.Bias + other.Bias
	return out, nil
}

// Zero resets weights and bias to 0.
func (k *Kernel) Zero() *Kernel {
	k.Tensor.Zero()
	k.Bias = 0
	return k
}
