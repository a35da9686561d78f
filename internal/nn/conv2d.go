package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/minnet/internal/parallel"
	"github.com/born-ml/minnet/internal/tensor"
)

// Conv2DConfig holds configuration for a Conv2D layer.
type Conv2DConfig struct {
	NumKernels   int        // Number of independent kernels (must be >= 1)
	KernelRadius int        // Kernel side is 2*radius+1 (must be >= 0)
	LearningRate float64    // Scale applied to deltas (default: 0.1)
	Activation   Activation // Applied to every output pixel (default: Sigmoid)
	Rand         *rand.Rand // Source for kernel initialization (default: math/rand)
	Workers      int        // Kernels passed concurrently in Feedforward (default: 1, negative: one per CPU)
	TrainBias    bool       // Accumulate bias deltas in Backpropagate (default: biases stay fixed)
}

// Conv2D is a multi-kernel 2D correlation layer.
//
// Input shape:  [depth, rows, cols]
// Output shape: [depth*numKernels, rows, cols]
//
// Each kernel correlates over every depth slice independently; the outputs of
// kernel i occupy slices [i*depth, (i+1)*depth). Taps outside the image are
// skipped, so the spatial size is preserved without padding.
type Conv2D struct {
	Base
	lr           float64
	act          Activation
	trainBias    bool
	kernels      []*tensor.Kernel
	kernelDeltas []*tensor.Kernel
	workers      parallel.Config

	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewConv2D creates a Conv2D layer with random kernels and zeroed deltas.
func NewConv2D(config Conv2DConfig) (*Conv2D, error) {
	if config.NumKernels < 1 {
		return nil, fmt.Errorf("%w: conv2d needs at least one kernel, got %d", tensor.ErrInvalidShape, config.NumKernels)
	}

	c := &Conv2D{
		Base:      NewBase(3, 3),
		lr:        learningRateOrDefault(config.LearningRate),
		act:       activationOrDefault(config.Activation),
		workers:   parallel.Workers(config.Workers),
		trainBias: config.TrainBias,
	}
	for i := 0; i < config.NumKernels; i++ {
		k, err := tensor.NewKernel(config.KernelRadius, config.Rand)
		if err != nil {
			return nil, fmt.Errorf("conv2d: %w", err)
		}
		kd, err := tensor.NewZeroKernel(config.KernelRadius)
		if err != nil {
			return nil, fmt.Errorf("conv2d: %w", err)
		}
		c.kernels = append(c.kernels, k)
		c.kernelDeltas = append(c.kernelDeltas, kd)
	}
	return c, nil
}

// Feedforward correlates every kernel over the input and applies the activation.
// Kernels write disjoint output slices, so with Workers > 1 they run concurrently.
func (c *Conv2D) Feedforward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if err := c.Accepts(input); err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}
	shape := input.Shape()
	output, err := tensor.Zeros(shape[0]*len(c.kernels), shape[1], shape[2])
	if err != nil {
		return nil, err
	}
	err = parallel.For(len(c.kernels), func(i int) error {
		if err := c.kernels[i].Pass(input, output, i); err != nil {
			return fmt.Errorf("kernel %d: %w", i, err)
		}
		return nil
	}, c.workers)
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}
	output.Map(c.act.Fn, true)

	c.input = tensor.Clone(input)
	c.output = output
	return output, nil
}

// Backpropagate accumulates kernel and bias deltas for every output pixel.
//
// The local error of a pixel is the activation derivative of its cached
// output times the incoming error. Each in-bounds tap adds
// pixelErr*input*lr/imageSize to the kernel delta and kernel*pixelErr*lr/imageSize
// to the input error. The input error is skipped (nil) when full is false.
// Bias deltas accumulate pixelErr*lr/imageSize only when TrainBias is set.
func (c *Conv2D) Backpropagate(errT *tensor.Tensor, full bool) (*tensor.Tensor, error) {
	if err := c.AcceptsError(errT); err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}
	if c.input == nil {
		return nil, fmt.Errorf("conv2d: %w", ErrNotFed)
	}
	if !errT.MatchesSignature(c.output) {
		return nil, fmt.Errorf("conv2d: %w: error %v does not match output %v",
			tensor.ErrShapeMismatch, errT.Shape(), c.output.Shape())
	}

	shape := c.input.Shape()
	depth, rows, cols := shape[0], shape[1], shape[2]
	imageSize := float64(rows * cols)
	inputSize := c.input.Size()
	in := c.input.Data()
	out := c.output.Data()
	errs := errT.Data()

	var inputErr *tensor.Tensor
	if full {
		inputErr = tensor.MustNew(shape, nil)
	}

	for image := 0; image < depth; image++ {
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				index := image*rows*cols + row*cols + col

				for kIdx, k := range c.kernels {
					kd := c.kernelDeltas[kIdx]
					kData, kdData := k.Data(), kd.Data()
					r, side := k.Radius(), k.Cols()

					at := kIdx*inputSize + index
					pixelErr := c.act.Dfn(out[at]) * errs[at]
					if c.trainBias {
						kd.Bias += pixelErr * c.lr / imageSize
					}

					for yOff := -r; yOff <= r; yOff++ {
						y := row + yOff
						if y < 0 || y >= rows {
							continue
						}
						for xOff := -r; xOff <= r; xOff++ {
							x := col + xOff
							if x < 0 || x >= cols {
								continue
							}
							kAt := (yOff+r)*side + xOff + r
							inputIndex := image*rows*cols + y*cols + x
							kdData[kAt] += pixelErr * in[inputIndex] * c.lr / imageSize
							if full {
								inputErr.Data()[inputIndex] += kData[kAt] * pixelErr * c.lr / imageSize
							}
						}
					}
				}
			}
		}
	}

	return inputErr, nil
}

// ApplyDeltas adds the kernel deltas (including bias) into the kernels and zeroes them.
func (c *Conv2D) ApplyDeltas() {
	for i, k := range c.kernels {
		_, _ = k.Add(c.kernelDeltas[i], true)
		c.kernelDeltas[i].Zero()
	}
}

// Kernels returns the layer's kernels (not copies).
func (c *Conv2D) Kernels() []*tensor.Kernel {
	return c.kernels
}

// KernelDeltas returns the accumulated kernel deltas.
func (c *Conv2D) KernelDeltas() []*tensor.Kernel {
	return c.kernelDeltas
}

// SetKernels replaces the kernels. The count and radii must match the layer.
func (c *Conv2D) SetKernels(kernels []*tensor.Kernel) error {
	if len(kernels) != len(c.kernels) {
		return fmt.Errorf("conv2d: %w: expected %d kernels, got %d", tensor.ErrShapeMismatch, len(c.kernels), len(kernels))
	}
	for i, k := range kernels {
		if k == nil || k.Radius() != c.kernels[i].Radius() {
			return fmt.Errorf("conv2d: %w: kernel %d must have radius %d", tensor.ErrShapeMismatch, i, c.kernels[i].Radius())
		}
	}
	copy(c.kernels, kernels)
	return nil
}

// LearningRate returns the delta scale.
func (c *Conv2D) LearningRate() float64 {
	return c.lr
}

// StateDict returns kernels keyed "kernel.<i>" and their biases as 1x1
// matrices keyed "kernel.<i>.bias".
func (c *Conv2D) StateDict() map[string]*tensor.Matrix {
	state := make(map[string]*tensor.Matrix, 2*len(c.kernels))
	for i, k := range c.kernels {
		state[fmt.Sprintf("kernel.%d", i)] = k.Matrix
		state[fmt.Sprintf("kernel.%d.bias", i)] = tensor.MustMatrix(1, 1, []float64{k.Bias})
	}
	return state
}

// LoadStateDict copies kernels and biases from a state dict produced by StateDict.
func (c *Conv2D) LoadStateDict(state map[string]*tensor.Matrix) error {
	for i, k := range c.kernels {
		w, ok := state[fmt.Sprintf("kernel.%d", i)]
		if !ok {
			return fmt.Errorf("conv2d: %w: kernel.%d", ErrMissingParameter, i)
		}
		b, ok := state[fmt.Sprintf("kernel.%d.bias", i)]
		if !ok {
			return fmt.Errorf("conv2d: %w: kernel.%d.bias", ErrMissingParameter, i)
		}
		if !w.MatchesSignature(k.Tensor) || b.Size() != 1 {
			return fmt.Errorf("conv2d: %w: kernel %d", tensor.ErrShapeMismatch, i)
		}
	}
	for i, k := range c.kernels {
		copy(k.Data(), state[fmt.Sprintf("kernel.%d", i)].Data())
		k.Bias = state[fmt.Sprintf("kernel.%d.bias", i)].Data()[0]
	}
	return nil
}
