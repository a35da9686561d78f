package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/minnet/internal/tensor"
)

// DenseConfig holds configuration for a Dense layer.
type DenseConfig struct {
	LearningRate float64    // Scale applied to deltas (default: 0.1)
	Activation   Activation // Applied after every stage (default: Sigmoid)
	Rand         *rand.Rand // Source for weight initialization (default: math/rand)
}

// Dense is a fully connected multi-stage layer.
//
// For a structure {n0, n1, ..., nk} it holds one weight matrix [n(i+1), n(i)]
// and one bias column [n(i+1), 1] per stage and computes
//
//	layer[i+1] = act(W[i]·layer[i] + B[i])
//
// Inputs and errors are column matrices (cardinality 2).
//
// Example:
//
//	dense, err := nn.NewDense([]int{2, 3, 1}, nn.DenseConfig{LearningRate: 0.5})
//	out, err := dense.Feedforward(tensor.MustMatrix(2, 1, []float64{0, 1}).Tensor)
type Dense struct {
	Base
	structure []int
	lr        float64
	act       Activation

	layers       []*tensor.Matrix // cached stage outputs, layers[0] is the input
	weights      []*tensor.Matrix
	biases       []*tensor.Matrix
	weightDeltas []*tensor.Matrix
	biasDeltas   []*tensor.Matrix
	fed          bool
}

// NewDense creates a Dense layer with weights and biases drawn from [0, 1)
// and zeroed deltas.
func NewDense(structure []int, config DenseConfig) (*Dense, error) {
	if len(structure) == 0 {
		return nil, fmt.Errorf("%w: dense structure must have at least one stage", tensor.ErrInvalidShape)
	}
	for i, n := range structure {
		if n <= 0 {
			return nil, fmt.Errorf("%w: dense stage %d has width %d", tensor.ErrInvalidShape, i, n)
		}
	}

	d := &Dense{
		Base:      NewBase(2, 2),
		structure: append([]int(nil), structure...),
		lr:        learningRateOrDefault(config.LearningRate),
		act:       activationOrDefault(config.Activation),
		layers:    make([]*tensor.Matrix, len(structure)),
	}

	for i := 1; i < len(structure); i++ {
		w, err := Uniform(structure[i], structure[i-1], 0, 1, config.Rand)
		if err != nil {
			return nil, err
		}
		b, err := Uniform(structure[i], 1, 0, 1, config.Rand)
		if err != nil {
			return nil, err
		}
		dw, _ := Zeros(structure[i], structure[i-1])
		db, _ := Zeros(structure[i], 1)

		d.weights = append(d.weights, w)
		d.biases = append(d.biases, b)
		d.weightDeltas = append(d.weightDeltas, dw)
		d.biasDeltas = append(d.biasDeltas, db)
	}

	return d, nil
}

// Feedforward runs a column input through every stage.
func (d *Dense) Feedforward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if err := d.Accepts(input); err != nil {
		return nil, fmt.Errorf("dense: %w", err)
	}
	in, err := tensor.FromTensor(tensor.Clone(input))
	if err != nil {
		return nil, err
	}
	if in.Cols() != 1 || in.Rows() != d.structure[0] {
		return nil, fmt.Errorf("dense: %w: input must be a [%d, 1] column, got %v",
			tensor.ErrShapeMismatch, d.structure[0], input.Shape())
	}

	d.layers[0] = in
	for i, w := range d.weights {
		next, err := tensor.Multiply(w, d.layers[i])
		if err != nil {
			return nil, fmt.Errorf("dense: stage %d: %w", i, err)
		}
		if _, err := next.Add(d.biases[i].Tensor, true); err != nil {
			return nil, fmt.Errorf("dense: stage %d: %w", i, err)
		}
		next.Map(d.act.Fn, true)
		d.layers[i+1] = next
	}
	d.fed = true

	return d.layers[len(d.layers)-1].Tensor, nil
}

// Backpropagate walks the stages in reverse, accumulating weight and bias deltas.
//
// At each stage the error is multiplied by the activation derivative of the
// cached stage output, then propagated through the transposed weights and
// divided by the stage width. With full == false the input stage does not
// propagate and nil is returned. The caller's error tensor is not modified.
func (d *Dense) Backpropagate(errT *tensor.Tensor, full bool) (*tensor.Tensor, error) {
	if err := d.AcceptsError(errT); err != nil {
		return nil, fmt.Errorf("dense: %w", err)
	}
	if !d.fed {
		return nil, fmt.Errorf("dense: %w", ErrNotFed)
	}
	e, err := tensor.FromTensor(tensor.Clone(errT))
	if err != nil {
		return nil, err
	}
	out := d.structure[len(d.structure)-1]
	if e.Cols() != 1 || e.Rows() != out {
		return nil, fmt.Errorf("dense: %w: error must be a [%d, 1] column, got %v",
			tensor.ErrShapeMismatch, out, errT.Shape())
	}

	for i := len(d.weights) - 1; i >= 0; i-- {
		// Shapes below are fixed at construction; the errors can not occur.
		_, _ = e.PiecewiseMultiply(d.layers[i+1].Map(d.act.Dfn, false), true)

		dW, _ := tensor.Multiply(e, tensor.Transposed(d.layers[i]))
		_, _ = d.weightDeltas[i].Add(dW.Map(d.scale, true), true)
		_, _ = d.biasDeltas[i].Add(e.Map(d.scale, false), true)

		if i == 0 && !full {
			return nil, nil
		}

		width := float64(d.layers[i+1].Rows())
		e, _ = tensor.Multiply(tensor.Transposed(d.weights[i]), e)
		e.Map(func(x float64) float64 { return x / width }, true)
	}

	return e.Tensor, nil
}

func (d *Dense) scale(x float64) float64 {
	return x * d.lr
}

// ApplyDeltas adds the accumulated deltas into weights and biases and zeroes them.
func (d *Dense) ApplyDeltas() {
	for i := range d.weights {
		_, _ = d.weights[i].Add(d.weightDeltas[i].Tensor, true)
		d.weightDeltas[i].Zero()
		_, _ = d.biases[i].Add(d.biasDeltas[i].Tensor, true)
		d.biasDeltas[i].Zero()
	}
}

// Parameters returns the weight and bias matrices of every stage (not copies).
func (d *Dense) Parameters() (weights, biases []*tensor.Matrix) {
	return d.weights, d.biases
}

// SetParameters replaces the weights and biases. Either may be nil to keep the
// current value. Shapes must match the layer structure.
func (d *Dense) SetParameters(weights, biases []*tensor.Matrix) error {
	if weights != nil {
		if err := d.checkStages("weight", weights, func(i int) (int, int) {
			return d.structure[i+1], d.structure[i]
		}); err != nil {
			return err
		}
	}
	if biases != nil {
		if err := d.checkStages("bias", biases, func(i int) (int, int) {
			return d.structure[i+1], 1
		}); err != nil {
			return err
		}
	}

	if weights != nil {
		d.weights = append([]*tensor.Matrix(nil), weights...)
	}
	if biases != nil {
		d.biases = append([]*tensor.Matrix(nil), biases...)
	}
	return nil
}

func (d *Dense) checkStages(name string, ms []*tensor.Matrix, shape func(i int) (int, int)) error {
	if len(ms) != len(d.weights) {
		return fmt.Errorf("dense: %w: expected %d %s matrices, got %d",
			tensor.ErrShapeMismatch, len(d.weights), name, len(ms))
	}
	for i, m := range ms {
		rows, cols := shape(i)
		if m == nil || m.Rows() != rows || m.Cols() != cols {
			return fmt.Errorf("dense: %w: %s %d must be [%d, %d]", tensor.ErrShapeMismatch, name, i, rows, cols)
		}
	}
	return nil
}

// Layers returns the cached stage outputs of the last Feedforward.
func (d *Dense) Layers() []*tensor.Matrix {
	return d.layers
}

// Deltas returns the accumulated weight and bias deltas.
func (d *Dense) Deltas() (weightDeltas, biasDeltas []*tensor.Matrix) {
	return d.weightDeltas, d.biasDeltas
}

// Structure returns the stage widths.
func (d *Dense) Structure() []int {
	return append([]int(nil), d.structure...)
}

// LearningRate returns the delta scale.
func (d *Dense) LearningRate() float64 {
	return d.lr
}

// StateDict returns the parameters keyed "weight.<i>" and "bias.<i>".
func (d *Dense) StateDict() map[string]*tensor.Matrix {
	state := make(map[string]*tensor.Matrix, 2*len(d.weights))
	for i := range d.weights {
		state[fmt.Sprintf("weight.%d", i)] = d.weights[i]
		state[fmt.Sprintf("bias.%d", i)] = d.biases[i]
	}
	return state
}

// LoadStateDict copies parameters from a state dict produced by StateDict.
func (d *Dense) LoadStateDict(state map[string]*tensor.Matrix) error {
	weights := make([]*tensor.Matrix, len(d.weights))
	biases := make([]*tensor.Matrix, len(d.biases))
	for i := range d.weights {
		var ok bool
		if weights[i], ok = state[fmt.Sprintf("weight.%d", i)]; !ok {
			return fmt.Errorf("dense: %w: weight.%d", ErrMissingParameter, i)
		}
		if biases[i], ok = state[fmt.Sprintf("bias.%d", i)]; !ok {
			return fmt.Errorf("dense: %w: bias.%d", ErrMissingParameter, i)
		}
	}
	if err := d.SetParameters(weights, biases); err != nil {
		return err
	}
	// Own the storage rather than aliasing the caller's matrices.
	for i := range d.weights {
		d.weights[i] = &tensor.Matrix{Tensor: tensor.Clone(d.weights[i].Tensor)}
		d.biases[i] = &tensor.Matrix{Tensor: tensor.Clone(d.biases[i].Tensor)}
	}
	return nil
}
