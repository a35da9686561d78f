// Package nn implements the layers of the engine and the training protocol
// shared by all of them.
//
// Every layer implements Layer:
//   - Feedforward: compute the output for an input, caching what backprop needs
//   - Backpropagate: accumulate parameter deltas and return the input error
//   - ApplyDeltas: commit the accumulated deltas and reset them
//
// Deltas accumulate across Backpropagate calls until ApplyDeltas, which is
// what makes mini-batch training (BatchTrain) a plain loop over samples.
//
// Layers compose through Composite (a pipeline) and Emitter/Receiver (one
// shared model trained jointly by several downstream models).
package nn

import (
	"fmt"

	"github.com/born-ml/minnet/internal/tensor"
)

// Layer is the contract implemented by every layer.
type Layer interface {
	// InputDim is the cardinality (number of axes) accepted by Feedforward.
	InputDim() int

	// OutputDim is the cardinality of the output, and of the error accepted
	// by Backpropagate.
	OutputDim() int

	// Feedforward computes the layer output.
	//
	// The returned tensor may be owned by the layer and is only valid until
	// the next Feedforward call.
	Feedforward(input *tensor.Tensor) (*tensor.Tensor, error)

	// Backpropagate accumulates parameter deltas for the error of the last
	// Feedforward output and returns the error attributable to the input.
	//
	// When full is false the layer may skip the input error and return nil.
	Backpropagate(err *tensor.Tensor, full bool) (*tensor.Tensor, error)

	// ApplyDeltas adds the accumulated deltas into the parameters and zeroes them.
	ApplyDeltas()

	// Cost returns the cost recorded by the last training call.
	Cost() float64

	// SetCost records a training cost.
	SetCost(cost float64)
}

// Base carries the dimensions and cost common to all layers. Embed it to
// implement the bookkeeping half of Layer.
type Base struct {
	inputDim  int
	outputDim int
	cost      float64
}

// NewBase returns a Base with the given input and output cardinalities.
func NewBase(inputDim, outputDim int) Base {
	return Base{inputDim: inputDim, outputDim: outputDim}
}

// InputDim returns the accepted input cardinality.
func (b *Base) InputDim() int { return b.inputDim }

// OutputDim returns the output cardinality.
func (b *Base) OutputDim() int { return b.outputDim }

// Cost returns the last recorded training cost.
func (b *Base) Cost() float64 { return b.cost }

// SetCost records a training cost.
func (b *Base) SetCost(cost float64) { b.cost = cost }

// Accepts checks that input has the cardinality expected by Feedforward.
func (b *Base) Accepts(input *tensor.Tensor) error {
	if input.Cardinality() != b.inputDim {
		return fmt.Errorf("%w: layer expects input of cardinality %d, got %d",
			tensor.ErrShapeMismatch, b.inputDim, input.Cardinality())
	}
	return nil
}

// AcceptsError checks that err has the cardinality expected by Backpropagate.
func (b *Base) AcceptsError(err *tensor.Tensor) error {
	if err.Cardinality() != b.outputDim {
		return fmt.Errorf("%w: layer expects error of cardinality %d, got %d",
			tensor.ErrShapeMismatch, b.outputDim, err.Cardinality())
	}
	return nil
}

// Train runs one sample through l and backpropagates its error.
//
// The error is expected - result and the recorded cost is the mean squared
// error halved and scaled to a percentage: Σ e²/2/size * 100. Deltas are
// committed immediately when applyDeltas is true.
func Train(l Layer, input, expected *tensor.Tensor, applyDeltas bool) (float64, error) {
	result, err := l.Feedforward(input)
	if err != nil {
		return 0, fmt.Errorf("feedforward: %w", err)
	}

	errT, err := expected.Subtract(result, false)
	if err != nil {
		return 0, fmt.Errorf("expected vs result: %w", err)
	}
	size := float64(errT.Size())
	cost := errT.Map(func(e float64) float64 { return e * e / 2 / size * 100 }, false).Sum()
	l.SetCost(cost)

	if _, err := l.Backpropagate(errT, false); err != nil {
		return 0, fmt.Errorf("backpropagate: %w", err)
	}
	if applyDeltas {
		l.ApplyDeltas()
	}
	return cost, nil
}

// BatchTrain trains l on every (input, expected) pair, summing the deltas of
// all samples and applying them once at the end. It returns the average cost.
//
// All inputs must share one shape, as must all expecteds; this is checked
// before any sample runs. A layer error in a later sample leaves the deltas
// of the earlier samples pending until the next ApplyDeltas.
func BatchTrain(l Layer, inputs, expecteds []*tensor.Tensor) (float64, error) {
	if len(inputs) != len(expecteds) {
		return 0, fmt.Errorf("%w: %d inputs, %d expected", ErrLengthMismatch, len(inputs), len(expecteds))
	}
	for i := 1; i < len(inputs); i++ {
		if !inputs[i].MatchesSignature(inputs[0]) {
			return 0, fmt.Errorf("sample %d: %w: input %v, first input %v",
				i, tensor.ErrShapeMismatch, inputs[i].Shape(), inputs[0].Shape())
		}
		if !expecteds[i].MatchesSignature(expecteds[0]) {
			return 0, fmt.Errorf("sample %d: %w: expected %v, first expected %v",
				i, tensor.ErrShapeMismatch, expecteds[i].Shape(), expecteds[0].Shape())
		}
	}

	n := float64(len(inputs))
	cost := 0.0
	for i := range inputs {
		c, err := Train(l, inputs[i], expecteds[i], false)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		cost += c / n
	}
	l.ApplyDeltas()
	l.SetCost(cost)
	return cost, nil
}

// Evaluate feeds every input through l and returns the average of loss over
// all output elements and samples. No deltas are touched.
func Evaluate(l Layer, inputs, expecteds []*tensor.Tensor, loss Loss) (float64, error) {
	if len(inputs) != len(expecteds) {
		return 0, fmt.Errorf("%w: %d inputs, %d expected", ErrLengthMismatch, len(inputs), len(expecteds))
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	total := 0.0
	for i := range inputs {
		result, err := l.Feedforward(inputs[i])
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		if !result.MatchesSignature(expecteds[i]) {
			return 0, fmt.Errorf("sample %d: %w: result %v, expected %v",
				i, tensor.ErrShapeMismatch, result.Shape(), expecteds[i].Shape())
		}
		want := expecteds[i].Data()
		sample := 0.0
		for j, r := range result.Data() {
			sample += loss.Fn(want[j], r)
		}
		total += sample / float64(result.Size())
	}
	return total / float64(len(inputs)), nil
}
