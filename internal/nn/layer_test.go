package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/minnet/internal/tensor"
)

func TestBase(t *testing.T) {
	b := NewBase(3, 2)
	assert.Equal(t, 3, b.InputDim())
	assert.Equal(t, 2, b.OutputDim())
	assert.Zero(t, b.Cost())
	b.SetCost(1.5)
	assert.Equal(t, 1.5, b.Cost())

	assert.NoError(t, b.Accepts(tensor.MustNew(tensor.Shape{1, 2, 3}, nil)))
	assert.ErrorIs(t, b.Accepts(column(1)), tensor.ErrShapeMismatch)
	assert.NoError(t, b.AcceptsError(column(1)))
	assert.ErrorIs(t, b.AcceptsError(tensor.MustNew(tensor.Shape{1, 2, 3}, nil)), tensor.ErrShapeMismatch)
}

func TestTrainCost(t *testing.T) {
	d := newIdentityDense(t, 0.1)
	cost, err := Train(d, column(0.5, 1.5), column(1), false)
	require.NoError(t, err)
	// Error -2.5: 6.25 / 2 / 1 * 100.
	assert.InDelta(t, 312.5, cost, 1e-9)
	assert.Equal(t, cost, d.Cost())

	wd, _ := d.Deltas()
	assert.InDeltaSlice(t, []float64{-0.125, -0.375}, wd[0].Data(), 1e-12)

	weights, _ := d.Parameters()
	assert.Equal(t, []float64{3, 1}, weights[0].Data(), "deltas are not applied")
}

func TestTrainShapeMismatch(t *testing.T) {
	d := newIdentityDense(t, 0.1)
	_, err := Train(d, column(0.5, 1.5), column(1, 2), false)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestBatchTrainSumsSampleDeltas(t *testing.T) {
	inputs := []*tensor.Tensor{column(0, 1), column(1, 0), column(1, 1)}
	expecteds := []*tensor.Tensor{column(1), column(1), column(0)}
	newNet := func() *Dense {
		d, err := NewDense([]int{2, 3, 1}, DenseConfig{Rand: rand.New(rand.NewSource(9))})
		require.NoError(t, err)
		return d
	}

	// Parameters are fixed during a batch, so each sample's deltas can be
	// computed on its own fresh copy and summed onto the initial parameters.
	w0, b0 := newNet().Parameters()
	var wantW, wantB []*tensor.Tensor
	for s := range w0 {
		wantW = append(wantW, tensor.Clone(w0[s].Tensor))
		wantB = append(wantB, tensor.Clone(b0[s].Tensor))
	}
	costs := 0.0
	for i := range inputs {
		single := newNet()
		c, err := Train(single, inputs[i], expecteds[i], false)
		require.NoError(t, err)
		costs += c
		wd, bd := single.Deltas()
		for s := range wd {
			_, err = wantW[s].Add(wd[s].Tensor, true)
			require.NoError(t, err)
			_, err = wantB[s].Add(bd[s].Tensor, true)
			require.NoError(t, err)
		}
	}

	batch := newNet()
	cost, err := BatchTrain(batch, inputs, expecteds)
	require.NoError(t, err)
	assert.InDelta(t, costs/3, cost, 1e-9)
	assert.Equal(t, cost, batch.Cost())

	weights, biases := batch.Parameters()
	for s := range weights {
		assert.InDeltaSlice(t, wantW[s].Data(), weights[s].Data(), 1e-12)
		assert.InDeltaSlice(t, wantB[s].Data(), biases[s].Data(), 1e-12)
	}
	wd, bd := batch.Deltas()
	for s := range wd {
		assert.Zero(t, wd[s].Sum())
		assert.Zero(t, bd[s].Sum())
	}
}

func TestBatchTrainLengthMismatch(t *testing.T) {
	d := newIdentityDense(t, 0.1)
	_, err := BatchTrain(d, []*tensor.Tensor{column(1, 2)}, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Evaluate(d, nil, []*tensor.Tensor{column(1)}, SquaredError)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestBatchTrainMixedShapesLeavesDeltasEmpty(t *testing.T) {
	tests := []struct {
		name      string
		inputs    []*tensor.Tensor
		expecteds []*tensor.Tensor
	}{
		{"expected", []*tensor.Tensor{column(0.5, 1.5), column(1, 0)}, []*tensor.Tensor{column(1), column(1, 2)}},
		{"input", []*tensor.Tensor{column(0.5, 1.5), column(1, 0, 1)}, []*tensor.Tensor{column(1), column(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newIdentityDense(t, 0.1)
			_, err := BatchTrain(d, tt.inputs, tt.expecteds)
			require.ErrorIs(t, err, tensor.ErrShapeMismatch)
			assert.Contains(t, err.Error(), "sample 1")

			wd, bd := d.Deltas()
			assert.Zero(t, wd[0].Sum())
			assert.Zero(t, bd[0].Sum())

			// A later committed sample carries nothing from the failed batch.
			_, err = Train(d, column(0.5, 1.5), column(1), true)
			require.NoError(t, err)
			weights, _ := d.Parameters()
			assert.InDeltaSlice(t, []float64{2.875, 0.625}, weights[0].Data(), 1e-12)
		})
	}
}

func TestEvaluate(t *testing.T) {
	d := newIdentityDense(t, 0.1)
	inputs := []*tensor.Tensor{column(0.5, 1.5), column(0, 0)}
	expecteds := []*tensor.Tensor{column(1.5), column(0.5)}

	// Outputs are 3.5 and 0.5: losses 2 and 0.
	loss, err := Evaluate(d, inputs, expecteds, SquaredError)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, loss, 1e-12)

	wd, bd := d.Deltas()
	assert.Zero(t, wd[0].Sum())
	assert.Zero(t, bd[0].Sum())

	loss, err = Evaluate(d, nil, nil, SquaredError)
	require.NoError(t, err)
	assert.Zero(t, loss)

	_, err = Evaluate(d, inputs[:1], []*tensor.Tensor{column(1, 2)}, SquaredError)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestActivations(t *testing.T) {
	tests := []struct {
		name string
		act  Activation
		x    float64
		y    float64
		dy   float64
	}{
		{"sigmoid", Sigmoid, 0, 0.5, 0.25},
		{"relu positive", ReLU, 2, 2, 1},
		{"relu negative", ReLU, -2, 0, 0},
		{"tanh", Tanh, 0, 0, 1},
		{"identity", Identity, -3, -3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := tt.act.Fn(tt.x)
			assert.InDelta(t, tt.y, y, 1e-12)
			assert.InDelta(t, tt.dy, tt.act.Dfn(y), 1e-12)
		})
	}

	assert.Equal(t, 2.0, SquaredError.Fn(1, 3))
	assert.Equal(t, 2.0, SquaredError.Dfn(1, 3))
}
