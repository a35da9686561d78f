package tensor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKernel(t *testing.T) *Kernel {
	t.Helper()
	k, err := NewZeroKernel(1)
	require.NoError(t, err)
	copy(k.Data(), []float64{
		1, 0, -1,
		0, 1, 0,
		-1, 0, 1,
	})
	k.Bias = 0.5
	return k
}

func TestNewKernel(t *testing.T) {
	k, err := NewKernel(2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 2, k.Radius())
	assert.Equal(t, 5, k.Rows())
	assert.Equal(t, 5, k.Cols())
	for _, x := range k.Data() {
		assert.GreaterOrEqual(t, x, -1.0)
		assert.Less(t, x, 1.0)
	}
	assert.GreaterOrEqual(t, k.Bias, -1.0)
	assert.Less(t, k.Bias, 1.0)

	k, err = NewKernel(0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, k.Size())

	_, err = NewKernel(-1, nil)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestKernelPass(t *testing.T) {
	k := testKernel(t)
	input := MustNew(Shape{1, 3, 3}, []float64{
		0, 0.5, 1,
		1.5, 2, 2.5,
		3, 3.5, 4,
	})
	out := MustNew(Shape{1, 3, 3}, nil)

	require.NoError(t, k.Pass(input, out, 0))
	assert.Equal(t, []float64{
		2.5, 2, -0.5,
		5, 2.5, 0,
		1.5, 3, 6.5,
	}, out.Data())
}

func TestKernelPassSkipsOutOfBounds(t *testing.T) {
	k, err := NewZeroKernel(1)
	require.NoError(t, err)
	k.Map(func(float64) float64 { return 1 }, true)

	input := MustNew(Shape{1, 3, 3}, nil).Map(func(float64) float64 { return 1 }, true)
	out := MustNew(Shape{1, 3, 3}, nil)
	require.NoError(t, k.Pass(input, out, 0))

	// Corners see 4 taps, edges 6, the centre 9.
	assert.Equal(t, []float64{
		4, 6, 4,
		6, 9, 6,
		4, 6, 4,
	}, out.Data())
}

func TestKernelPassSlices(t *testing.T) {
	k := testKernel(t)
	k.Bias = 0
	input := MustNew(Shape{2, 2, 2}, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
	})
	out := MustNew(Shape{6, 2, 2}, nil)
	out.Map(func(float64) float64 { return -1 }, true)

	require.NoError(t, k.Pass(input, out, 1))

	data := out.Data()
	for i := 0; i < 8; i++ {
		assert.Equal(t, -1.0, data[i], "slices of kernel 0 untouched")
	}
	for i := 16; i < 24; i++ {
		assert.Equal(t, -1.0, data[i], "slices of kernel 2 untouched")
	}
	// Slice 0: (0,0) = 1*1 + 1*4 = 5, (0,1) = 2 + -1*3 = -1 ... computed by hand.
	assert.Equal(t, []float64{5, 2 - 3, 3 - 2, 4 + 1}, data[8:12])
	assert.Equal(t, []float64{5 + 8, 6 - 7, 7 - 6, 8 + 5}, data[12:16])
}

func TestKernelPassErrors(t *testing.T) {
	k := testKernel(t)
	input := MustNew(Shape{1, 3, 3}, nil)

	err := k.Pass(MustNew(Shape{3, 3}, nil), MustNew(Shape{1, 3, 3}, nil), 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	err = k.Pass(input, MustNew(Shape{1, 3, 3}, nil), 1)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	err = k.Pass(input, MustNew(Shape{2, 3, 4}, nil), 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestKernelAddZero(t *testing.T) {
	a := testKernel(t)
	b := testKernel(t)
	b.Bias = 1

	sum, err := a.Add(b, false)
	require.NoError(t, err)
	assert.NotSame(t, a, sum)
	assert.Equal(t, 1.5, sum.Bias)
	assert.Equal(t, 1, sum.Radius())
	assert.Equal(t, []float64{2, 0, -2, 0, 2, 0, -2, 0, 2}, sum.Data())
	assert.Equal(t, 0.5, a.Bias)

	out, err := a.Add(b, true)
	require.NoError(t, err)
	assert.Same(t, a, out)
	assert.Equal(t, 1.5, a.Bias)

	big, err := NewZeroKernel(2)
	require.NoError(t, err)
	_, err = a.Add(big, true)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	a.Zero()
	assert.Zero(t, a.Bias)
	assert.Zero(t, a.Sum())
}
