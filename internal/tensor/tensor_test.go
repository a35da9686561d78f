package tensor

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tt, err := New(Shape{1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tt.Size())
	assert.Equal(t, 1, tt.Cardinality())
	assert.Equal(t, []float64{0}, tt.Data())

	tt, err = New(Shape{5, 5, 5}, nil)
	require.NoError(t, err)
	assert.Len(t, tt.Data(), 125)
	assert.Equal(t, 125, tt.Size())
	assert.Equal(t, 3, tt.Cardinality())

	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	tt, err = New(Shape{2, 2, 2}, data)
	require.NoError(t, err)
	data[0] = 42
	assert.Equal(t, 42.0, tt.Data()[0], "supplied data should be adopted, not copied")
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		data  []float64
		want  error
	}{
		{"empty shape", Shape{}, nil, ErrInvalidShape},
		{"zero dimension", Shape{3, 2, 0}, nil, ErrInvalidShape},
		{"negative dimension", Shape{-2, 2, 2}, nil, ErrInvalidShape},
		{"short data", Shape{2, 2}, []float64{1}, ErrDataLength},
		{"empty data", Shape{2, 2}, []float64{}, ErrDataLength},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.shape, tc.data)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestShapeIsCopied(t *testing.T) {
	shape := Shape{2, 3}
	tt := MustNew(shape, nil)
	shape[0] = 7
	assert.Equal(t, Shape{2, 3}, tt.Shape())
}

func TestMatchesSignature(t *testing.T) {
	t1 := MustNew(Shape{5, 6}, nil)
	assert.True(t, t1.MatchesSignature(MustNew(Shape{5, 6}, nil)))
	assert.False(t, t1.MatchesSignature(MustNew(Shape{1, 1}, nil)))
	assert.False(t, t1.MatchesSignature(MustNew(Shape{3, 10, 1}, nil)))
	assert.False(t, t1.MatchesSignature(MustNew(Shape{30}, nil)))
}

func TestOperation(t *testing.T) {
	t1 := MustNew(Shape{2, 2}, []float64{1, 2, 3, 4})
	t2 := MustNew(Shape{2, 2}, []float64{1, 1, 1, 1})

	t3, err := t1.Operation(t2, func(_, b float64) float64 { return b }, false)
	require.NoError(t, err)
	assert.NotSame(t, t1, t3)
	assert.Equal(t, t2.Data(), t3.Data())

	t3, err = t1.Operation(t2, func(a, b float64) float64 { return a + b }, true)
	require.NoError(t, err)
	assert.Same(t, t1, t3)
	assert.Equal(t, []float64{2, 3, 4, 5}, t1.Data())

	_, err = t1.Operation(MustNew(Shape{2, 1}, []float64{1, 1}), func(_, b float64) float64 { return b }, true)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, []float64{2, 3, 4, 5}, t1.Data(), "failed in-place operation must not mutate")
}

func TestElementwise(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b *Tensor, inPlace bool) (*Tensor, error)
		b    []float64
		want []float64
	}{
		{"add", (*Tensor).Add, []float64{1, 1, 1, 1}, []float64{2, 3, 4, 5}},
		{"subtract", (*Tensor).Subtract, []float64{1, 1, 1, 1}, []float64{0, 1, 2, 3}},
		{"piecewise multiply", (*Tensor).PiecewiseMultiply, []float64{2, 2, 2, 2}, []float64{2, 4, 6, 8}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := MustNew(Shape{2, 2}, []float64{1, 2, 3, 4})
			b := MustNew(Shape{2, 2}, tc.b)

			out, err := tc.op(a, b, false)
			require.NoError(t, err)
			assert.NotSame(t, a, out)
			assert.Equal(t, []float64{1, 2, 3, 4}, a.Data())
			if diff := cmp.Diff(tc.want, out.Data()); diff != "" {
				t.Fatalf("copy result (-want +got)\n%s", diff)
			}

			out, err = tc.op(a, b, true)
			require.NoError(t, err)
			assert.Same(t, a, out)
			if diff := cmp.Diff(tc.want, a.Data()); diff != "" {
				t.Fatalf("in-place result (-want +got)\n%s", diff)
			}
		})
	}
}

func TestAddSubtractInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		a := MustNew(Shape{3, 4, 2}, nil).Randomize(rng, -10, 10, true, false)
		b := MustNew(Shape{3, 4, 2}, nil).Randomize(rng, -10, 10, true, false)

		sum, err := a.Add(b, false)
		require.NoError(t, err)
		back, err := sum.Subtract(b, false)
		require.NoError(t, err)
		assert.InDeltaSlice(t, a.Data(), back.Data(), 1e-9)
	}
}

func TestMap(t *testing.T) {
	a := MustNew(Shape{3}, []float64{1, 2, 3})
	sq := a.Map(func(x float64) float64 { return x * x }, false)
	assert.Equal(t, []float64{1, 4, 9}, sq.Data())
	assert.Equal(t, []float64{1, 2, 3}, a.Data())

	out := a.Map(func(x float64) float64 { return -x }, true)
	assert.Same(t, a, out)
	assert.Equal(t, []float64{-1, -2, -3}, a.Data())
}

func TestRandomize(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := MustNew(Shape{10, 10}, nil)

	r := a.Randomize(rng, -2, 3, false, false)
	assert.NotSame(t, a, r)
	assert.Zero(t, a.Sum())
	for _, x := range r.Data() {
		assert.GreaterOrEqual(t, x, -2.0)
		assert.Less(t, x, 3.0)
	}

	r = a.Randomize(rng, 0, 5, true, true)
	assert.Same(t, a, r)
	for _, x := range a.Data() {
		assert.Equal(t, float64(int(x)), x, "floored values must be integral")
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 5.0)
	}

	// Package source.
	a.Randomize(nil, 1, 2, true, false)
	for _, x := range a.Data() {
		assert.GreaterOrEqual(t, x, 1.0)
	}
}

func TestZeroAndSum(t *testing.T) {
	a := MustNew(Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	assert.Equal(t, 21.0, a.Sum())
	assert.Same(t, a, a.Zero())
	assert.Equal(t, make([]float64, 6), a.Data())
	assert.Zero(t, a.Sum())
}

func TestClone(t *testing.T) {
	t1 := MustNew(Shape{2, 2}, []float64{1, 2, 3, 4})
	t2 := Clone(t1)
	assert.NotSame(t, t1, t2)
	assert.Equal(t, t1.Data(), t2.Data())
	assert.True(t, t1.MatchesSignature(t2))

	t2.Data()[0] = 100
	assert.Equal(t, 1.0, t1.Data()[0], "clone must not share storage")
}

func TestReshape(t *testing.T) {
	a := MustNew(Shape{2, 3, 1}, []float64{1, 2, 3, 4, 5, 6})
	b, err := a.Reshape(Shape{6, 1})
	require.NoError(t, err)
	assert.Equal(t, Shape{6, 1}, b.Shape())
	b.Data()[5] = 60
	assert.Equal(t, 60.0, a.Data()[5], "reshape shares storage")

	_, err = a.Reshape(Shape{4})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = a.Reshape(Shape{0, 6})
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestZeros(t *testing.T) {
	z, err := Zeros(2, 3)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, z.Shape())

	_, err = Zeros()
	assert.ErrorIs(t, err, ErrInvalidShape)
}
