package tensor

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a cardinality-2 tensor with (row, col) addressing.
type Matrix struct {
	*Tensor
}

// NewMatrix creates a rows x cols matrix. A nil data slice yields zeros;
// otherwise data is adopted as storage and must hold rows*cols values.
func NewMatrix(rows, cols int, data []float64) (*Matrix, error) {
	t, err := New(Shape{rows, cols}, data)
	if err != nil {
		return nil, err
	}
	return &Matrix{Tensor: t}, nil
}

// MustMatrix is like NewMatrix but panics on error.
func MustMatrix(rows, cols int, data []float64) *Matrix {
	m, err := NewMatrix(rows, cols, data)
	if err != nil {
		panic(err)
	}
	return m
}

// FromTensor reinterprets t as a matrix sharing its storage.
// A cardinality-1 tensor becomes a column matrix.
func FromTensor(t *Tensor) (*Matrix, error) {
	switch t.Cardinality() {
	case 1:
		return &Matrix{Tensor: &Tensor{shape: Shape{t.shape[0], 1}, data: t.data}}, nil
	case 2:
		return &Matrix{Tensor: &Tensor{shape: Shape{t.shape[0], t.shape[1]}, data: t.data}}, nil
	default:
		return nil, fmt.Errorf("%w: cardinality of tensor must be 1 or 2, got %d", ErrUnsupportedCardinality, t.Cardinality())
	}
}

// FromDense copies a gonum matrix into a new Matrix.
func FromDense(d mat.Matrix) *Matrix {
	rows, cols := d.Dims()
	m := MustMatrix(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.data[i*cols+j] = d.At(i, j)
		}
	}
	return m
}

// AsDense returns a gonum view of m sharing its storage.
func (m *Matrix) AsDense() *mat.Dense {
	return mat.NewDense(m.Rows(), m.Cols(), m.data)
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return m.shape[0]
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	return m.shape[1]
}

// At returns the element at (row, col).
func (m *Matrix) At(row, col int) (float64, error) {
	if err := m.checkBounds(row, col); err != nil {
		return 0, err
	}
	return m.data[row*m.Cols()+col], nil
}

// Set stores v at (row, col).
func (m *Matrix) Set(row, col int, v float64) error {
	if err := m.checkBounds(row, col); err != nil {
		return err
	}
	m.data[row*m.Cols()+col] = v
	return nil
}

func (m *Matrix) checkBounds(row, col int) error {
	if row < 0 || row >= m.Rows() {
		return &IndexError{Axis: "row", Index: row, Size: m.Rows()}
	}
	if col < 0 || col >= m.Cols() {
		return &IndexError{Axis: "col", Index: col, Size: m.Cols()}
	}
	return nil
}

// Transpose transposes m in place and returns it.
//
// The storage slice is retained, so other handles sharing it observe the
// transposed layout.
func (m *Matrix) Transpose() *Matrix {
	rows, cols := m.Rows(), m.Cols()
	if rows == cols {
		for r := 0; r < rows; r++ {
			for c := r + 1; c < cols; c++ {
				m.data[r*cols+c], m.data[c*rows+r] = m.data[c*rows+r], m.data[r*cols+c]
			}
		}
	} else {
		transposed := make([]float64, 0, len(m.data))
		for c := 0; c < cols; c++ {
			for r := 0; r < rows; r++ {
				transposed = append(transposed, m.data[r*cols+c])
			}
		}
		copy(m.data, transposed)
	}
	m.shape[0], m.shape[1] = cols, rows
	return m
}

// Transposed returns a new matrix holding the transpose of a.
func Transposed(a *Matrix) *Matrix {
	rows, cols := a.Rows(), a.Cols()
	out := MustMatrix(cols, rows, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[j*rows+i] = a.data[i*cols+j]
		}
	}
	return out
}

// Multiply returns the matrix product a·b.
//
// Accumulation order is fixed: row outer, column, then the contraction index.
func Multiply(a, b *Matrix) (*Matrix, error) {
	if a.Cols() != b.Rows() {
		return nil, fmt.Errorf("%w: columns of first matrix (%d) must match rows of second matrix (%d)",
			ErrDimensionMismatch, a.Cols(), b.Rows())
	}

	n, inner, p := a.Rows(), a.Cols(), b.Cols()
	out := MustMatrix(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			value := 0.0
			for k := 0; k < inner; k++ {
				value += a.data[i*inner+k] * b.data[k*p+j]
			}
			out.data[i*p+j] = value
		}
	}
	return out, nil
}

// Randomize fills m uniformly from [low, high), see Tensor.Randomize.
func (m *Matrix) Randomize(rng *rand.Rand, low, high float64, inPlace, floor bool) *Matrix {
	t := m.Tensor.Randomize(rng, low, high, inPlace, floor)
	if inPlace {
		return m
	}
	return &Matrix{Tensor: t}
}
