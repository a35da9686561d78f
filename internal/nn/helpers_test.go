package nn

import (
	"github.com/born-ml/minnet/internal/tensor"
)

func column(values ...float64) *tensor.Tensor {
	return tensor.MustMatrix(len(values), 1, values).Tensor
}

// spyLayer is an identity layer of fixed cardinality that records calls.
type spyLayer struct {
	Base
	fullFlags []bool
	applied   int
	// errOut, when set, replaces the error returned by Backpropagate.
	errOut *tensor.Tensor
}

func newSpy(dim int) *spyLayer {
	return &spyLayer{Base: NewBase(dim, dim)}
}

func (s *spyLayer) Feedforward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if err := s.Accepts(input); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *spyLayer) Backpropagate(errT *tensor.Tensor, full bool) (*tensor.Tensor, error) {
	if err := s.AcceptsError(errT); err != nil {
		return nil, err
	}
	s.fullFlags = append(s.fullFlags, full)
	if s.errOut != nil {
		return s.errOut, nil
	}
	return errT, nil
}

func (s *spyLayer) ApplyDeltas() {
	s.applied++
}
