package nn

import (
	"fmt"

	"github.com/born-ml/minnet/internal/tensor"
)

// Composite is a sequential pipeline of layers.
//
// Each layer's output becomes the next layer's input. Dimension compatibility
// is checked when layers are added:
//
//	model, _ := nn.NewComposite()
//	err := model.AddLayer(conv)    // [d, r, c] -> [d*k, r, c]
//	err = model.AddLayer(flatten)  // -> [d*k*r*c, 1]
//	err = model.AddLayer(dense)    // -> [n, 1]
type Composite struct {
	Base
	layers []Layer
}

// NewComposite creates a Composite from layers. An empty Composite has
// cardinality 0 and rejects every input until a layer is added.
func NewComposite(layers ...Layer) (*Composite, error) {
	c := &Composite{}
	for _, l := range layers {
		if err := c.AddLayer(l); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddLayer appends a layer. The first layer sets the composite's InputDim;
// later layers must accept the current OutputDim. The composite is unchanged
// on error.
func (c *Composite) AddLayer(l Layer) error {
	if len(c.layers) == 0 {
		c.inputDim = l.InputDim()
	} else if c.outputDim != l.InputDim() {
		return fmt.Errorf("%w: layer %d expects input of cardinality %d, composite outputs %d",
			tensor.ErrDimensionMismatch, len(c.layers), l.InputDim(), c.outputDim)
	}
	c.outputDim = l.OutputDim()
	c.layers = append(c.layers, l)
	return nil
}

// Feedforward threads input through every layer in order.
func (c *Composite) Feedforward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if len(c.layers) == 0 {
		if err := c.Accepts(input); err != nil {
			return nil, fmt.Errorf("composite: %w", err)
		}
	}
	output := input
	for i, l := range c.layers {
		var err error
		if output, err = l.Feedforward(output); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return output, nil
}

// Backpropagate threads the error through the layers in reverse.
//
// Only the first layer receives the caller's full flag; every later layer
// must produce its input error because the previous layer consumes it.
func (c *Composite) Backpropagate(errT *tensor.Tensor, full bool) (*tensor.Tensor, error) {
	if len(c.layers) == 0 {
		if err := c.AcceptsError(errT); err != nil {
			return nil, fmt.Errorf("composite: %w", err)
		}
	}
	for i := len(c.layers) - 1; i >= 0; i-- {
		l := c.layers[i]
		if errT.Cardinality() != l.OutputDim() {
			return nil, fmt.Errorf("%w: cardinality of error (%d) does not match outputDim (%d) for layer %d",
				tensor.ErrDimensionMismatch, errT.Cardinality(), l.OutputDim(), i)
		}
		var err error
		if errT, err = l.Backpropagate(errT, full || i != 0); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if errT == nil {
			return nil, nil
		}
	}
	return errT, nil
}

// ApplyDeltas commits every layer in order.
func (c *Composite) ApplyDeltas() {
	for _, l := range c.layers {
		l.ApplyDeltas()
	}
}

// Len returns the number of layers.
func (c *Composite) Len() int {
	return len(c.layers)
}

// Layers returns the layers in pipeline order.
func (c *Composite) Layers() []Layer {
	return c.layers
}

// StateDict returns the state of every Stateful layer, prefixed by its index
// (e.g. "0.kernel.0", "2.weight.1").
func (c *Composite) StateDict() map[string]*tensor.Matrix {
	state := make(map[string]*tensor.Matrix)
	for i, l := range c.layers {
		if s, ok := l.(Stateful); ok {
			prefixed(state, fmt.Sprintf("%d.", i), s.StateDict())
		}
	}
	return state
}

// LoadStateDict loads every Stateful layer from its index-prefixed entries.
func (c *Composite) LoadStateDict(state map[string]*tensor.Matrix) error {
	for i, l := range c.layers {
		s, ok := l.(Stateful)
		if !ok {
			continue
		}
		if err := s.LoadStateDict(withPrefix(state, fmt.Sprintf("%d.", i))); err != nil {
			return fmt.Errorf("failed to load layer %d: %w", i, err)
		}
	}
	return nil
}
