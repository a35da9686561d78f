package nn

import (
	"fmt"

	"github.com/born-ml/minnet/internal/tensor"
)

// Emitter wraps a model so that several Receivers can share and jointly train it.
//
// Example:
//
//	emitter := nn.NewEmitter(base)
//	and, _ := nn.NewReceiver(andHead, emitter)
//	or, _ := nn.NewReceiver(orHead, emitter)
//
//	nn.Train(and, x, yAnd, true) // deltas reach base and andHead
//	nn.Train(or, x, yOr, true)   // deltas reach base and orHead
//	emitter.ApplyDeltas()        // commit base once per round
//
// There is no internal locking: callers run one round (fan-out, each
// receiver's backprop, then one Emitter.ApplyDeltas) at a time.
type Emitter struct {
	Base
	model       Layer
	subscribers []*Receiver
}

// NewEmitter wraps model. The emitter takes its dimensions from the model.
func NewEmitter(model Layer) *Emitter {
	return &Emitter{
		Base:  NewBase(model.InputDim(), model.OutputDim()),
		model: model,
	}
}

// Feedforward runs the wrapped model and fans the result out to every
// subscriber, each of which runs its own model on it. It returns the wrapped
// model's output.
func (e *Emitter) Feedforward(input *tensor.Tensor) (*tensor.Tensor, error) {
	result, err := e.model.Feedforward(input)
	if err != nil {
		return nil, fmt.Errorf("emitter: %w", err)
	}
	for i, r := range e.subscribers {
		if err := r.receive(result); err != nil {
			return nil, fmt.Errorf("emitter: subscriber %d: %w", i, err)
		}
	}
	return result, nil
}

// Backpropagate delegates to the wrapped model. Deltas from every receiver
// accumulate until ApplyDeltas.
func (e *Emitter) Backpropagate(errT *tensor.Tensor, full bool) (*tensor.Tensor, error) {
	out, err := e.model.Backpropagate(errT, full)
	if err != nil {
		return nil, fmt.Errorf("emitter: %w", err)
	}
	return out, nil
}

// ApplyDeltas commits the wrapped model, then every subscriber.
func (e *Emitter) ApplyDeltas() {
	e.model.ApplyDeltas()
	for _, r := range e.subscribers {
		r.ApplyDeltas()
	}
}

// Model returns the wrapped model.
func (e *Emitter) Model() Layer {
	return e.model
}

// Subscribers returns the registered receivers.
func (e *Emitter) Subscribers() []*Receiver {
	return e.subscribers
}

func (e *Emitter) subscribe(r *Receiver) {
	e.subscribers = append(e.subscribers, r)
}

// StateDict returns the wrapped model's state under "model." and each
// subscriber's model under "subscriber.<i>.".
func (e *Emitter) StateDict() map[string]*tensor.Matrix {
	state := make(map[string]*tensor.Matrix)
	if s, ok := e.model.(Stateful); ok {
		prefixed(state, "model.", s.StateDict())
	}
	for i, r := range e.subscribers {
		prefixed(state, fmt.Sprintf("subscriber.%d.", i), r.StateDict())
	}
	return state
}

// LoadStateDict restores the wrapped model and every subscriber.
func (e *Emitter) LoadStateDict(state map[string]*tensor.Matrix) error {
	if s, ok := e.model.(Stateful); ok {
		if err := s.LoadStateDict(withPrefix(state, "model.")); err != nil {
			return fmt.Errorf("emitter: %w", err)
		}
	}
	for i, r := range e.subscribers {
		if err := r.LoadStateDict(withPrefix(state, fmt.Sprintf("subscriber.%d.", i))); err != nil {
			return fmt.Errorf("emitter: subscriber %d: %w", i, err)
		}
	}
	return nil
}

// Receiver attaches its own model to an Emitter's output.
//
// After any feedforward through the emitter, every receiver holds its result
// in LastResult.
type Receiver struct {
	Base
	model      Layer
	emitter    *Emitter
	lastResult *tensor.Tensor
}

// NewReceiver wraps model and subscribes it to emitter. The model must accept
// the emitter's output cardinality.
func NewReceiver(model Layer, emitter *Emitter) (*Receiver, error) {
	if model.InputDim() != emitter.OutputDim() {
		return nil, fmt.Errorf("%w: emitter outputs cardinality %d, receiver model expects %d",
			tensor.ErrDimensionMismatch, emitter.OutputDim(), model.InputDim())
	}
	r := &Receiver{
		Base:    NewBase(emitter.InputDim(), model.OutputDim()),
		model:   model,
		emitter: emitter,
	}
	emitter.subscribe(r)
	return r, nil
}

// Feedforward feeds input through the emitter, which fans out to this and
// every sibling receiver, and returns this receiver's result.
func (r *Receiver) Feedforward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if _, err := r.emitter.Feedforward(input); err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}
	return r.lastResult, nil
}

func (r *Receiver) receive(emitted *tensor.Tensor) error {
	result, err := r.model.Feedforward(emitted)
	if err != nil {
		return err
	}
	r.lastResult = result
	return nil
}

// Backpropagate runs the receiver's model with full backprop, then forwards
// the resulting error into the emitter. It returns the emitter's input error,
// which is nil when full is false and the emitter skips it.
func (r *Receiver) Backpropagate(errT *tensor.Tensor, full bool) (*tensor.Tensor, error) {
	emitted, err := r.model.Backpropagate(errT, true)
	if err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}
	out, err := r.emitter.Backpropagate(emitted, full)
	if err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}
	return out, nil
}

// ApplyDeltas commits only the receiver's own model. The shared emitter is
// committed separately, once per joint round, through Emitter.ApplyDeltas.
func (r *Receiver) ApplyDeltas() {
	r.model.ApplyDeltas()
}

// LastResult returns the result of the most recent feedforward, or nil.
func (r *Receiver) LastResult() *tensor.Tensor {
	return r.lastResult
}

// Model returns the receiver's own model.
func (r *Receiver) Model() Layer {
	return r.model
}

// Emitter returns the emitter this receiver is subscribed to.
func (r *Receiver) Emitter() *Emitter {
	return r.emitter
}

// StateDict returns the receiver model's state under "model.".
func (r *Receiver) StateDict() map[string]*tensor.Matrix {
	state := make(map[string]*tensor.Matrix)
	if s, ok := r.model.(Stateful); ok {
		prefixed(state, "model.", s.StateDict())
	}
	return state
}

// LoadStateDict restores the receiver model.
func (r *Receiver) LoadStateDict(state map[string]*tensor.Matrix) error {
	if s, ok := r.model.(Stateful); ok {
		if err := s.LoadStateDict(withPrefix(state, "model.")); err != nil {
			return fmt.Errorf("receiver: %w", err)
		}
	}
	return nil
}
