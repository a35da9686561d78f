package nn

import "errors"

// Common errors.
var (
	ErrLengthMismatch   = errors.New("input and expected batches must be the same length")
	ErrNotFed           = errors.New("backpropagate called before feedforward")
	ErrMissingParameter = errors.New("missing parameter in state dict")
)
