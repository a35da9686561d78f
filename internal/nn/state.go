package nn

import (
	"strings"

	"github.com/born-ml/minnet/internal/tensor"
)

// Stateful is implemented by layers whose parameters can be exported and restored.
type Stateful interface {
	// StateDict returns the parameters keyed by name. The matrices are the
	// layer's own storage, not copies.
	StateDict() map[string]*tensor.Matrix

	// LoadStateDict copies parameters from a state dict.
	LoadStateDict(state map[string]*tensor.Matrix) error
}

// prefixed copies state into dst with every key prefixed.
func prefixed(dst map[string]*tensor.Matrix, prefix string, state map[string]*tensor.Matrix) {
	for name, m := range state {
		dst[prefix+name] = m
	}
}

// withPrefix returns the entries of state under prefix, with the prefix removed.
func withPrefix(state map[string]*tensor.Matrix, prefix string) map[string]*tensor.Matrix {
	sub := make(map[string]*tensor.Matrix)
	for key, m := range state {
		if name, ok := strings.CutPrefix(key, prefix); ok && name != "" {
			sub[name] = m
		}
	}
	return sub
}
