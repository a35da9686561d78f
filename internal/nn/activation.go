package nn

import "math"

// Activation is an elementwise activation function paired with its derivative.
//
// Dfn is evaluated on the forward output y = Fn(x), not on x. For example the
// sigmoid derivative is y*(1-y).
type Activation struct {
	Fn  func(x float64) float64
	Dfn func(y float64) float64
}

// Sigmoid squashes values to (0, 1): σ(x) = 1 / (1 + exp(-x)).
var Sigmoid = Activation{
	Fn:  func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
	Dfn: func(y float64) float64 { return y * (1 - y) },
}

// ReLU is the rectified linear unit: f(x) = max(0, x).
var ReLU = Activation{
	Fn:  func(x float64) float64 { return math.Max(0, x) },
	Dfn: func(y float64) float64 {
		if y > 0 {
			return 1
		}
		return 0
	},
}

// Tanh is the hyperbolic tangent, with derivative 1 - y².
var Tanh = Activation{
	Fn:  math.Tanh,
	Dfn: func(y float64) float64 { return 1 - y*y },
}

// Identity passes values through unchanged.
var Identity = Activation{
	Fn:  func(x float64) float64 { return x },
	Dfn: func(float64) float64 { return 1 },
}

func (a Activation) isZero() bool {
	return a.Fn == nil || a.Dfn == nil
}
