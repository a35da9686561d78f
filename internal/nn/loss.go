package nn

// Loss is a per-element loss function paired with its derivative.
//
// Dfn is the derivative with respect to result; expected is treated as a constant.
type Loss struct {
	Fn  func(expected, result float64) float64
	Dfn func(expected, result float64) float64
}

// SquaredError is (expected - result)² / 2.
var SquaredError = Loss{
	Fn: func(expected, result float64) float64 {
		d := expected - result
		return d * d / 2
	},
	Dfn: func(expected, result float64) float64 { return result - expected },
}
