package filter

import "math"

// Gamma raises each channel to power. Negative inputs are clamped to zero
// first, values above one are passed through the curve unclamped.
type Gamma float64

// Apply returns v^g.
func (g Gamma) Apply(v float64) float64 {
	if v <= 0 {
		if g == 0 {
			return 1
		}
		return 0
	}
	return math.Pow(v, float64(g))
}
