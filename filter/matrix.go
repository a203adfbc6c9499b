package filter

import "math"

// Luma weights (Rec. 709), as used by saturation and hue rotation.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// Matrix is an affine color transform in row-major order:
//
//	[R']   [m0 m1  m2  m3 ]   [R]
//	[G'] = [m4 m5  m6  m7 ] * [G]
//	[B']   [m8 m9  m10 m11]   [B]
//	                          [1]
//
// The fourth column is an offset. Colors are in [0, 1].
type Matrix [12]float64

// Identity leaves colors unchanged.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	}
}

// HueRotate rotates the hue by angle radians around the luma axis.
func HueRotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928, 0,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283, 0,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072, 0,
	}
}

// Saturate blends between the luma (0) and the original color (1); factors
// above 1 push colors away from gray.
func Saturate(factor float64) Matrix {
	inv := 1 - factor
	return Matrix{
		lumR*inv + factor, lumG * inv, lumB * inv, 0,
		lumR * inv, lumG*inv + factor, lumB * inv, 0,
		lumR * inv, lumG * inv, lumB*inv + factor, 0,
	}
}

// Brightness adds offset to every channel.
func Brightness(offset float64) Matrix {
	return Matrix{
		1, 0, 0, offset,
		0, 1, 0, offset,
		0, 0, 1, offset,
	}
}

// Contrast scales every channel around mid gray: (c - 0.5) * factor + 0.5.
func Contrast(factor float64) Matrix {
	offset := 0.5 * (1 - factor)
	return Matrix{
		factor, 0, 0, offset,
		0, factor, 0, offset,
		0, 0, factor, offset,
	}
}

// ColorControls adjusts saturation, then brightness, then contrast.
func ColorControls(saturation, brightness, contrast float64) Matrix {
	return Saturate(saturation).Then(Brightness(brightness)).Then(Contrast(contrast))
}

// Exposure multiplies every channel by 2^stops.
func Exposure(stops float64) Matrix {
	f := math.Exp2(stops)
	return Matrix{
		f, 0, 0, 0,
		0, f, 0, 0,
		0, 0, f, 0,
	}
}

// Then returns the transform that applies m first and next second.
func (m Matrix) Then(next Matrix) Matrix {
	var out Matrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += next[row*4+k] * m[k*4+col]
			}
			if col == 3 {
				sum += next[row*4+3]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// Transform applies m to a straight-alpha color.
func (m *Matrix) Transform(r, g, b float64) (float64, float64, float64) {
	return m[0]*r + m[1]*g + m[2]*b + m[3],
		m[4]*r + m[5]*g + m[6]*b + m[7],
		m[8]*r + m[9]*g + m[10]*b + m[11]
}

// IsIdentity reports whether m leaves colors unchanged.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
