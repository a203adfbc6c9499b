package stylus

import (
	"fmt"
	"math"
)

// Parameters are the filter settings accumulated across samples.
type Parameters struct {
	Hue        float64 `json:"hue"`        // radians
	Saturation float64 `json:"saturation"` // multiplier
	Brightness float64 `json:"brightness"` // additive offset
	Contrast   float64 `json:"contrast"`   // multiplier
	Gamma      float64 `json:"gamma"`      // power exponent
	Exposure   float64 `json:"exposure"`   // stops
}

// DefaultParameters leave an image unchanged.
func DefaultParameters() Parameters {
	return Parameters{
		Saturation: 1,
		Contrast:   1,
		Gamma:      1,
	}
}

// IsIdentity reports whether p equals [DefaultParameters].
func (p Parameters) IsIdentity() bool {
	return p == DefaultParameters()
}

// Status formats the two values controlled by mode as a single line. When
// mode is [Off], title is returned instead.
func (p Parameters) Status(mode Mode, title string) string {
	const gap = "      "
	switch mode {
	case HueSaturation:
		return fmt.Sprintf("Hue: %.2f°", p.Hue*180/math.Pi) + gap + fmt.Sprintf("Saturation: %.2f", p.Saturation)
	case BrightnessContrast:
		return fmt.Sprintf("Brightness: %.2f", p.Brightness) + gap + fmt.Sprintf("Contrast: %.2f", p.Contrast)
	case GammaExposure:
		return fmt.Sprintf("Gamma: %.2f", p.Gamma) + gap + fmt.Sprintf("Exposure: %.2f EV", p.Exposure)
	default:
		return title
	}
}
