package stylus

import "math"

// SaturationGain scales tilt to saturation in [HueSaturation] mode: a flat
// stylus gives eight times the source saturation.
const SaturationGain = 8

// Update returns p with the two fields controlled by mode recomputed from s.
//
// Inactive samples and the [Off] mode leave p unchanged. Update has no side
// effects; equal arguments always produce identical results.
func Update(p Parameters, s Sample, mode Mode) Parameters {
	if !s.Active {
		return p
	}

	var (
		tilt   = s.Tilt()
		ux, uy = s.Heading()
	)
	switch mode {
	case HueSaturation:
		p.Hue = math.Pi + s.Azimuth
		p.Saturation = SaturationGain * tilt
	case BrightnessContrast:
		p.Brightness = ux * tilt
		p.Contrast = 1 - uy*tilt
	case GammaExposure:
		p.Gamma = 1 + ux*tilt
		p.Exposure = -uy * tilt
	}
	return p
}
