package stylus

import (
	"math"
	"testing"
)

const epsilon = 1e-12

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestUpdateNoop(t *testing.T) {
	start := Parameters{Hue: 1, Saturation: 2, Brightness: 3, Contrast: 4, Gamma: 5, Exposure: 6}
	samples := []Sample{
		{Azimuth: 0, Altitude: 0, Active: false},
		{Azimuth: 1.5, Altitude: 0.3, Active: false},
		{Azimuth: -3, Altitude: math.Pi / 2, Active: true},
	}
	for _, mode := range []Mode{Off, HueSaturation, BrightnessContrast, GammaExposure} {
		for _, s := range samples {
			if !s.Active || mode == Off {
				if v := Update(start, s, mode); v != start {
					t.Errorf("%s %+v: expected parameters unchanged, got %+v", mode, s, v)
				}
			}
		}
		if v := Update(start, Sample{Azimuth: 1, Altitude: 0.5, Active: true}, Off); v != start {
			t.Errorf("off: expected parameters unchanged, got %+v", v)
		}
	}
}

func TestUpdateHueSaturation(t *testing.T) {
	p := Update(DefaultParameters(), Sample{Azimuth: 0, Altitude: 0, Active: true}, HueSaturation)
	if p.Hue != math.Pi {
		t.Errorf("expected hue π, got %g", p.Hue)
	}
	if p.Saturation != 8 {
		t.Errorf("expected saturation 8, got %g", p.Saturation)
	}

	p = Update(DefaultParameters(), Sample{Azimuth: 0, Altitude: math.Pi / 2, Active: true}, HueSaturation)
	if p.Saturation != 0 {
		t.Errorf("expected saturation 0 for an upright stylus, got %g", p.Saturation)
	}

	p = Update(DefaultParameters(), Sample{Azimuth: -math.Pi / 2, Altitude: math.Pi / 4, Active: true}, HueSaturation)
	if !near(p.Hue, math.Pi/2) {
		t.Errorf("expected hue π/2, got %g", p.Hue)
	}
	if !near(p.Saturation, 4) {
		t.Errorf("expected saturation 4, got %g", p.Saturation)
	}
}

func TestUpdateBrightnessContrast(t *testing.T) {
	p := Update(DefaultParameters(), Sample{Azimuth: math.Pi / 2, Altitude: 0, Active: true}, BrightnessContrast)
	if !near(p.Brightness, 0) {
		t.Errorf("expected brightness 0, got %g", p.Brightness)
	}
	if !near(p.Contrast, 0) {
		t.Errorf("expected contrast 0, got %g", p.Contrast)
	}

	p = Update(DefaultParameters(), Sample{Azimuth: math.Pi, Altitude: math.Pi / 4, Active: true}, BrightnessContrast)
	if !near(p.Brightness, -0.5) {
		t.Errorf("expected brightness -0.5, got %g", p.Brightness)
	}
	if !near(p.Contrast, 1) {
		t.Errorf("expected contrast 1, got %g", p.Contrast)
	}
}

func TestUpdateGammaExposure(t *testing.T) {
	p := Update(DefaultParameters(), Sample{Azimuth: 0, Altitude: 0, Active: true}, GammaExposure)
	if !near(p.Gamma, 2) {
		t.Errorf("expected gamma 2, got %g", p.Gamma)
	}
	if !near(p.Exposure, 0) {
		t.Errorf("expected exposure 0, got %g", p.Exposure)
	}

	p = Update(DefaultParameters(), Sample{Azimuth: -math.Pi / 2, Altitude: 0, Active: true}, GammaExposure)
	if !near(p.Gamma, 1) {
		t.Errorf("expected gamma 1, got %g", p.Gamma)
	}
	if !near(p.Exposure, 1) {
		t.Errorf("expected exposure 1, got %g", p.Exposure)
	}
}

func TestUpdateFieldIsolation(t *testing.T) {
	tests := []struct {
		mode    Mode
		touched func(a, b Parameters) bool // reports whether fields outside the mode differ
	}{
		{HueSaturation, func(a, b Parameters) bool {
			return a.Brightness != b.Brightness || a.Contrast != b.Contrast || a.Gamma != b.Gamma || a.Exposure != b.Exposure
		}},
		{BrightnessContrast, func(a, b Parameters) bool {
			return a.Hue != b.Hue || a.Saturation != b.Saturation || a.Gamma != b.Gamma || a.Exposure != b.Exposure
		}},
		{GammaExposure, func(a, b Parameters) bool {
			return a.Hue != b.Hue || a.Saturation != b.Saturation || a.Brightness != b.Brightness || a.Contrast != b.Contrast
		}},
	}
	start := Parameters{Hue: 0.1, Saturation: 0.2, Brightness: 0.3, Contrast: 0.4, Gamma: 0.5, Exposure: 0.6}
	for _, test := range tests {
		t.Run(test.mode.String(), func(it *testing.T) {
			p := start
			for i := 0; i < 100; i++ {
				p = Update(p, Sample{
					Azimuth:  float64(i)*0.37 - 10,
					Altitude: math.Mod(float64(i)*0.11, math.Pi/2),
					Active:   true,
				}, test.mode)
			}
			if test.touched(start, p) {
				it.Errorf("expected fields outside %s untouched, started with %+v, got %+v", test.mode, start, p)
			}
		})
	}
}

func TestUpdateSticky(t *testing.T) {
	s := Sample{Azimuth: 0.7, Altitude: 0.2, Active: true}
	p := Update(DefaultParameters(), s, HueSaturation)
	hue, saturation := p.Hue, p.Saturation

	p = Update(p, Sample{Azimuth: 2.1, Altitude: 1.1, Active: true}, BrightnessContrast)
	p = Update(p, Sample{Azimuth: 2.1, Altitude: 1.1, Active: false}, HueSaturation)
	if p.Hue != hue || p.Saturation != saturation {
		t.Errorf("expected hue %g and saturation %g to be kept, got %g and %g", hue, saturation, p.Hue, p.Saturation)
	}
}

func TestUpdatePure(t *testing.T) {
	p := Parameters{Hue: 0.5, Saturation: 1.5, Brightness: -0.2, Contrast: 0.9, Gamma: 1.2, Exposure: -0.4}
	s := Sample{Azimuth: 1.234567, Altitude: 0.7654321, Active: true}
	for _, mode := range Modes {
		a, b := Update(p, s, mode), Update(p, s, mode)
		if math.Float64bits(a.Hue) != math.Float64bits(b.Hue) ||
			math.Float64bits(a.Saturation) != math.Float64bits(b.Saturation) ||
			math.Float64bits(a.Brightness) != math.Float64bits(b.Brightness) ||
			math.Float64bits(a.Contrast) != math.Float64bits(b.Contrast) ||
			math.Float64bits(a.Gamma) != math.Float64bits(b.Gamma) ||
			math.Float64bits(a.Exposure) != math.Float64bits(b.Exposure) {
			t.Errorf("%s: expected identical results, got %+v and %+v", mode, a, b)
		}
	}
}
