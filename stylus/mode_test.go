package stylus

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", Off},
		{"off", Off},
		{"Hue-Saturation", HueSaturation},
		{"brightness_contrast", BrightnessContrast},
		{"3", GammaExposure},
		{" gamma ", GammaExposure},
	}
	for _, test := range tests {
		v, err := ParseMode(test.in)
		if err != nil {
			t.Errorf("%q: unexpected error %v", test.in, err)
			continue
		}
		if v != test.want {
			t.Errorf("%q: expected %s, got %s", test.in, test.want, v)
		}
	}

	if _, err := ParseMode("sepia"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestModeJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Mode Mode `json:"mode"`
	}{BrightnessContrast})
	if err != nil {
		t.Fatal(err)
	}
	if v := string(b); v != `{"mode":"brightness-contrast"}` {
		t.Errorf("unexpected encoding %s", v)
	}

	var out struct {
		Mode Mode `json:"mode"`
	}
	if err = json.Unmarshal([]byte(`{"mode":"gamma-exposure"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.Mode != GammaExposure {
		t.Errorf("expected %s, got %s", GammaExposure, out.Mode)
	}
}

func TestParametersStatus(t *testing.T) {
	p := Parameters{Hue: math.Pi, Saturation: 8, Brightness: 0.25, Contrast: 0.5, Gamma: 1.5, Exposure: -1}
	tests := []struct {
		mode Mode
		want string
	}{
		{Off, "title"},
		{HueSaturation, "Hue: 180.00°      Saturation: 8.00"},
		{BrightnessContrast, "Brightness: 0.25      Contrast: 0.50"},
		{GammaExposure, "Gamma: 1.50      Exposure: -1.00 EV"},
	}
	for _, test := range tests {
		if v := p.Status(test.mode, "title"); v != test.want {
			t.Errorf("%s: expected %q, got %q", test.mode, test.want, v)
		}
	}
}
