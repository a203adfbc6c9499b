package stylus

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when parsing an unrecognized mode name.
var ErrUnknownMode = errors.New("stylus: unknown filtering mode")

// Mode selects which pair of filter parameters the stylus controls.
type Mode uint8

// Filtering modes.
const (
	Off                Mode = iota
	HueSaturation           // azimuth → hue, tilt → saturation
	BrightnessContrast      // heading × tilt → brightness, contrast
	GammaExposure           // heading × tilt → gamma, exposure
)

// Modes lists the modes that can be selected with a filter button.
var Modes = []Mode{HueSaturation, BrightnessContrast, GammaExposure}

var modeNames = [...]string{
	Off:                "off",
	HueSaturation:      "hue-saturation",
	BrightnessContrast: "brightness-contrast",
	GammaExposure:      "gamma-exposure",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode parses the text form of a mode. Underscores and case are ignored,
// and the numbers 0-3 are accepted as well.
func ParseMode(s string) (Mode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch name {
	case "", "0", "off", "none":
		return Off, nil
	case "1", "hue-saturation", "hue":
		return HueSaturation, nil
	case "2", "brightness-contrast", "brightness":
		return BrightnessContrast, nil
	case "3", "gamma-exposure", "gamma":
		return GammaExposure, nil
	}
	return Off, fmt.Errorf("%w %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if int(m) >= len(modeNames) {
		return nil, fmt.Errorf("%w %d", ErrUnknownMode, uint8(m))
	}
	return []byte(modeNames[m]), nil
}

func (m *Mode) UnmarshalText(text []byte) (err error) {
	*m, err = ParseMode(string(text))
	return
}
