package input

import (
	"math"

	"github.com/BeatGlow/pencil/stylus"
)

// Event types and codes from <linux/input-event-codes.h>.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0x00

	absX     = 0x00
	absY     = 0x01
	absTiltX = 0x1a
	absTiltY = 0x1b

	btnStylus3 = 0x149
	btnTouch   = 0x14a
	btnStylus  = 0x14b
	btnStylus2 = 0x14c
)

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// normalize maps v into [0, 1] over the axis range.
func (a absInfo) normalize(v int32) float64 {
	if a.Maximum <= a.Minimum {
		return 0
	}
	return clamp(float64(v-a.Minimum)/float64(a.Maximum-a.Minimum), 0, 1)
}

// degrees converts a tilt axis value to degrees. Drivers that report a
// resolution use units per radian; the others report degrees.
func (a absInfo) degrees(v int32) float64 {
	if a.Resolution > 0 {
		return float64(v) / float64(a.Resolution) * 180 / math.Pi
	}
	return float64(v)
}

// stylusButtons maps the barrel buttons to filter modes.
var stylusButtons = map[uint16]stylus.Mode{
	btnStylus:  stylus.HueSaturation,
	btnStylus2: stylus.BrightnessContrast,
	btnStylus3: stylus.GammaExposure,
}

// evdevDecoder collects input events between SYN_REPORTs and turns each
// report into stylus events.
type evdevDecoder struct {
	axes [4]absInfo // x, y, tilt x, tilt y

	x, y, tiltX, tiltY int32
	touch              bool
	held               uint16

	// pending changes of the current report
	moved   bool
	touched bool
	press   uint16
	release bool
}

func (d *evdevDecoder) axis(code uint16) (*absInfo, *int32) {
	switch code {
	case absX:
		return &d.axes[0], &d.x
	case absY:
		return &d.axes[1], &d.y
	case absTiltX:
		return &d.axes[2], &d.tiltX
	case absTiltY:
		return &d.axes[3], &d.tiltY
	}
	return nil, nil
}

// axisValue sets an axis value without marking the report as moved.
func (d *evdevDecoder) axisValue(code uint16, value int32) {
	if _, v := d.axis(code); v != nil {
		*v = value
	}
}

// input handles one event and appends the events of a completed report.
func (d *evdevDecoder) input(evs []stylus.Event, typ, code uint16, value int32) []stylus.Event {
	switch typ {
	case evAbs:
		if _, v := d.axis(code); v != nil && *v != value {
			*v = value
			d.moved = true
		}

	case evKey:
		switch {
		case code == btnTouch:
			if touch := value != 0; touch != d.touch {
				d.touch = touch
				d.touched = true
			}
		case stylusButtons[code] != stylus.Off:
			if value != 0 {
				d.press = code
			} else if code == d.held {
				d.release = true
			}
		}

	case evSyn:
		if code == synReport {
			evs = d.report(evs)
		}
	}
	return evs
}

func (d *evdevDecoder) report(evs []stylus.Event) []stylus.Event {
	if d.release && d.press == 0 {
		d.held = 0
		evs = append(evs, stylus.ReleaseEvent())
	}
	if d.press != 0 {
		d.held = d.press
		evs = append(evs, stylus.PressEvent(stylusButtons[d.press]))
	}
	switch {
	case d.touch && (d.moved || d.touched):
		evs = append(evs, stylus.SampleEvent(d.sample()))
	case !d.touch && d.touched:
		evs = append(evs, stylus.LiftEvent())
	}
	d.moved, d.touched, d.press, d.release = false, false, 0, false
	return evs
}

func (d *evdevDecoder) sample() stylus.Sample {
	s := stylus.Sample{
		Active: d.touch,
		X:      d.axes[0].normalize(d.x),
		Y:      d.axes[1].normalize(d.y),
	}
	s.Azimuth, s.Altitude = stylus.FromTilt(
		clamp(d.axes[2].degrees(d.tiltX), -90, 90),
		clamp(d.axes[3].degrees(d.tiltY), -90, 90),
	)
	return s
}
