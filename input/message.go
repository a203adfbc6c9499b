package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/BeatGlow/pencil/stylus"
)

// ErrMessage is returned for messages that do not describe an event.
var ErrMessage = errors.New("input: invalid message")

// Message types.
const (
	TypeSample  = "sample"
	TypePress   = "press"
	TypeRelease = "release"
	TypeLift    = "lift"
	TypeReset   = "reset"
	TypeState   = "state"
	TypeError   = "error"
)

// Message is the wire form of an event.
type Message struct {
	Type     string   `json:"type"`
	Mode     string   `json:"mode,omitempty"`
	Azimuth  *float64 `json:"azimuth,omitempty"`
	Altitude *float64 `json:"altitude,omitempty"`
	TiltX    *float64 `json:"tilt_x,omitempty"`
	TiltY    *float64 `json:"tilt_y,omitempty"`
	Active   bool     `json:"active,omitempty"`
	X        float64  `json:"x,omitempty"`
	Y        float64  `json:"y,omitempty"`
	Data     any      `json:"data,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Decode parses one JSON message into an event.
func Decode(data []byte) (stylus.Event, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return stylus.Event{}, fmt.Errorf("%w: %v", ErrMessage, err)
	}
	return m.Event()
}

// Event converts the message to an event.
func (m Message) Event() (stylus.Event, error) {
	switch m.Type {
	case TypeSample:
		return stylus.SampleEvent(m.sample()), nil
	case TypePress:
		mode, err := stylus.ParseMode(m.Mode)
		if err != nil {
			return stylus.Event{}, fmt.Errorf("%w: %v", ErrMessage, err)
		}
		if mode == stylus.Off {
			return stylus.ReleaseEvent(), nil
		}
		return stylus.PressEvent(mode), nil
	case TypeRelease:
		return stylus.ReleaseEvent(), nil
	case TypeLift:
		return stylus.LiftEvent(), nil
	case TypeReset:
		return stylus.ResetEvent(), nil
	default:
		return stylus.Event{}, fmt.Errorf("%w: unknown type %q", ErrMessage, m.Type)
	}
}

func (m Message) sample() stylus.Sample {
	s := stylus.Sample{
		Active: m.Active,
		X:      clamp(m.X, 0, 1),
		Y:      clamp(m.Y, 0, 1),
	}
	if m.TiltX != nil || m.TiltY != nil {
		var tx, ty float64
		if m.TiltX != nil {
			tx = clamp(*m.TiltX, -90, 90)
		}
		if m.TiltY != nil {
			ty = clamp(*m.TiltY, -90, 90)
		}
		s.Azimuth, s.Altitude = stylus.FromTilt(tx, ty)
		return s
	}
	if m.Azimuth != nil {
		s.Azimuth = *m.Azimuth
	}
	if m.Altitude != nil {
		s.Altitude = clamp(*m.Altitude, 0, math.Pi/2)
	}
	return s
}

// Encode returns the wire form of ev.
func Encode(ev stylus.Event) ([]byte, error) {
	var m Message
	switch ev.Kind {
	case stylus.EventSample:
		s := ev.Sample
		m = Message{
			Type:     TypeSample,
			Azimuth:  &s.Azimuth,
			Altitude: &s.Altitude,
			Active:   s.Active,
			X:        s.X,
			Y:        s.Y,
		}
	case stylus.EventPress:
		m = Message{Type: TypePress, Mode: ev.Mode.String()}
	case stylus.EventRelease:
		m = Message{Type: TypeRelease}
	case stylus.EventLift:
		m = Message{Type: TypeLift}
	case stylus.EventReset:
		m = Message{Type: TypeReset}
	default:
		return nil, fmt.Errorf("%w: unknown event %s", ErrMessage, ev.Kind)
	}
	return json.Marshal(m)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
