package window

import (
	"math"

	"github.com/BeatGlow/pencil/stylus"
)

// pointerState is one polled snapshot of mouse and keyboard.
type pointerState struct {
	X, Y    int
	Down    bool
	Buttons [3]bool // keys 1, 2 and 3
	Reset   bool    // key R
}

// buttonModes maps the held keys to filter modes.
var buttonModes = [3]stylus.Mode{
	stylus.HueSaturation,
	stylus.BrightnessContrast,
	stylus.GammaExposure,
}

// poseAt emulates a stylus pose from a cursor position. The angle of the
// cursor around the window centre is the azimuth, the distance from the
// centre is the tilt: upright at the centre, flat at the shorter half-edge.
func poseAt(x, y, w, h int, active bool) stylus.Sample {
	var (
		cx     = float64(w) / 2
		cy     = float64(h) / 2
		dx     = float64(x) - cx
		dy     = float64(y) - cy
		radius = math.Min(cx, cy)
		tilt   float64
	)
	if radius > 0 {
		tilt = math.Min(1, math.Hypot(dx, dy)/radius)
	}
	azimuth := math.Atan2(dy, dx)
	if azimuth < 0 {
		azimuth += 2 * math.Pi
	}
	s := stylus.Sample{
		Azimuth:  azimuth,
		Altitude: (1 - tilt) * math.Pi / 2,
		Active:   active,
	}
	if w > 0 && h > 0 {
		s.X = clamp01(float64(x) / float64(w))
		s.Y = clamp01(float64(y) / float64(h))
	}
	return s
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// pointerTracker turns successive pointer states into stylus events.
type pointerTracker struct {
	prev    pointerState
	started bool
	held    int // index into buttonModes, -1 when none is held
}

func newPointerTracker() *pointerTracker {
	return &pointerTracker{held: -1}
}

// next compares state with the previous poll and appends the resulting
// events to evs.
func (t *pointerTracker) next(evs []stylus.Event, state pointerState, w, h int) []stylus.Event {
	prev := t.prev
	t.prev = state

	// Buttons: the most recently pressed key wins; releasing it returns to Off.
	for i, down := range state.Buttons {
		if down && !prev.Buttons[i] {
			t.held = i
			evs = append(evs, stylus.PressEvent(buttonModes[i]))
		}
	}
	if t.held >= 0 && !state.Buttons[t.held] {
		t.held = -1
		evs = append(evs, stylus.ReleaseEvent())
	}
	if state.Reset && !prev.Reset {
		evs = append(evs, stylus.ResetEvent())
	}

	moved := !t.started || state.X != prev.X || state.Y != prev.Y
	t.started = true
	switch {
	case state.Down && (moved || !prev.Down):
		evs = append(evs, stylus.SampleEvent(poseAt(state.X, state.Y, w, h, true)))
	case !state.Down && prev.Down:
		evs = append(evs, stylus.LiftEvent())
	}
	return evs
}

// eventQueue delivers events to a channel without blocking the caller.
// Events that do not fit are kept in order; while waiting, a newer sample
// replaces a queued sample that directly precedes it. Button and contact
// events are never dropped.
type eventQueue struct {
	out     chan stylus.Event
	pending []stylus.Event
}

func newEventQueue(size int) *eventQueue {
	return &eventQueue{out: make(chan stylus.Event, size)}
}

// push delivers the pending events that fit, then evs.
func (q *eventQueue) push(evs ...stylus.Event) {
	q.flush()
	for _, ev := range evs {
		if len(q.pending) == 0 {
			select {
			case q.out <- ev:
				continue
			default:
			}
		}
		if n := len(q.pending); n > 0 && ev.Kind == stylus.EventSample && q.pending[n-1].Kind == stylus.EventSample {
			q.pending[n-1] = ev
			continue
		}
		q.pending = append(q.pending, ev)
	}
}

func (q *eventQueue) flush() {
	sent := 0
loop:
	for _, ev := range q.pending {
		select {
		case q.out <- ev:
			sent++
		default:
			break loop
		}
	}
	n := copy(q.pending, q.pending[sent:])
	clear(q.pending[n:])
	q.pending = q.pending[:n]
}
