package stylus

import "fmt"

// EventKind identifies the kind of an input [Event].
type EventKind uint8

// Event kinds.
const (
	EventSample  EventKind = iota // a new pose sample
	EventPress                    // a filter button was pressed
	EventRelease                  // the filter button was released
	EventLift                     // the stylus left the surface
	EventReset                    // restore the default parameters
)

func (k EventKind) String() string {
	switch k {
	case EventSample:
		return "sample"
	case EventPress:
		return "press"
	case EventRelease:
		return "release"
	case EventLift:
		return "lift"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is produced by input sources and consumed by a [Controller].
type Event struct {
	Kind EventKind

	// Mode is the mode selected by an [EventPress].
	Mode Mode

	// Sample is the pose of an [EventSample].
	Sample Sample
}

// SampleEvent wraps s in an [EventSample].
func SampleEvent(s Sample) Event { return Event{Kind: EventSample, Sample: s} }

// PressEvent returns an [EventPress] for mode.
func PressEvent(mode Mode) Event { return Event{Kind: EventPress, Mode: mode} }

// ReleaseEvent returns an [EventRelease].
func ReleaseEvent() Event { return Event{Kind: EventRelease} }

// LiftEvent returns an [EventLift].
func LiftEvent() Event { return Event{Kind: EventLift} }

// ResetEvent returns an [EventReset].
func ResetEvent() Event { return Event{Kind: EventReset} }
