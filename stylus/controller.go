package stylus

// Controller tracks the selected filtering mode and owns the filter parameters.
//
// The zero value is not usable, use [NewController].
type Controller struct {
	mode   Mode
	params Parameters
	last   Sample
}

// NewController returns a controller in [Off] mode with default parameters.
func NewController() *Controller {
	return &Controller{params: DefaultParameters()}
}

// Mode is the currently selected mode.
func (c *Controller) Mode() Mode { return c.mode }

// Parameters returns the current filter parameters.
func (c *Controller) Parameters() Parameters { return c.params }

// Sample returns the most recent sample passed to Move.
func (c *Controller) Sample() Sample { return c.last }

// Press selects mode. Pressing [Off] is the same as Release.
func (c *Controller) Press(mode Mode) {
	c.mode = mode
}

// Release returns to [Off] mode.
func (c *Controller) Release() {
	c.mode = Off
}

// Lift returns to [Off] mode and marks the stylus as no longer in contact.
func (c *Controller) Lift() {
	c.mode = Off
	c.last.Active = false
}

// Move applies a sample and reports whether the parameters changed.
func (c *Controller) Move(s Sample) bool {
	c.last = s
	if c.mode == Off {
		return false
	}
	next := Update(c.params, s, c.mode)
	if next == c.params {
		return false
	}
	c.params = next
	return true
}

// Reset restores the default parameters without changing the mode and
// reports whether they changed.
func (c *Controller) Reset() bool {
	if c.params == DefaultParameters() {
		return false
	}
	c.params = DefaultParameters()
	return true
}

// Handle dispatches an input event and reports whether the parameters changed.
func (c *Controller) Handle(ev Event) bool {
	switch ev.Kind {
	case EventSample:
		return c.Move(ev.Sample)
	case EventPress:
		c.Press(ev.Mode)
	case EventRelease:
		c.Release()
	case EventLift:
		c.Lift()
	case EventReset:
		return c.Reset()
	}
	return false
}
