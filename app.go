package pencil

import (
	"context"
	"image"
	"sync"

	"github.com/BeatGlow/pencil/display"
	"github.com/BeatGlow/pencil/filter"
	"github.com/BeatGlow/pencil/hud"
	"github.com/BeatGlow/pencil/internal/logger"
	"github.com/BeatGlow/pencil/stylus"
)

// DefaultTitle is shown in the status line while no filter button is held.
const DefaultTitle = "flexmonkey.blogspot.co.uk"

// State is a snapshot of the application state, published after every
// rendered frame.
type State struct {
	Mode       stylus.Mode       `json:"mode"`
	Parameters stylus.Parameters `json:"parameters"`
	Sample     stylus.Sample     `json:"sample"`
	Status     string            `json:"status"`
	Stages     []string          `json:"stages"`
	Frames     int               `json:"frames"`
}

// Config is the App configuration.
type Config struct {
	// Title is the status line while no mode is selected.
	Title string

	// Workers is the number of row bands filtered concurrently.
	Workers int

	// Renderer draws the status line and indicator; nil shows only the
	// filtered image.
	Renderer *hud.Renderer

	// Logger defaults to a no-op logger.
	Logger *logger.Logger
}

// App owns the mode controller and renders filtered frames to a display.
// Events are handled on a single goroutine; State and Subscribe may be
// used from others.
type App struct {
	display    display.Display
	source     image.Image
	controller *stylus.Controller
	chain      filter.Chain
	renderer   *hud.Renderer
	title      string
	log        *logger.Logger

	filtered *image.RGBA
	frame    *image.RGBA
	pipeline filter.Pipeline
	applied  *stylus.Parameters

	mu          sync.Mutex
	state       State
	subscribers []func(State)
}

// New returns an App showing src on d. The source is fitted to the display
// bounds.
func New(d display.Display, src image.Image, config *Config) *App {
	if config == nil {
		config = new(Config)
	}
	title := config.Title
	if title == "" {
		title = DefaultTitle
	}
	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}

	b := d.Bounds()
	a := &App{
		display:    d,
		source:     Fit(src, b),
		controller: stylus.NewController(),
		chain:      filter.Chain{Workers: config.Workers},
		renderer:   config.Renderer,
		title:      title,
		log:        log,
		filtered:   image.NewRGBA(b),
		frame:      image.NewRGBA(b),
	}
	a.state = a.snapshot()
	return a
}

// Controller returns the mode controller.
func (a *App) Controller() *stylus.Controller {
	return a.controller
}

// State returns the state of the last rendered frame.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Subscribe registers fn to be called with the state after every rendered
// frame. It is called on the goroutine running the App.
func (a *App) Subscribe(fn func(State)) {
	a.mu.Lock()
	a.subscribers = append(a.subscribers, fn)
	a.mu.Unlock()
}

func (a *App) snapshot() State {
	var (
		mode   = a.controller.Mode()
		params = a.controller.Parameters()
	)
	return State{
		Mode:       mode,
		Parameters: params,
		Sample:     a.controller.Sample(),
		Status:     params.Status(mode, a.title),
		Stages:     a.pipeline.Stages(),
	}
}

// visible is the part of the state that changes what is drawn.
type visible struct {
	mode   stylus.Mode
	params stylus.Parameters
	sample stylus.Sample
}

func (a *App) visible() visible {
	v := visible{
		mode:   a.controller.Mode(),
		params: a.controller.Parameters(),
		sample: a.controller.Sample(),
	}
	if !v.sample.Active {
		// The indicator is hidden, so the pose does not matter.
		v.sample = stylus.Sample{}
	}
	return v
}

// Handle applies one event and reports whether the frame needs redrawing.
func (a *App) Handle(ev stylus.Event) bool {
	before := a.visible()
	if a.controller.Handle(ev) {
		a.log.Debugw("parameters_changed", "mode", a.controller.Mode().String(), "parameters", a.controller.Parameters())
	}
	after := a.visible()
	if before.mode != after.mode {
		a.log.Infow("mode_changed", "from", before.mode.String(), "to", after.mode.String())
	}
	return before != after
}

// Render filters the source with the current parameters, composes the
// overlay and pushes the frame to the display.
func (a *App) Render() error {
	params := a.controller.Parameters()
	if a.applied == nil || *a.applied != params {
		a.pipeline = filter.Compile(params)
		a.chain.ApplyPipeline(a.filtered, a.source, &a.pipeline)
		a.applied = &params
	}

	st := a.snapshot()
	if a.renderer != nil {
		if err := a.renderer.Compose(a.frame, a.filtered, hud.State{Status: st.Status, Sample: st.Sample}); err != nil {
			return err
		}
	} else {
		copy(a.frame.Pix, a.filtered.Pix)
	}
	if err := display.Push(a.display, a.frame); err != nil {
		return err
	}

	a.mu.Lock()
	st.Frames = a.state.Frames + 1
	a.state = st
	subscribers := a.subscribers
	a.mu.Unlock()

	for _, fn := range subscribers {
		fn(st)
	}
	return nil
}

// Run renders the first frame, then handles events until ctx is done or
// events is closed. Every event that changes what is shown is rendered
// before the next one is read.
func (a *App) Run(ctx context.Context, events <-chan stylus.Event) error {
	if err := a.Render(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.Handle(ev) {
				continue
			}
			if err := a.Render(); err != nil {
				return err
			}
		}
	}
}
