// Package window shows frames in a desktop window and emulates a stylus with
// the mouse.
//
// Hold the left button to touch the surface; the cursor angle around the
// window centre sets the azimuth and its distance from the centre the tilt.
// Hold 1, 2 or 3 for the hue/saturation, brightness/contrast and
// gamma/exposure buttons, press R to restore the default parameters.
package window

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/BeatGlow/pencil/display"
	"github.com/BeatGlow/pencil/stylus"
)

// DefaultScale is the window size multiplier for small frames.
const DefaultScale = 2

// Window is a desktop window display.
type Window struct {
	*image.RGBA
	title   string
	scale   int
	events  *eventQueue
	tracker *pointerTracker
	buf     []stylus.Event

	mu      sync.Mutex
	frame   []byte
	dirty   bool
	visible bool
	closed  bool

	screen *ebiten.Image
}

// New creates a window for frames of the configured size. Events are
// produced on the channel returned by Events once Run is called.
func New(title string, config *display.Config) *Window {
	return &Window{
		RGBA:    image.NewRGBA(image.Rect(0, 0, config.Width, config.Height)),
		title:   title,
		scale:   DefaultScale,
		events:  newEventQueue(64),
		tracker: newPointerTracker(),
		frame:   make([]byte, config.Width*config.Height*4),
		visible: true,
	}
}

func (w *Window) String() string {
	b := w.Bounds()
	return fmt.Sprintf("window %dx%d", b.Dx(), b.Dy())
}

// Events returns the emulated stylus events.
func (w *Window) Events() <-chan stylus.Event {
	return w.events.out
}

// Run opens the window and blocks until it is closed or ctx is done. It must
// be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	b := w.Bounds()
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(b.Dx()*w.scale, b.Dy()*w.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	err := ebiten.RunGame(&game{w: w, ctx: ctx})
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	display.Logger().Infow("window_closed", "error", err)
	return err
}

func (w *Window) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

func (w *Window) Clear() {
	clear(w.Pix)
}

func (w *Window) ColorModel() color.Model {
	return color.RGBAModel
}

func (w *Window) Show(show bool) error {
	w.mu.Lock()
	w.visible = show
	w.dirty = true
	w.mu.Unlock()
	return nil
}

func (w *Window) SetContrast(_ uint8) error {
	return nil
}

func (w *Window) SetRotation(rotation display.Rotation) error {
	return display.Upright(rotation)
}

// DrawRGBA copies src into the back buffer, aligning sp with r.Min.
func (w *Window) DrawRGBA(r image.Rectangle, src *image.RGBA, sp image.Point) {
	delta := r.Min.Sub(sp)
	r = r.Intersect(w.Rect).Intersect(src.Rect.Add(delta))
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X-delta.X, y-delta.Y)
		di := w.PixOffset(r.Min.X, y)
		copy(w.Pix[di:di+n], src.Pix[si:si+n])
	}
}

// Refresh hands the back buffer to the window for the next draw.
func (w *Window) Refresh() error {
	w.mu.Lock()
	copy(w.frame, w.Pix)
	w.dirty = true
	w.mu.Unlock()
	return nil
}

type game struct {
	w   *Window
	ctx context.Context
}

func (g *game) Update() error {
	w := g.w
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	state := pointerState{
		X:    x,
		Y:    y,
		Down: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Buttons: [3]bool{
			ebiten.IsKeyPressed(ebiten.KeyDigit1),
			ebiten.IsKeyPressed(ebiten.KeyDigit2),
			ebiten.IsKeyPressed(ebiten.KeyDigit3),
		},
		Reset: ebiten.IsKeyPressed(ebiten.KeyR),
	}
	b := w.Bounds()
	w.buf = w.tracker.next(w.buf[:0], state, b.Dx(), b.Dy())
	w.events.push(w.buf...)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	w := g.w
	if w.screen == nil {
		b := w.Bounds()
		w.screen = ebiten.NewImage(b.Dx(), b.Dy())
	}

	w.mu.Lock()
	if w.dirty {
		if w.visible {
			w.screen.WritePixels(w.frame)
		} else {
			w.screen.Clear()
		}
		w.dirty = false
	}
	w.mu.Unlock()

	screen.DrawImage(w.screen, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	b := g.w.Bounds()
	return b.Dx(), b.Dy()
}

var (
	_ display.Display    = (*Window)(nil)
	_ display.RGBADrawer = (*Window)(nil)
)
