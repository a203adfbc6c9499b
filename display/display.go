// Package display contains the frame outputs: SPI TFT panels, in-memory
// images and PNG files. Linux framebuffers and desktop windows live in the
// framebuffer and window subpackages.
package display

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/pencil/internal/logger"
)

// Errors
var (
	ErrBounds   = errors.New("display: out of display bounds")
	ErrRotation = errors.New("display: invalid rotation")
	ErrDriver   = errors.New("display: unsupported driver")
)

var loggerPtr atomic.Pointer[logger.Logger]

func init() {
	loggerPtr.Store(logger.Nop())
}

// SetLogger configures the logger used by the display drivers. Pass nil to
// discard log output, which is the default.
func SetLogger(l *logger.Logger) {
	if l == nil {
		l = logger.Nop()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger used by the display drivers.
func Logger() *logger.Logger {
	return loggerPtr.Load()
}

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// ParseRotation parses a rotation in degrees or by name.
func ParseRotation(s string) (Rotation, error) {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), "°")) {
	case "", "no", "0":
		return NoRotation, nil
	case "90", "right", "cw":
		return Rotate90, nil
	case "180", "flip":
		return Rotate180, nil
	case "270", "left", "ccw":
		return Rotate270, nil
	default:
		return NoRotation, fmt.Errorf("%w %q", ErrRotation, s)
	}
}

// Upright is the SetRotation of displays that cannot rotate: it accepts
// only NoRotation.
func Upright(rotation Rotation) error {
	if rotation&3 != NoRotation {
		return fmt.Errorf("%w: %s is not supported", ErrRotation, rotation)
	}
	return nil
}

// Display is a frame output.
type Display interface {
	// Close the display driver.
	Close() error

	// Clear the display buffer.
	Clear()

	// At returns the color of the pixel at (x, y).
	At(x, y int) color.Color

	// Set the pixel color at (x, y).
	Set(x, y int, c color.Color)

	// Bounds is the display bounding box (dimensions).
	Bounds() image.Rectangle

	// ColorModel used by the display.
	ColorModel() color.Model

	// Show toggles the display on or off.
	Show(bool) error

	// SetContrast adjusts the contrast level.
	SetContrast(level uint8) error

	// SetRotation adjusts the pixel rotation.
	SetRotation(Rotation) error

	// Refresh redraws the display.
	Refresh() error
}

// RGBADrawer is implemented by displays with a fast path for RGBA frames.
type RGBADrawer interface {
	DrawRGBA(r image.Rectangle, src *image.RGBA, sp image.Point)
}

// Push copies frame into the display buffer and refreshes the display.
func Push(d Display, frame *image.RGBA) error {
	r := d.Bounds()
	if fast, ok := d.(RGBADrawer); ok {
		fast.DrawRGBA(r, frame, frame.Rect.Min)
	} else {
		draw.Draw(d, r, frame, frame.Rect.Min, draw.Src)
	}
	return d.Refresh()
}

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int

	// Rotation of the display.
	Rotation Rotation

	// Backlight pin, optional.
	Backlight gpio.PinOut
}
