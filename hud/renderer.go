package hud

import (
	"image"
	"image/color"
	"math"

	"github.com/BeatGlow/pencil/draw"
	"github.com/BeatGlow/pencil/stylus"
)

// State is everything drawn on top of the filtered image.
type State struct {
	// Status is the text of the status line.
	Status string

	// Sample is the latest stylus pose.
	Sample stylus.Sample
}

// Visible reports whether the indicator is shown.
func (s State) Visible() bool {
	return s.Sample.Active
}

// Renderer composes output frames.
type Renderer struct {
	Label     *Label
	Indicator *Indicator

	// Backdrop behind the status line.
	Backdrop color.Color

	// Crosshair marks the contact point.
	Crosshair color.Color

	mask *image.Alpha
}

// NewRenderer returns a renderer with the default look. A nil indicator
// disables it.
func NewRenderer(label *Label, indicator *Indicator) *Renderer {
	return &Renderer{
		Label:     label,
		Indicator: indicator,
		Backdrop:  color.RGBA{A: 0x99},
		Crosshair: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

// Close releases the indicator resources.
func (r *Renderer) Close() error {
	if r.Indicator != nil {
		return r.Indicator.Close()
	}
	return nil
}

// StatusRect is the area of the status line in a frame.
func (r *Renderer) StatusRect(bounds image.Rectangle) image.Rectangle {
	h := 0
	if r.Label != nil {
		h = r.Label.Height() + 8
	}
	return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+h).Intersect(bounds)
}

// ContactPoint maps the sample position to a pixel in bounds.
func ContactPoint(bounds image.Rectangle, s stylus.Sample) image.Point {
	return image.Point{
		X: bounds.Min.X + int(math.Round(s.X*float64(bounds.Dx()-1))),
		Y: bounds.Min.Y + int(math.Round(s.Y*float64(bounds.Dy()-1))),
	}
}

// Compose draws filtered into dst, then the status line and, while the
// stylus is in contact, the indicator.
func (r *Renderer) Compose(dst *image.RGBA, filtered image.Image, st State) error {
	b := dst.Bounds()
	draw.Draw(dst, b, filtered, filtered.Bounds().Min, draw.Src)

	if r.Label != nil && st.Status != "" {
		rect := r.StatusRect(b).Inset(2)
		r.backdrop(dst, rect)
		r.Label.Draw(dst, st.Status, rect)
	}

	if !st.Visible() {
		return nil
	}
	p := ContactPoint(b, st.Sample)
	if r.Crosshair != nil {
		draw.HorizontalLine(dst, p.X-6, p.Y, 4, r.Crosshair)
		draw.HorizontalLine(dst, p.X+3, p.Y, 4, r.Crosshair)
		draw.VerticalLine(dst, p.X, p.Y-6, 4, r.Crosshair)
		draw.VerticalLine(dst, p.X, p.Y+3, 4, r.Crosshair)
		draw.Circle(dst, p, 8, r.Crosshair)
	}
	if r.Indicator != nil {
		return r.Indicator.Draw(dst, p, st.Sample)
	}
	return nil
}

// backdrop blends a rounded box behind the status text.
func (r *Renderer) backdrop(dst *image.RGBA, rect image.Rectangle) {
	if rect.Empty() || r.Backdrop == nil {
		return
	}
	if r.mask == nil || r.mask.Rect != rect {
		r.mask = image.NewAlpha(rect)
		draw.RoundedBox(r.mask, rect, rect.Dy()/3, color.Opaque)
	}
	draw.DrawMask(dst, rect, image.NewUniform(r.Backdrop), image.Point{}, r.mask, rect.Min, draw.Over)
}
