// Package hud draws the status line and stylus indicator over filtered frames.
package hud

import (
	"image"
	"image/color"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the status line size in points at 72 DPI.
const DefaultFontSize = 18

// Label renders single lines of text.
type Label struct {
	face  font.Face
	color image.Image
}

// NewLabel returns a label using Go Regular at size points. A size of zero
// selects DefaultFontSize.
func NewLabel(size float64, c color.Color) (*Label, error) {
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return NewLabelWithFont(f, size, c), nil
}

// NewLabelWithFont returns a label for a parsed TrueType font.
func NewLabelWithFont(f *truetype.Font, size float64, c color.Color) *Label {
	if size <= 0 {
		size = DefaultFontSize
	}
	if c == nil {
		c = color.White
	}
	return &Label{
		face: truetype.NewFace(f, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		}),
		color: image.NewUniform(c),
	}
}

// Height is the line height in pixels.
func (l *Label) Height() int {
	m := l.face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// Width is the advance of text in pixels.
func (l *Label) Width(text string) int {
	return font.MeasureString(l.face, text).Ceil()
}

// Draw centres text in rect. Text wider than rect is clipped at both ends.
func (l *Label) Draw(dst *image.RGBA, text string, rect image.Rectangle) {
	if text == "" || rect.Empty() {
		return
	}
	var (
		m     = l.face.Metrics()
		width = font.MeasureString(l.face, text)
		x     = fixed.I(rect.Min.X) + (fixed.I(rect.Dx())-width)/2
		y     = fixed.I(rect.Min.Y) + (fixed.I(rect.Dy())-m.Ascent-m.Descent)/2 + m.Ascent
	)
	d := font.Drawer{
		Dst:  clip{dst, rect},
		Src:  l.color,
		Face: l.face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(text)
}

// clip restricts drawing to a rectangle of an RGBA image.
type clip struct {
	*image.RGBA
	r image.Rectangle
}

func (c clip) Bounds() image.Rectangle {
	return c.r.Intersect(c.RGBA.Rect)
}
