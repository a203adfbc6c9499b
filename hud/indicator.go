package hud

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"

	"github.com/BeatGlow/pencil/stylus"
)

// DefaultIndicatorLength is the on-screen shaft length of a flat stylus.
const DefaultIndicatorLength = 48

// Indicator draws the stylus pose: a shaft from the contact point towards the
// azimuth, foreshortened by the altitude, with a nib dot and a tilt ring.
type Indicator struct {
	// Length is the shaft length in pixels when the stylus lies flat.
	Length float64

	// Color of the shaft and nib.
	Color color.RGBA

	ctx  *gg.Context
	size int
}

// NewIndicator returns an indicator with the default length and color.
func NewIndicator() *Indicator {
	return &Indicator{
		Length: DefaultIndicatorLength,
		Color:  color.RGBA{R: 0xff, G: 0xcc, B: 0x33, A: 0xff},
	}
}

// Close releases the drawing context.
func (ind *Indicator) Close() error {
	if ind.ctx == nil {
		return nil
	}
	err := ind.ctx.Close()
	ind.ctx = nil
	return err
}

// Tip returns the end of the shaft for a contact point at (x, y).
func (ind *Indicator) Tip(x, y float64, s stylus.Sample) (float64, float64) {
	var (
		n      = ind.Length * math.Cos(s.Altitude)
		ux, uy = s.Heading()
	)
	return x + ux*n, y + uy*n
}

// Draw composites the indicator over dst with its contact point at p.
func (ind *Indicator) Draw(dst *image.RGBA, p image.Point, s stylus.Sample) error {
	size := 2*int(math.Ceil(ind.Length)) + 8
	if ind.ctx == nil || ind.size != size {
		if err := ind.Close(); err != nil {
			return err
		}
		ind.ctx = gg.NewContext(size, size)
		ind.size = size
	}
	dc := ind.ctx
	dc.Clear()

	var (
		c      = float64(size) / 2
		r, g   = float64(ind.Color.R) / 0xff, float64(ind.Color.G) / 0xff
		b, a   = float64(ind.Color.B) / 0xff, float64(ind.Color.A) / 0xff
		tx, ty = ind.Tip(c, c, s)
	)

	// Tilt ring: grows from nothing (upright) to the full length (flat).
	if tilt := s.Tilt(); tilt > 0 {
		dc.SetRGBA(1, 1, 1, 0.35)
		dc.SetLineWidth(1)
		dc.DrawCircle(c, c, ind.Length*tilt)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	dc.SetRGBA(r, g, b, a)
	dc.SetLineWidth(3)
	dc.SetLineCap(gg.LineCapRound)
	dc.DrawLine(c, c, tx, ty)
	if err := dc.Stroke(); err != nil {
		return err
	}

	dc.DrawCircle(c, c, 4)
	if err := dc.Fill(); err != nil {
		return err
	}

	src := dc.Image()
	at := p.Sub(image.Pt(size/2, size/2))
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}, src, src.Bounds().Min, draw.Over)
	return nil
}
