package pixel

import (
	"image"
	"image/color"
)

// Gray4Model converts colors to 4-bit grayscale.
var Gray4Model color.Model = color.ModelFunc(gray4Model)

// Gray4 represents a 4-bit grayscale color.
type Gray4 struct {
	Y uint8
}

func (c Gray4) RGBA() (r, g, b, a uint32) {
	y := uint32(c.Y&0xf) * 0x1111
	return y, y, y, 0xffff
}

func gray4Model(c color.Color) color.Color {
	if _, ok := c.(Gray4); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return Gray4{Y: luma4(r, g, b)}
}

// luma4 returns the Rec. 601 luma of 16-bit components, rounded to 4 bits.
func luma4(r, g, b uint32) uint8 {
	y := (299*r + 587*g + 114*b + 500) / 1000
	return uint8((y*15 + 0x7fff) / 0xffff)
}

// Gray4Image is a 4-bits per pixel gray scale image. The left pixel of each
// pair is stored in the high nibble.
type Gray4Image struct {
	Buffer
}

// NewGray4Image allocates a w×h image.
func NewGray4Image(w, h int) *Gray4Image {
	stride := (w + 1) / 2
	return &Gray4Image{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, stride*h),
			Stride: stride,
		},
	}
}

func (p *Gray4Image) ColorModel() color.Model {
	return Gray4Model
}

func (p *Gray4Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return Gray4{Y: p.get(x, y)}
}

func (p *Gray4Image) get(x, y int) uint8 {
	x -= p.Rect.Min.X
	i := (y-p.Rect.Min.Y)*p.Stride + x>>1
	if x&1 == 0 {
		return p.Pix[i] >> 4
	}
	return p.Pix[i] & 0xf
}

func (p *Gray4Image) set(x, y int, v uint8) {
	x -= p.Rect.Min.X
	i := (y-p.Rect.Min.Y)*p.Stride + x>>1
	if x&1 == 0 {
		p.Pix[i] = p.Pix[i]&0x0f | v<<4
	} else {
		p.Pix[i] = p.Pix[i]&0xf0 | v
	}
}

func (p *Gray4Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.set(x, y, gray4Model(c).(Gray4).Y&0xf)
}

func (p *Gray4Image) Fill(c color.Color) {
	v := gray4Model(c).(Gray4).Y & 0xf
	v |= v << 4
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// DrawRGBA converts an RGBA image to gray into p, aligning sp in src with
// r.Min.
func (p *Gray4Image) DrawRGBA(r image.Rectangle, src *image.RGBA, sp image.Point) {
	delta := r.Min.Sub(sp)
	r = r.Intersect(p.Rect).Intersect(src.Rect.Add(delta))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X-delta.X, y-delta.Y)
		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.Pix[si : si+3 : si+3]
			p.set(x, y, luma4(uint32(s[0])*0x101, uint32(s[1])*0x101, uint32(s[2])*0x101))
			si += 4
		}
	}
}

var (
	_ Image = (*Gray4Image)(nil)
)
