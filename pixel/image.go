package pixel

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/BeatGlow/pencil/draw"
)

// Image is a drawable image that can be cleared and filled.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	clear(p.Pix)
}

// Packed16Image stores two bytes per pixel.
type Packed16Image struct {
	Buffer

	// Layout of the color fields.
	Layout Layout

	// Order is the byte order of each pixel in Pix.
	Order binary.ByteOrder
}

// NewPacked16Image allocates a w×h image in big endian byte order.
func NewPacked16Image(w, h int, layout Layout) *Packed16Image {
	return &Packed16Image{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, w*2*h),
			Stride: w * 2,
		},
		Layout: layout,
		Order:  binary.BigEndian,
	}
}

func (p *Packed16Image) ColorModel() color.Model {
	return p.Layout.Model()
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Packed16Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *Packed16Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return Packed16{V: p.Order.Uint16(p.Pix[p.PixOffset(x, y):]), Layout: p.Layout}
}

func (p *Packed16Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	r, g, b, _ := c.RGBA()
	p.Order.PutUint16(p.Pix[p.PixOffset(x, y):], p.Layout.Pack(r, g, b))
}

func (p *Packed16Image) Fill(c color.Color) {
	r, g, b, _ := c.RGBA()
	var v [2]byte
	p.Order.PutUint16(v[:], p.Layout.Pack(r, g, b))
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		i := p.PixOffset(p.Rect.Min.X, y)
		for j := 0; j < p.Rect.Dx(); j++ {
			copy(p.Pix[i+j*2:], v[:])
		}
	}
}

// DrawRGBA copies an RGBA image into p, aligning sp in src with r.Min. It is
// a faster path for the common case of pushing a rendered frame.
func (p *Packed16Image) DrawRGBA(r image.Rectangle, src *image.RGBA, sp image.Point) {
	delta := r.Min.Sub(sp)
	r = r.Intersect(p.Rect).Intersect(src.Rect.Add(delta))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		var (
			si = src.PixOffset(r.Min.X-delta.X, y-delta.Y)
			di = p.PixOffset(r.Min.X, y)
		)
		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.Pix[si : si+3 : si+3]
			p.Order.PutUint16(p.Pix[di:], p.Layout.Pack(uint32(s[0])*0x101, uint32(s[1])*0x101, uint32(s[2])*0x101))
			si += 4
			di += 2
		}
	}
}

// Interface checks.
var (
	_ Image = (*Packed16Image)(nil)
)
