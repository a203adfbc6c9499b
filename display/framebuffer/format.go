package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/pencil/pixel"
)

// ErrFormat is returned for pixel formats the package cannot draw to.
var ErrFormat = errors.New("framebuffer: unsupported color model")

// bitField describes one color channel, like struct fb_bitfield.
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

func (f bitField) is(offset, length uint32) bool {
	return f.Offset == offset && f.Length == length
}

// format is a supported framebuffer pixel layout.
type format struct {
	bpp    int
	layout pixel.Layout
}

func (f format) String() string {
	if f.bpp == 32 {
		return "XRGB8888"
	}
	return f.layout.String()
}

// parseFormat maps the channel bit fields of a framebuffer to a format.
func parseFormat(bitsPerPixel uint32, red, green, blue, alpha bitField) (format, error) {
	switch bitsPerPixel {
	case 15, 16:
		if alpha.Length != 0 && bitsPerPixel == 16 {
			break
		}
		switch {
		case red.is(11, 5) && green.is(5, 6) && blue.is(0, 5):
			return format{bpp: 16, layout: pixel.RGB565}, nil
		case blue.is(11, 5) && green.is(5, 6) && red.is(0, 5):
			return format{bpp: 16, layout: pixel.BGR565}, nil
		case red.is(10, 5) && green.is(5, 5) && blue.is(0, 5):
			return format{bpp: 16, layout: pixel.RGB555}, nil
		case blue.is(10, 5) && green.is(5, 5) && red.is(0, 5):
			return format{bpp: 16, layout: pixel.BGR555}, nil
		}

	case 32:
		if red.is(16, 8) && green.is(8, 8) && blue.is(0, 8) {
			return format{bpp: 32}, nil
		}
	}
	return format{}, fmt.Errorf("%w: %d bpp red=%d/%d green=%d/%d blue=%d/%d", ErrFormat,
		bitsPerPixel, red.Offset, red.Length, green.Offset, green.Length, blue.Offset, blue.Length)
}

// newImage allocates a back buffer with the same memory layout as the
// device, and returns it along with its raw pixel bytes.
func (f format) newImage(w, h, stride int) (backBuffer, []byte) {
	if f.bpp == 32 {
		im := &xrgbImage{Buffer: pixel.Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, stride*h),
			Stride: stride,
		}}
		return im, im.Pix
	}
	im := pixel.NewPacked16Image(w, h, f.layout)
	im.Order = binary.LittleEndian
	if stride != im.Stride {
		im.Stride = stride
		im.Pix = make([]byte, stride*h)
	}
	return im, im.Pix
}

type backBuffer interface {
	pixel.Image
	DrawRGBA(r image.Rectangle, src *image.RGBA, sp image.Point)
}

// xrgbImage is 32 bits per pixel little endian XRGB, the layout used by most
// desktop framebuffers.
type xrgbImage struct {
	pixel.Buffer
}

func (p *xrgbImage) ColorModel() color.Model {
	return color.RGBAModel
}

func (p *xrgbImage) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

func (p *xrgbImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	i := p.PixOffset(x, y)
	return color.RGBA{R: p.Pix[i+2], G: p.Pix[i+1], B: p.Pix[i], A: 0xff}
}

func (p *xrgbImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	r, g, b, _ := c.RGBA()
	i := p.PixOffset(x, y)
	p.Pix[i+0] = uint8(b >> 8)
	p.Pix[i+1] = uint8(g >> 8)
	p.Pix[i+2] = uint8(r >> 8)
	p.Pix[i+3] = 0xff
}

func (p *xrgbImage) Fill(c color.Color) {
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		for x := p.Rect.Min.X; x < p.Rect.Max.X; x++ {
			p.Set(x, y, c)
		}
	}
}

func (p *xrgbImage) DrawRGBA(r image.Rectangle, src *image.RGBA, sp image.Point) {
	delta := r.Min.Sub(sp)
	r = r.Intersect(p.Rect).Intersect(src.Rect.Add(delta))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		var (
			si = src.PixOffset(r.Min.X-delta.X, y-delta.Y)
			di = p.PixOffset(r.Min.X, y)
		)
		for x := r.Min.X; x < r.Max.X; x++ {
			p.Pix[di+0] = src.Pix[si+2]
			p.Pix[di+1] = src.Pix[si+1]
			p.Pix[di+2] = src.Pix[si+0]
			p.Pix[di+3] = 0xff
			si += 4
			di += 4
		}
	}
}

var (
	_ backBuffer = (*xrgbImage)(nil)
	_ backBuffer = (*pixel.Packed16Image)(nil)
)
