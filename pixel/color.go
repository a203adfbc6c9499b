package pixel

import (
	"fmt"
	"image/color"
)

// Layout describes how red, green and blue are packed into 16 bits.
type Layout uint8

// Supported layouts, most significant field first.
const (
	RGB565 Layout = iota // 5-bit red, 6-bit green, 5-bit blue
	BGR565               // 5-bit blue, 6-bit green, 5-bit red
	RGB555               // 1 unused bit, 5 bits per channel
	BGR555               // 1 unused bit, 5 bits per channel, blue first
)

var models = [4]color.Model{
	newModel(RGB565),
	newModel(BGR565),
	newModel(RGB555),
	newModel(BGR555),
}

// Models for the packed color layouts.
var (
	RGB565Model = models[RGB565]
	BGR565Model = models[BGR565]
	RGB555Model = models[RGB555]
	BGR555Model = models[BGR555]
)

func newModel(layout Layout) color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		if p, ok := c.(Packed16); ok && p.Layout == layout {
			return p
		}
		r, g, b, _ := c.RGBA()
		return Packed16{V: layout.Pack(r, g, b), Layout: layout}
	})
}

// Model returns the color model of the layout.
func (l Layout) Model() color.Model {
	return models[l&3]
}

func (l Layout) String() string {
	switch l {
	case RGB565:
		return "RGB565"
	case BGR565:
		return "BGR565"
	case RGB555:
		return "RGB555"
	case BGR555:
		return "BGR555"
	default:
		return fmt.Sprintf("Layout(%d)", uint8(l))
	}
}

// Pack packs 16-bit color components.
func (l Layout) Pack(r, g, b uint32) uint16 {
	if l == BGR565 || l == BGR555 {
		r, b = b, r
	}
	if l == RGB565 || l == BGR565 {
		return uint16((r>>11)<<11 | (g>>10)<<5 | b>>11)
	}
	return uint16((r>>11)<<10 | (g>>11)<<5 | b>>11)
}

// Unpack expands a packed value to 16-bit color components. The high bits of
// each field are replicated into the low bits so that full intensity maps to
// 0xffff.
func (l Layout) Unpack(v uint16) (r, g, b uint32) {
	if l == RGB565 || l == BGR565 {
		r = expand5(uint32(v>>11) & 0x1f)
		g = expand6(uint32(v>>5) & 0x3f)
		b = expand5(uint32(v) & 0x1f)
	} else {
		r = expand5(uint32(v>>10) & 0x1f)
		g = expand5(uint32(v>>5) & 0x1f)
		b = expand5(uint32(v) & 0x1f)
	}
	if l == BGR565 || l == BGR555 {
		r, b = b, r
	}
	return
}

func expand5(v uint32) uint32 {
	v = v<<3 | v>>2
	return v<<8 | v
}

func expand6(v uint32) uint32 {
	v = v<<2 | v>>4
	return v<<8 | v
}

// Packed16 is a 16-bit packed color.
type Packed16 struct {
	V      uint16
	Layout Layout
}

func (c Packed16) RGBA() (r, g, b, a uint32) {
	r, g, b = c.Layout.Unpack(c.V)
	return r, g, b, 0xffff
}
