package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestGray4(t *testing.T) {
	for y := 0; y < 16; y++ {
		c := Gray4{Y: uint8(y)}
		if v := Gray4Model.Convert(c).(Gray4); v != c {
			t.Errorf("expected %v to convert to itself, got %v", c, v)
		}
		r, g, b, a := c.RGBA()
		if r != g || g != b || a != 0xffff {
			t.Errorf("expected opaque gray, got %#04x %#04x %#04x %#04x", r, g, b, a)
		}
	}

	tests := []struct {
		Name string
		In   color.Color
		Want uint8
	}{
		{"black", color.Black, 0},
		{"white", color.White, 15},
		{"gray", color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, 8},
		{"red", color.RGBA{R: 0xff, A: 0xff}, 4},
		{"green", color.RGBA{G: 0xff, A: 0xff}, 9},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			if v := Gray4Model.Convert(test.In).(Gray4).Y; v != test.Want {
				t.Errorf("expected %d, got %d", test.Want, v)
			}
		})
	}
}

func TestGray4Image(t *testing.T) {
	i := NewGray4Image(3, 2)
	if i.Stride != 2 || len(i.Pix) != 4 {
		t.Fatalf("expected stride 2 and 4 bytes, got %d and %d", i.Stride, len(i.Pix))
	}

	i.Set(0, 0, color.White)
	i.Set(1, 0, Gray4{Y: 3})
	i.Set(2, 1, Gray4{Y: 9})
	if i.Pix[0] != 0xf3 || i.Pix[3] != 0x90 {
		t.Errorf("expected nibbles f3 .. 90, got % x", i.Pix)
	}
	if v := i.At(1, 0); v != (Gray4{Y: 3}) {
		t.Errorf("expected gray 3, got %v", v)
	}
	if v := i.At(3, 0); v != color.Transparent {
		t.Errorf("expected transparent outside bounds, got %v", v)
	}

	i.Fill(color.White)
	for _, v := range i.Pix {
		if v != 0xff {
			t.Fatalf("expected filled image, got % x", i.Pix)
		}
	}
}

func TestGray4ImageDrawRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		src.SetRGBA(x, 1, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	}

	dst := NewGray4Image(4, 2)
	dst.DrawRGBA(dst.Bounds(), src, image.Point{})
	if want := []byte{0x00, 0x00, 0xff, 0xff}; string(dst.Pix) != string(want) {
		t.Errorf("expected % x, got % x", want, dst.Pix)
	}
}
