package framebuffer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/BeatGlow/pencil/pixel"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		Name             string
		BPP              uint32
		Red, Green, Blue bitField
		Want             string
	}{
		{"rgb565", 16, bitField{Offset: 11, Length: 5}, bitField{Offset: 5, Length: 6}, bitField{Length: 5}, pixel.RGB565.String()},
		{"bgr565", 16, bitField{Length: 5}, bitField{Offset: 5, Length: 6}, bitField{Offset: 11, Length: 5}, pixel.BGR565.String()},
		{"rgb555", 15, bitField{Offset: 10, Length: 5}, bitField{Offset: 5, Length: 5}, bitField{Length: 5}, pixel.RGB555.String()},
		{"bgr555", 16, bitField{Length: 5}, bitField{Offset: 5, Length: 5}, bitField{Offset: 10, Length: 5}, pixel.BGR555.String()},
		{"xrgb", 32, bitField{Offset: 16, Length: 8}, bitField{Offset: 8, Length: 8}, bitField{Length: 8}, "XRGB8888"},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			f, err := parseFormat(test.BPP, test.Red, test.Green, test.Blue, bitField{})
			if err != nil {
				t.Fatal(err)
			}
			if v := f.String(); v != test.Want {
				t.Errorf("expected %s, got %s", test.Want, v)
			}
		})
	}

	unsupported := []struct {
		Name             string
		BPP              uint32
		Red, Green, Blue bitField
	}{
		{"gray8", 8, bitField{}, bitField{}, bitField{}},
		{"rgb888", 24, bitField{Offset: 16, Length: 8}, bitField{Offset: 8, Length: 8}, bitField{Length: 8}},
		{"bgrx", 32, bitField{Length: 8}, bitField{Offset: 8, Length: 8}, bitField{Offset: 16, Length: 8}},
	}
	for _, test := range unsupported {
		t.Run(test.Name, func(t *testing.T) {
			if _, err := parseFormat(test.BPP, test.Red, test.Green, test.Blue, bitField{}); !errors.Is(err, ErrFormat) {
				t.Errorf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestXRGBImage(t *testing.T) {
	f := format{bpp: 32}
	im, pix := f.newImage(2, 2, 12)
	if len(pix) != 24 {
		t.Fatalf("expected 24 bytes with padded stride, got %d", len(pix))
	}

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff})
	im.DrawRGBA(im.Bounds(), src, image.Point{})

	if want := []byte{0x30, 0x20, 0x10, 0xff}; string(pix[12+4:12+8]) != string(want) {
		t.Errorf("expected BGRX bytes % x, got % x", want, pix[16:20])
	}
	if v := im.At(1, 1); v != (color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Errorf("unexpected color %v", v)
	}
}

func TestPacked16Stride(t *testing.T) {
	f := format{bpp: 16, layout: pixel.RGB565}
	im, pix := f.newImage(3, 2, 8)
	if len(pix) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(pix))
	}
	im.Set(2, 1, color.White)
	if pix[8+4] != 0xff || pix[8+5] != 0xff {
		t.Errorf("expected white at row 1 column 2, got % x", pix)
	}
}
