package pencil

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // gif decoder
	_ "image/jpeg" // jpeg decoder
	_ "image/png"  // png decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp" // bmp decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // tiff decoder
	_ "golang.org/x/image/webp" // webp decoder
)

// LoadImage decodes the image at path. JPEG, PNG, GIF, BMP, TIFF and WebP
// are supported.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	im, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("pencil: decode %s: %w", path, err)
	}
	return im, nil
}

// Fit scales src to fit inside bounds keeping its aspect ratio, centred on
// black.
func Fit(src image.Image, bounds image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.Black), image.Point{}, draw.Src)

	sb := src.Bounds()
	if sb.Empty() || bounds.Empty() {
		return dst
	}
	scale := math.Min(float64(bounds.Dx())/float64(sb.Dx()), float64(bounds.Dy())/float64(sb.Dy()))
	var (
		w = max(1, int(math.Round(float64(sb.Dx())*scale)))
		h = max(1, int(math.Round(float64(sb.Dy())*scale)))
		x = bounds.Min.X + (bounds.Dx()-w)/2
		y = bounds.Min.Y + (bounds.Dy()-h)/2
		r = image.Rect(x, y, x+w, y+h)
	)
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, r, src, sb.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, r, src, sb, draw.Src, nil)
	}
	return dst
}

// TestCard returns a w×h source image: a hue sweep from left to right that
// fades to white at the top and to black at the bottom, above a gray ramp.
func TestCard(w, h int) *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	ramp := h * 7 / 8
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := float64(x) / float64(max(1, w-1))
			if y >= ramp {
				v := uint8(fx*0xff + 0.5)
				im.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 0xff})
				continue
			}
			fy := float64(y) / float64(max(1, ramp-1))
			r, g, b := hueColor(fx)
			// top half blends towards white, bottom half towards black
			if fy < 0.5 {
				t := 1 - fy*2
				r, g, b = r+(1-r)*t, g+(1-g)*t, b+(1-b)*t
			} else {
				t := (fy - 0.5) * 2
				r, g, b = r*(1-t), g*(1-t), b*(1-t)
			}
			im.SetRGBA(x, y, color.RGBA{
				R: uint8(r*0xff + 0.5),
				G: uint8(g*0xff + 0.5),
				B: uint8(b*0xff + 0.5),
				A: 0xff,
			})
		}
	}
	return im
}

// hueColor returns the fully saturated color at hue h in [0, 1].
func hueColor(h float64) (r, g, b float64) {
	h = math.Mod(h, 1) * 6
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	switch int(h) {
	case 0:
		return 1, x, 0
	case 1:
		return x, 1, 0
	case 2:
		return 0, 1, x
	case 3:
		return 0, x, 1
	case 4:
		return x, 0, 1
	default:
		return 1, 0, x
	}
}
