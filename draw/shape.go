package draw

import (
	"image"
	"image/color"
)

// Line draws a line between two points, both inclusive.
func Line(dst Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// HorizontalLine draws a line between (x,y) and (x+w-1,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	for i := 0; i < w; i++ {
		dst.Set(x+i, y, c)
	}
}

// VerticalLine draws a line between (x,y) and (x,y+h-1).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	for i := 0; i < h; i++ {
		dst.Set(x, y+i, c)
	}
}

// Rectangle draws the outline of rect. Max is exclusive, like [image.Rectangle].
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	if rect.Empty() {
		return
	}
	w, h := rect.Dx(), rect.Dy()
	HorizontalLine(dst, rect.Min.X, rect.Min.Y, w, c)
	HorizontalLine(dst, rect.Min.X, rect.Max.Y-1, w, c)
	VerticalLine(dst, rect.Min.X, rect.Min.Y, h, c)
	VerticalLine(dst, rect.Max.X-1, rect.Min.Y, h, c)
}

// Box draws a filled rectangle.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		HorizontalLine(dst, rect.Min.X, y, rect.Dx(), c)
	}
}

// RoundedBox draws a filled rectangle with radius pixels rounded corners.
func RoundedBox(dst Image, rect image.Rectangle, radius int, c color.Color) {
	rect = rect.Canon()
	if radius*2 > rect.Dx() {
		radius = rect.Dx() / 2
	}
	if radius*2 > rect.Dy() {
		radius = rect.Dy() / 2
	}
	if radius <= 0 {
		Box(dst, rect, c)
		return
	}

	// Straight middle section.
	Box(dst, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius), c)

	// Rounded top and bottom bands, one scanline per row.
	r2 := radius * radius
	for dy := 0; dy < radius; dy++ {
		var (
			ry    = radius - dy
			inset = radius - isqrt(r2-(ry-1)*(ry-1)) // row of the corner circle
			w     = rect.Dx() - 2*inset
		)
		HorizontalLine(dst, rect.Min.X+inset, rect.Min.Y+dy, w, c)
		HorizontalLine(dst, rect.Min.X+inset, rect.Max.Y-1-dy, w, c)
	}
}

// Circle draws the outline of a circle around center.
func Circle(dst Image, center image.Point, radius int, c color.Color) {
	var (
		x   = radius
		y   = 0
		err = 1 - radius
	)
	for x >= y {
		for _, p := range [...]image.Point{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			dst.Set(center.X+p.X, center.Y+p.Y, c)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// bresenham plots an integer line in any octant.
func bresenham(dst Image, x0, y0, x1, y1 int, c color.Color) {
	var (
		dx  = abs(x1 - x0)
		dy  = -abs(y1 - y0)
		sx  = sign(x1 - x0)
		sy  = sign(y1 - y0)
		err = dx + dy
	)
	for {
		dst.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func isqrt(v int) int {
	if v <= 0 {
		return 0
	}
	r := v
	for x := (r + 1) / 2; x < r; x = (x + v/x) / 2 {
		r = x
	}
	return r
}
