package filter

import (
	"image"
	"image/color"

	"github.com/sourcegraph/conc"

	"github.com/BeatGlow/pencil/stylus"
)

// Stage names, in application order.
const (
	StageHue           = "hue"
	StageColorControls = "color-controls"
	StageExposure      = "exposure"
	StageGamma         = "gamma"
)

// Pipeline is the compiled form of a parameter set.
type Pipeline struct {
	// Matrix combines hue rotation, color controls and exposure.
	Matrix Matrix

	// Gamma is applied after Matrix.
	Gamma Gamma

	stages []string
}

// Compile builds the pipeline for p.
func Compile(p stylus.Parameters) Pipeline {
	var (
		m      = Identity()
		stages []string
	)
	if p.Hue != 0 {
		m = m.Then(HueRotate(p.Hue))
		stages = append(stages, StageHue)
	}
	if p.Saturation != 1 || p.Brightness != 0 || p.Contrast != 1 {
		m = m.Then(ColorControls(p.Saturation, p.Brightness, p.Contrast))
		stages = append(stages, StageColorControls)
	}
	if p.Exposure != 0 {
		m = m.Then(Exposure(p.Exposure))
		stages = append(stages, StageExposure)
	}
	if p.Gamma != 1 {
		stages = append(stages, StageGamma)
	}
	return Pipeline{
		Matrix: m,
		Gamma:  Gamma(p.Gamma),
		stages: stages,
	}
}

// Stages lists the stages that alter colors, in the order they are applied.
func (p *Pipeline) Stages() []string {
	return p.stages
}

// Color filters a straight-alpha color with channels in [0, 1]. The result is
// clamped to [0, 1].
func (p *Pipeline) Color(r, g, b float64) (float64, float64, float64) {
	r, g, b = p.Matrix.Transform(r, g, b)
	if p.Gamma != 1 {
		r, g, b = p.Gamma.Apply(r), p.Gamma.Apply(g), p.Gamma.Apply(b)
	}
	return clamp01(r), clamp01(g), clamp01(b)
}

// Chain applies filter parameters to images.
type Chain struct {
	// Workers is the number of row bands filtered concurrently; values below 2
	// filter on the calling goroutine.
	Workers int
}

// Apply filters src into dst using p. Pixels are aligned on Bounds().Min of
// both images; only the overlapping area is written.
func (c *Chain) Apply(dst *image.RGBA, src image.Image, p stylus.Parameters) {
	pipeline := Compile(p)
	c.ApplyPipeline(dst, src, &pipeline)
}

// ApplyPipeline filters src into dst using a compiled pipeline.
func (c *Chain) ApplyPipeline(dst *image.RGBA, src image.Image, p *Pipeline) {
	var (
		db = dst.Bounds()
		sb = src.Bounds()
		w  = min(db.Dx(), sb.Dx())
		h  = min(db.Dy(), sb.Dy())
	)
	if w <= 0 || h <= 0 {
		return
	}

	workers := c.Workers
	if workers < 2 || h < workers {
		filterRows(dst, src, p, 0, h, w)
		return
	}

	var (
		wg   conc.WaitGroup
		band = (h + workers - 1) / workers
	)
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		wg.Go(func() { filterRows(dst, src, p, y0, y1, w) })
	}
	wg.Wait()
}

func filterRows(dst *image.RGBA, src image.Image, p *Pipeline, y0, y1, w int) {
	var (
		dmin = dst.Bounds().Min
		smin = src.Bounds().Min
	)
	for y := y0; y < y1; y++ {
		i := dst.PixOffset(dmin.X, dmin.Y+y)
		for x := 0; x < w; x++ {
			r, g, b, a := straight(src, smin.X+x, smin.Y+y)
			if a == 0 {
				dst.Pix[i+0], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 0, 0, 0, 0
				i += 4
				continue
			}
			r, g, b = p.Color(r, g, b)
			dst.Pix[i+0] = uint8(r*a*0xff + 0.5)
			dst.Pix[i+1] = uint8(g*a*0xff + 0.5)
			dst.Pix[i+2] = uint8(b*a*0xff + 0.5)
			dst.Pix[i+3] = uint8(a*0xff + 0.5)
			i += 4
		}
	}
}

// straight returns the non-premultiplied color at (x, y) with channels in [0, 1].
func straight(src image.Image, x, y int) (r, g, b, a float64) {
	switch im := src.(type) {
	case *image.RGBA:
		i := im.PixOffset(x, y)
		pa := im.Pix[i+3]
		if pa == 0 {
			return 0, 0, 0, 0
		}
		af := float64(pa)
		return float64(im.Pix[i+0]) / af, float64(im.Pix[i+1]) / af, float64(im.Pix[i+2]) / af, af / 0xff
	case *image.NRGBA:
		i := im.PixOffset(x, y)
		return float64(im.Pix[i+0]) / 0xff, float64(im.Pix[i+1]) / 0xff, float64(im.Pix[i+2]) / 0xff, float64(im.Pix[i+3]) / 0xff
	default:
		c := color.NRGBA64Model.Convert(src.At(x, y)).(color.NRGBA64)
		return float64(c.R) / 0xffff, float64(c.G) / 0xffff, float64(c.B) / 0xffff, float64(c.A) / 0xffff
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
