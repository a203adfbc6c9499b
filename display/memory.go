package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
)

// Memory is a display backed by an RGBA image. Every Refresh takes a
// snapshot that can be read back with Frame, and optionally written to disk
// as PNG.
type Memory struct {
	*image.RGBA
	mu       sync.Mutex
	frame    *image.RGBA
	frames   int
	on       bool
	contrast uint8
	path     string
	encoder  png.Encoder
}

// NewMemory returns a memory display of the configured size.
func NewMemory(config *Config) *Memory {
	return &Memory{
		RGBA:     image.NewRGBA(image.Rect(0, 0, config.Width, config.Height)),
		on:       true,
		contrast: 0xff,
		encoder:  png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

// NewPNG returns a memory display that writes every refreshed frame to path.
func NewPNG(path string, config *Config) (*Memory, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: png output needs a path", ErrDriver)
	}
	d := NewMemory(config)
	d.path = path
	return d, nil
}

func (d *Memory) String() string {
	b := d.Bounds()
	if d.path != "" {
		return fmt.Sprintf("PNG %dx%d %s", b.Dx(), b.Dy(), d.path)
	}
	return fmt.Sprintf("memory %dx%d", b.Dx(), b.Dy())
}

func (d *Memory) Close() error { return nil }

func (d *Memory) Clear() {
	clear(d.Pix)
}

func (d *Memory) ColorModel() color.Model {
	return color.RGBAModel
}

func (d *Memory) Show(show bool) error {
	d.mu.Lock()
	d.on = show
	d.mu.Unlock()
	return nil
}

func (d *Memory) SetContrast(level uint8) error {
	d.mu.Lock()
	d.contrast = level
	d.mu.Unlock()
	return nil
}

func (d *Memory) SetRotation(rotation Rotation) error {
	return Upright(rotation)
}

// DrawRGBA copies src into the buffer, aligning sp with r.Min.
func (d *Memory) DrawRGBA(r image.Rectangle, src *image.RGBA, sp image.Point) {
	delta := r.Min.Sub(sp)
	r = r.Intersect(d.Rect).Intersect(src.Rect.Add(delta))
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X-delta.X, y-delta.Y)
		di := d.PixOffset(r.Min.X, y)
		copy(d.Pix[di:di+n], src.Pix[si:si+n])
	}
}

// Refresh snapshots the buffer. A display that is switched off shows black.
func (d *Memory) Refresh() error {
	d.mu.Lock()
	if d.frame == nil {
		d.frame = image.NewRGBA(d.Rect)
	}
	if d.on {
		copy(d.frame.Pix, d.Pix)
	} else {
		clear(d.frame.Pix)
	}
	d.frames++
	var (
		frame = d.frame
		path  = d.path
	)
	d.mu.Unlock()

	if path != "" {
		return d.writePNG(path, frame)
	}
	return nil
}

// Frame returns a copy of the last refreshed frame, or nil before the first
// Refresh.
func (d *Memory) Frame() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frame == nil {
		return nil
	}
	out := image.NewRGBA(d.frame.Rect)
	copy(out.Pix, d.frame.Pix)
	return out
}

// Frames returns the number of refreshes.
func (d *Memory) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// writePNG replaces path atomically so readers never see a partial file.
func (d *Memory) writePNG(path string, frame *image.RGBA) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err = d.encoder.Encode(f, frame); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("display: encode %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

var (
	_ Display    = (*Memory)(nil)
	_ RGBADrawer = (*Memory)(nil)
)
