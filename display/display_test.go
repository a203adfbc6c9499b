package display

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/BeatGlow/pencil/conn"
)

type recordConn struct {
	commands []byte
	data     []byte
	resets   []gpio.Level
	closed   bool
}

func (c *recordConn) String() string { return "record" }
func (c *recordConn) Close() error   { c.closed = true; return nil }

func (c *recordConn) Reset(l gpio.Level) error {
	c.resets = append(c.resets, l)
	return nil
}

func (c *recordConn) Command(b byte, data ...byte) error {
	c.commands = append(c.commands, b)
	c.data = append(c.data, data...)
	return nil
}

func (c *recordConn) Data(data ...byte) error {
	c.data = append(c.data, data...)
	return nil
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		Test string
		Want Rotation
		Err  bool
	}{
		{"", NoRotation, false},
		{"0", NoRotation, false},
		{"90", Rotate90, false},
		{"90°", Rotate90, false},
		{"flip", Rotate180, false},
		{"CCW", Rotate270, false},
		{"45", NoRotation, true},
	}
	for _, test := range tests {
		t.Run(test.Test, func(t *testing.T) {
			v, err := ParseRotation(test.Test)
			if test.Err {
				if !errors.Is(err, ErrRotation) {
					t.Fatalf("expected ErrRotation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if v != test.Want {
				t.Errorf("expected %s, got %s", test.Want, v)
			}
		})
	}
}

func TestST7789(t *testing.T) {
	c := new(recordConn)
	d, err := NewST7789(c, &Config{Width: 4, Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.resets) != 3 || c.resets[1] != gpio.Low {
		t.Errorf("expected high/low/high reset sequence, got %v", c.resets)
	}
	if !bytes.Contains(c.commands, []byte{tftSWRESET, tftSLPOUT}) {
		t.Errorf("expected software reset and sleep out, got % x", c.commands)
	}
	if last := c.commands[len(c.commands)-1]; last != tftMADCTL {
		t.Errorf("expected rotation to be set last, got %#02x", last)
	}

	frame := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for i := range frame.Pix {
		frame.Pix[i] = 0xff
	}
	c.commands, c.data = nil, nil
	if err = Push(d, frame); err != nil {
		t.Fatal(err)
	}
	if want := []byte{tftCASET, tftRASET, tftRAMWR}; !bytes.Equal(c.commands, want) {
		t.Errorf("expected window commands % x, got % x", want, c.commands)
	}
	// 8 window bytes followed by 4x2 white RGB565 pixels.
	if len(c.data) != 8+4*2*2 {
		t.Fatalf("expected %d data bytes, got %d", 8+4*2*2, len(c.data))
	}
	if want := []byte{0, 0, 0, 3, 0, 0, 0, 1}; !bytes.Equal(c.data[:8], want) {
		t.Errorf("expected window % x, got % x", want, c.data[:8])
	}
	for _, b := range c.data[8:] {
		if b != 0xff {
			t.Fatalf("expected white pixels, got % x", c.data[8:])
		}
	}

	if err = d.Close(); err != nil {
		t.Fatal(err)
	}
	if !c.closed {
		t.Error("expected connection to be closed")
	}
}

func TestST7789Size(t *testing.T) {
	if _, err := NewST7789(new(recordConn), &Config{Width: 320, Height: 240}); err == nil {
		t.Error("expected 320x240 without rotation to fail")
	}
	if _, err := NewST7789(new(recordConn), &Config{Width: 320, Height: 240, Rotation: Rotate90}); err != nil {
		t.Errorf("expected 320x240 at 90° to work, got %v", err)
	}
}

func TestST7735(t *testing.T) {
	var (
		bus = new(recordBus)
		c   = newSPIConn(bus, &SPIConfig{BatchSize: 1 << 16, DC: &gpiotest.Pin{N: "DC"}, Reset: &gpiotest.Pin{N: "RST"}})
	)
	d, err := NewST7735(c, &Config{Rotation: Rotate90})
	if err != nil {
		t.Fatal(err)
	}
	if b := d.Bounds(); b.Dx() != 160 || b.Dy() != 128 {
		t.Errorf("expected default 160x128 in landscape, got %s", b)
	}
	if bus.mode != conn.SPIMode3 || bus.speed != st7735MaxSpeed {
		t.Errorf("expected SPI mode 3 at %d Hz, got mode %d at %d Hz", st7735MaxSpeed, bus.mode, bus.speed)
	}
	if !bytes.Equal(bus.writes[0], []byte{tftSWRESET}) || !bytes.Equal(bus.writes[1], []byte{tftSLPOUT}) {
		t.Errorf("expected software reset and sleep out first, got % x", bus.writes[:2])
	}
	if n := len(bus.writes); !bytes.Equal(bus.writes[n-2], []byte{tftMADCTL}) ||
		!bytes.Equal(bus.writes[n-1], []byte{tftColumnAddressOrder | tftPageColumnOrder}) {
		t.Errorf("expected 90° MADCTL last, got % x", bus.writes[n-2:])
	}

	bus.writes = nil
	frame := image.NewRGBA(image.Rect(0, 0, 160, 128))
	if err = Push(d, frame); err != nil {
		t.Fatal(err)
	}
	if last := bus.writes[len(bus.writes)-1]; len(last) != 160*128*2 {
		t.Errorf("expected one %d byte frame transfer, got %d bytes", 160*128*2, len(last))
	}
}

func TestST7735Size(t *testing.T) {
	if _, err := NewST7735(new(recordConn), &Config{Width: 132, Height: 162}); err != nil {
		t.Errorf("expected 132x162 to work, got %v", err)
	}
	if _, err := NewST7735(new(recordConn), &Config{Width: 160, Height: 128}); err == nil {
		t.Error("expected 160x128 without rotation to fail")
	}
}

func TestST7789Backlight(t *testing.T) {
	pin := &gpiotest.Pin{N: "BL"}
	d, err := NewST7789(new(recordConn), &Config{Width: 8, Height: 8, Backlight: pin})
	if err != nil {
		t.Fatal(err)
	}
	if err = d.SetContrast(0xff); err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.High {
		t.Errorf("expected backlight high at full contrast")
	}
	if err = d.SetContrast(0); err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.Low {
		t.Errorf("expected backlight low at zero contrast")
	}
	if err = d.SetContrast(0x80); err != nil {
		t.Fatal(err)
	}
	if pin.D == 0 || pin.D >= gpio.DutyMax {
		t.Errorf("expected partial duty cycle, got %s", pin.D)
	}

	nobl, err := NewST7789(new(recordConn), &Config{Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	if err = nobl.SetContrast(0x80); err != nil {
		t.Errorf("expected no-op without backlight, got %v", err)
	}
}

type recordBus struct {
	writes [][]byte
	mode   conn.SPIMode
	speed  int
}

func (b *recordBus) Close() error   { return nil }
func (b *recordBus) String() string { return "spidev-test" }

func (b *recordBus) SetMode(mode conn.SPIMode) error {
	b.mode = mode
	return nil
}

func (b *recordBus) SetMaxSpeed(hz int) error {
	b.speed = hz
	return nil
}
func (b *recordBus) Write(p []byte) (int, error) {
	b.writes = append(b.writes, append([]byte(nil), p...))
	return len(p), nil
}

func TestSPIConn(t *testing.T) {
	var (
		bus   = new(recordBus)
		dc    = &gpiotest.Pin{N: "DC"}
		reset = &gpiotest.Pin{N: "RST"}
		c     = newSPIConn(bus, &SPIConfig{BatchSize: 4, DC: dc, Reset: reset})
	)

	if err := c.Command(0x2c, 1, 2, 3, 4, 5, 6); err != nil {
		t.Fatal(err)
	}
	if len(bus.writes) != 3 {
		t.Fatalf("expected command plus 2 data chunks, got %d writes", len(bus.writes))
	}
	if !bytes.Equal(bus.writes[0], []byte{0x2c}) {
		t.Errorf("expected command byte first, got % x", bus.writes[0])
	}
	if len(bus.writes[1]) != 4 || len(bus.writes[2]) != 2 {
		t.Errorf("expected chunks of 4 and 2 bytes, got %d and %d", len(bus.writes[1]), len(bus.writes[2]))
	}
	if dc.L != gpio.High {
		t.Errorf("expected DC high after data")
	}

	if err := c.Reset(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if reset.L != gpio.Low {
		t.Errorf("expected reset low")
	}
}

func TestOpenSPIPins(t *testing.T) {
	if _, err := OpenSPI(&SPIConfig{}); !errors.Is(err, ErrResetPin) {
		t.Errorf("expected ErrResetPin, got %v", err)
	}
	if _, err := OpenSPI(&SPIConfig{Reset: &gpiotest.Pin{N: "RST"}}); !errors.Is(err, ErrDCPin) {
		t.Errorf("expected ErrDCPin, got %v", err)
	}
}

func TestMemory(t *testing.T) {
	d := NewMemory(&Config{Width: 3, Height: 2})
	if d.Frame() != nil {
		t.Fatal("expected no frame before refresh")
	}

	red := color.RGBA{R: 0xff, A: 0xff}
	d.Set(1, 1, red)
	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}
	if v := d.Frame().RGBAAt(1, 1); v != red {
		t.Errorf("expected %v, got %v", red, v)
	}

	if err := d.Show(false); err != nil {
		t.Fatal(err)
	}
	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}
	if v := d.Frame().RGBAAt(1, 1); v != (color.RGBA{}) {
		t.Errorf("expected black while off, got %v", v)
	}
	if d.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", d.Frames())
	}
}

func TestMemoryRotation(t *testing.T) {
	d := NewMemory(&Config{Width: 2, Height: 2})
	if err := d.SetRotation(NoRotation); err != nil {
		t.Errorf("expected no rotation to be accepted, got %v", err)
	}
	for _, r := range []Rotation{Rotate90, Rotate180, Rotate270} {
		if err := d.SetRotation(r); !errors.Is(err, ErrRotation) {
			t.Errorf("expected ErrRotation for %s, got %v", r, err)
		}
	}
}

func TestPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	d, err := NewPNG(path, &Config{Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}

	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	frame.SetRGBA(2, 3, color.RGBA{G: 0xff, A: 0xff})
	if err = Push(d, frame); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	i, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, g, _, _ := i.At(2, 3).RGBA(); g != 0xffff {
		t.Errorf("expected green pixel, got %v", i.At(2, 3))
	}

	if _, err = NewPNG("", &Config{Width: 1, Height: 1}); !errors.Is(err, ErrDriver) {
		t.Errorf("expected ErrDriver, got %v", err)
	}
}

func TestSSD1322(t *testing.T) {
	var (
		bus = new(recordBus)
		c   = newSPIConn(bus, &SPIConfig{BatchSize: 8192, DC: &gpiotest.Pin{N: "DC"}, Reset: &gpiotest.Pin{N: "RST"}})
	)
	d, err := NewSSD1322(c, &Config{})
	if err != nil {
		t.Fatal(err)
	}
	if b := d.Bounds(); b.Dx() != 256 || b.Dy() != 64 {
		t.Errorf("expected default 256x64, got %s", b)
	}
	if bus.mode != conn.SPIMode0 {
		t.Errorf("expected SPI mode 0, got %d", bus.mode)
	}
	if !bytes.Equal(bus.writes[0], []byte{ssd1322SetCommandLock}) || !bytes.Equal(bus.writes[1], []byte{0x12}) {
		t.Errorf("expected command unlock first, got % x", bus.writes[:2])
	}
	if last := bus.writes[len(bus.writes)-1]; !bytes.Equal(last, []byte{ssd1322SetDisplayOn}) {
		t.Errorf("expected display on last, got % x", last)
	}

	// White left half, black right half.
	frame := image.NewRGBA(image.Rect(0, 0, 256, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			frame.SetRGBA(x, y, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		}
	}
	bus.writes = nil
	if err = Push(d, frame); err != nil {
		t.Fatal(err)
	}
	want := [][]byte{
		{ssd1322SetColumnAddress}, {0x1c, 0x5b},
		{ssd1322SetRowAddress}, {0x00, 0x3f},
		{ssd1322WriteRAM},
	}
	if len(bus.writes) != len(want)+1 {
		t.Fatalf("expected %d writes, got %d", len(want)+1, len(bus.writes))
	}
	for i, w := range want {
		if !bytes.Equal(bus.writes[i], w) {
			t.Errorf("write %d: expected % x, got % x", i, w, bus.writes[i])
		}
	}
	pix := bus.writes[len(want)]
	if len(pix) != 128*64 {
		t.Fatalf("expected %d pixel bytes, got %d", 128*64, len(pix))
	}
	if pix[0] != 0xff || pix[63] != 0xff || pix[64] != 0x00 || pix[127] != 0x00 {
		t.Errorf("expected white then black nibbles, got % x .. % x", pix[:2], pix[126:128])
	}
}

func TestSSD1322Config(t *testing.T) {
	if _, err := NewSSD1322(new(recordConn), &Config{Width: 100, Height: 64}); err == nil {
		t.Error("expected 100x64 to be rejected")
	}
	if _, err := NewSSD1322(new(recordConn), &Config{Rotation: Rotate90}); !errors.Is(err, ErrRotation) {
		t.Errorf("expected ErrRotation at 90°, got %v", err)
	}

	c := new(recordConn)
	d, err := NewSSD1322(c, &Config{Width: 128, Height: 32, Rotation: Rotate180})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(c.data, []byte{0x06, 0x11}) {
		t.Errorf("expected flipped remap, got % x", c.data)
	}
	c.commands, c.data = nil, nil
	if err = d.SetContrast(0x40); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(c.commands, []byte{ssd1322SetContrast}) || !bytes.Equal(c.data, []byte{0x40}) {
		t.Errorf("expected contrast command, got % x % x", c.commands, c.data)
	}
}
