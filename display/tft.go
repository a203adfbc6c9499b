package display

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/pencil/conn"
	"github.com/BeatGlow/pencil/pixel"
)

const tftBacklightFreq = physic.KiloHertz

// Registers shared by the Sitronix controllers (MIPI DCS).
const (
	tftSWRESET = 0x01 // Software Reset
	tftSLPOUT  = 0x11 // Sleep Out
	tftNORON   = 0x13 // Normal Display Mode On
	tftINVOFF  = 0x20 // Display Inversion Off
	tftINVON   = 0x21 // Display Inversion On
	tftDISPOFF = 0x28 // Display Off
	tftDISPON  = 0x29 // Display On
	tftCASET   = 0x2A // Column Address Set
	tftRASET   = 0x2B // Row Address Set
	tftRAMWR   = 0x2C // Memory Write
	tftMADCTL  = 0x36 // Memory Data Access Control
	tftCOLMOD  = 0x3A // Interface Pixel Format
)

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                        byte = 1 << iota // D0: reserved
	_                                         // D1: reserved
	tftDisplayDataLatchOrder                  // D2: MH
	tftRGBOrder                               // D3: RGB
	tftLineAddressOrder                       // D4: ML
	tftPageColumnOrder                        // D5: MV
	tftColumnAddressOrder                     // D6: MX
	tftPageAddressOrder                       // D7: MY
)

// tft is a 16-bit colour panel driven with the DCS command set. Frames are
// kept in RGB565 and pushed in full on every Refresh.
type tft struct {
	*pixel.Packed16Image
	name      string
	c         Conn
	backlight gpio.PinOut
	colOffset int
	rowOffset int
	rotation  Rotation
}

// setupSPI switches an SPI connection to the panel's bus mode.
func setupSPI(c Conn, mode conn.SPIMode, maxSpeed int) error {
	spi, ok := c.(SPI)
	if !ok {
		return nil
	}
	spi.SetDataLow(false)
	if err := spi.SetMode(mode); err != nil {
		return err
	}
	return spi.SetMaxSpeed(maxSpeed)
}

// checkSize fills in the default size and checks config against the
// controller RAM of w×h pixels in portrait orientation.
func checkSize(name string, config *Config, defaultWidth, defaultHeight, w, h int) error {
	landscape := config.Rotation&1 == 1
	if landscape {
		defaultWidth, defaultHeight = defaultHeight, defaultWidth
		w, h = h, w
	}
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.Width > w || config.Height > h {
		return fmt.Errorf("%s: invalid size %dx%d, maximum size is %dx%d at %s rotation", name, config.Width, config.Height, w, h, config.Rotation)
	}
	return nil
}

func (d *tft) Close() error {
	if err := d.Show(false); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

func (d *tft) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("%s %dx%d on %s", d.name, bounds.Dx(), bounds.Dy(), d.c)
}

// command sends each argument as its own data transfer; the controller
// latches parameters per byte.
func (d *tft) command(command byte, data ...byte) (err error) {
	if err = d.c.Command(command); err != nil {
		return
	}
	for _, data := range data {
		if err = d.c.Data(data); err != nil {
			return
		}
	}
	return
}

func (d *tft) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

// reset pulses the reset pin and wakes the controller up.
func (d *tft) reset() (err error) {
	for _, step := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err = d.c.Reset(step); err != nil {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	if err = d.command(tftSWRESET); err != nil {
		return
	}
	time.Sleep(150 * time.Millisecond)
	if err = d.command(tftSLPOUT); err != nil {
		return
	}
	time.Sleep(150 * time.Millisecond)
	return
}

func (d *tft) Show(show bool) error {
	var command = byte(tftDISPOFF)
	if show {
		command = byte(tftDISPON)
	}
	return d.command(command)
}

// SetContrast drives the backlight pin with a PWM duty cycle of level/255.
// Panels without a backlight pin ignore it.
func (d *tft) SetContrast(level uint8) error {
	if d.backlight == nil || d.backlight == gpio.INVALID {
		return nil
	}
	switch level {
	case 0:
		return d.backlight.Out(gpio.Low)
	case 0xff:
		return d.backlight.Out(gpio.High)
	}
	duty := gpio.Duty(uint64(gpio.DutyMax) * uint64(level) / 0xff)
	return d.backlight.PWM(duty, tftBacklightFreq)
}

func (d *tft) SetRotation(rotation Rotation) error {
	rotation &= 3

	var madctl byte
	switch rotation {
	case Rotate90:
		madctl = tftColumnAddressOrder | tftPageColumnOrder
	case Rotate180:
		madctl = tftColumnAddressOrder | tftPageAddressOrder
	case Rotate270:
		madctl = tftPageAddressOrder | tftPageColumnOrder
	}

	d.rotation = rotation
	return d.command(tftMADCTL, madctl)
}

// SetWindow selects the RAM area written by the next data transfer.
func (d *tft) SetWindow(x0, y0, x1, y1 int) error {
	if d.rotation == Rotate90 || d.rotation == Rotate270 {
		x0 += d.rowOffset
		y0 += d.colOffset
		x1 += d.rowOffset
		y1 += d.colOffset
	} else {
		x0 += d.colOffset
		y0 += d.rowOffset
		x1 += d.colOffset
		y1 += d.rowOffset
	}
	return d.commands([][]byte{
		{tftCASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}, // Column address
		{tftRASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}, // Row address
		{tftRAMWR}, // Write to RAM
	})
}

// Refresh sets the window to full screen and redraws using the internal frame buffer.
func (d *tft) Refresh() error {
	b := d.Bounds()
	if err := d.SetWindow(0, 0, b.Dx()-1, b.Dy()-1); err != nil {
		return err
	}
	return d.c.Data(d.Pix...)
}
