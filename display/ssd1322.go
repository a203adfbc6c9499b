package display

import (
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/pencil/conn"
	"github.com/BeatGlow/pencil/pixel"
)

const (
	ssd1322DefaultWidth  = 256
	ssd1322DefaultHeight = 64
	ssd1322MaxSpeed      = 10_000_000
	ssd1322Segments      = 480 // segment drivers, 4 per column address
)

// Commands (from ssd1322.pdf).
const (
	ssd1322SetColumnAddress       = 0x15
	ssd1322WriteRAM               = 0x5C
	ssd1322SetRowAddress          = 0x75
	ssd1322SetRemap               = 0xA0
	ssd1322SetDisplayStartLine    = 0xA1
	ssd1322SetDisplayOffset       = 0xA2
	ssd1322SetEntireDisplayOff    = 0xA4
	ssd1322SetNormalDisplay       = 0xA6
	ssd1322SetExitPartialDisplay  = 0xA9
	ssd1322SetFunction            = 0xAB
	ssd1322SetDisplayOff          = 0xAE
	ssd1322SetDisplayOn           = 0xAF
	ssd1322SetPhaseLength         = 0xB1
	ssd1322SetFrontClockDiv       = 0xB3
	ssd1322SetDisplayEnhancementA = 0xB4
	ssd1322SetGPIO                = 0xB5
	ssd1322SetSecondPrecharge     = 0xB6
	ssd1322SetDefaultGrayscale    = 0xB9
	ssd1322SetPrechargeVoltage    = 0xBB
	ssd1322SetVCOMHVoltage        = 0xBE
	ssd1322SetContrast            = 0xC1
	ssd1322SetMasterCurrent       = 0xC7
	ssd1322SetMultiplexRatio      = 0xCA
	ssd1322SetDisplayEnhancementB = 0xD1
	ssd1322SetCommandLock         = 0xFD
)

var ssd1322SupportedSizes = []image.Point{
	image.Pt(256, 64),
	image.Pt(256, 48),
	image.Pt(256, 32),
	image.Pt(128, 64),
	image.Pt(128, 48),
	image.Pt(128, 32),
	image.Pt(64, 64),
	image.Pt(64, 48),
	image.Pt(64, 32),
}

// SSD1322 is a 4-bit grayscale OLED panel on a SPI bus. Colour frames are
// shown by their luma, so brightness, contrast, gamma and exposure changes
// remain visible.
type SSD1322 struct {
	*pixel.Gray4Image
	c            Conn
	columnOffset int
	rotation     Rotation
}

// NewSSD1322 initializes the panel behind c. Only [NoRotation] and
// [Rotate180] are supported.
func NewSSD1322(c Conn, config *Config) (*SSD1322, error) {
	if err := setupSPI(c, conn.SPIMode0, ssd1322MaxSpeed); err != nil {
		return nil, err
	}

	d := &SSD1322{c: c}
	if err := d.init(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *SSD1322) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SSD1322 %dx%d on %s", bounds.Dx(), bounds.Dy(), d.c)
}

func (d *SSD1322) command(command byte, data ...byte) error {
	return d.c.Command(command, data...)
}

func (d *SSD1322) commands(commands ...[]byte) (err error) {
	for _, command := range commands {
		if err = d.command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

func (d *SSD1322) init(config *Config) (err error) {
	if config.Width == 0 {
		config.Width = ssd1322DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1322DefaultHeight
	}
	var supported bool
	for _, size := range ssd1322SupportedSizes {
		if supported = size.X == config.Width && size.Y == config.Height; supported {
			break
		}
	}
	if !supported {
		return fmt.Errorf("ssd1322: unsupported size %dx%d", config.Width, config.Height)
	}
	if config.Rotation&1 == 1 {
		return fmt.Errorf("%w: ssd1322 supports 0° and 180°, got %s", ErrRotation, config.Rotation)
	}

	d.Gray4Image = pixel.NewGray4Image(config.Width, config.Height)
	d.columnOffset = (ssd1322Segments - config.Width) / 2

	for _, step := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err = d.c.Reset(step); err != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err = d.commands(
		[]byte{ssd1322SetCommandLock, 0x12},                       // Unlock IC
		[]byte{ssd1322SetDisplayOff},                              // Display off while configuring
		[]byte{ssd1322SetFrontClockDiv, 0x91},                     // Display divide clockratio/freq
		[]byte{ssd1322SetMultiplexRatio, byte(config.Height - 1)}, // Set MUX ratio
		[]byte{ssd1322SetDisplayOffset, 0x00},                     // Display offset
		[]byte{ssd1322SetDisplayStartLine, 0x00},                  // Display start Line
		[]byte{ssd1322SetGPIO, 0x00},                              // Set GPIO (disabled)
		[]byte{ssd1322SetFunction, 0x01},                          // Function select (internal Vdd)
		[]byte{ssd1322SetDisplayEnhancementA, 0xA0, 0xFD},         // Display enhancement A (External VSL)
		[]byte{ssd1322SetMasterCurrent, 0x0F},                     // Master contrast (reset)
		[]byte{ssd1322SetDefaultGrayscale},                        // Set default greyscale table
		[]byte{ssd1322SetPhaseLength, 0xE2},                       // Phase length
		[]byte{ssd1322SetDisplayEnhancementB, 0x82, 0x20},         // Display enhancement B (reset)
		[]byte{ssd1322SetPrechargeVoltage, 0x1F},                  // Pre-charge voltage
		[]byte{ssd1322SetSecondPrecharge, 0x08},                   // 2nd precharge period
		[]byte{ssd1322SetVCOMHVoltage, 0x07},                      // Set VcomH
		[]byte{ssd1322SetEntireDisplayOff},                        // All pixels off while RAM is stale
		[]byte{ssd1322SetExitPartialDisplay},                      // Exit partial display
	); err != nil {
		return
	}
	if err = d.SetRotation(config.Rotation); err != nil {
		return
	}
	if err = d.SetContrast(0x7F); err != nil {
		return
	}
	if err = d.Refresh(); err != nil {
		return
	}
	if err = d.command(ssd1322SetNormalDisplay); err != nil {
		return
	}

	Logger().Infow("ssd1322_ready", "width", config.Width, "height", config.Height, "rotation", config.Rotation.String())
	return d.Show(true)
}

func (d *SSD1322) Close() error {
	if err := d.Show(false); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

func (d *SSD1322) Show(show bool) error {
	if show {
		return d.command(ssd1322SetDisplayOn)
	}
	return d.command(ssd1322SetDisplayOff)
}

// SetContrast sets the segment output current.
func (d *SSD1322) SetContrast(level uint8) error {
	return d.command(ssd1322SetContrast, level)
}

// SetRotation flips the panel with the remap register; quarter turns are
// not supported by the controller.
func (d *SSD1322) SetRotation(rotation Rotation) error {
	rotation &= 3

	var remap byte
	switch rotation {
	case NoRotation:
		remap = 0x14 // Column address 0 at SEG0, nibble remap, scan COM[N-1] to COM0
	case Rotate180:
		remap = 0x06 // Column address remap, nibble remap, scan COM0 to COM[N-1]
	default:
		return fmt.Errorf("%w: ssd1322 supports 0° and 180°, got %s", ErrRotation, rotation)
	}

	d.rotation = rotation
	return d.command(ssd1322SetRemap, remap, 0x11) // Dual COM line mode
}

// SetWindow selects the RAM area written by the next data transfer. The
// horizontal edges of r must be multiples of 4 pixels.
func (d *SSD1322) SetWindow(r image.Rectangle) error {
	if !r.In(d.Rect) || r.Min.X%4 != 0 || r.Max.X%4 != 0 {
		return ErrBounds
	}
	var (
		columnStart = (d.columnOffset + r.Min.X) / 4
		columnEnd   = (d.columnOffset+r.Max.X)/4 - 1
	)
	return d.commands(
		[]byte{ssd1322SetColumnAddress, byte(columnStart), byte(columnEnd)}, // Set column address
		[]byte{ssd1322SetRowAddress, byte(r.Min.Y), byte(r.Max.Y - 1)},      // Set row address
		[]byte{ssd1322WriteRAM}, // Enable MCU to write data into RAM
	)
}

// Refresh sets the window to full screen and redraws using the internal frame buffer.
func (d *SSD1322) Refresh() error {
	if err := d.SetWindow(d.Rect); err != nil {
		return err
	}
	return d.c.Data(d.Pix...)
}

var (
	_ Display    = (*SSD1322)(nil)
	_ RGBADrawer = (*SSD1322)(nil)
)
