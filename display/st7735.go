package display

import (
	"time"

	"github.com/BeatGlow/pencil/conn"
	"github.com/BeatGlow/pencil/pixel"
)

const (
	st7735DefaultWidth  = 128
	st7735DefaultHeight = 160
	st7735MaxSpeed      = 15_000_000
)

// Registers (from st7735.pdf).
const (
	st7735FRMCTR1 = 0xB1 // Frame Rate Control (normal mode)
	st7735FRMCTR2 = 0xB2 // Frame Rate Control (idle mode)
	st7735FRMCTR3 = 0xB3 // Frame Rate Control (partial mode)
	st7735INVCTR  = 0xB4 // Display Inversion Control
	st7735PWCTR1  = 0xC0 // Power Control 1
	st7735PWCTR2  = 0xC1 // Power Control 2
	st7735PWCTR3  = 0xC2 // Power Control 3 (normal mode)
	st7735PWCTR4  = 0xC3 // Power Control 4 (idle mode)
	st7735PWCTR5  = 0xC4 // Power Control 5 (partial mode)
	st7735VMCTR1  = 0xC5 // VCOM Control 1
	st7735GMCTRP1 = 0xE0 // Gamma (+ polarity) Correction
	st7735GMCTRN1 = 0xE1 // Gamma (- polarity) Correction
)

// ST7735 is a 132x162 16-bit colour TFT panel on a SPI bus, as found on the
// common 1.8" 128x160 modules.
type ST7735 struct {
	tft
}

// NewST7735 initializes the panel behind c.
func NewST7735(c Conn, config *Config) (*ST7735, error) {
	if err := setupSPI(c, conn.SPIMode3, st7735MaxSpeed); err != nil {
		return nil, err
	}

	d := &ST7735{tft: tft{name: "ST7735", c: c}}
	if err := d.init(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *ST7735) init(config *Config) (err error) {
	if err = checkSize("st7735", config, st7735DefaultWidth, st7735DefaultHeight, 132, 162); err != nil {
		return
	}

	d.Packed16Image = pixel.NewPacked16Image(config.Width, config.Height, pixel.RGB565)
	d.backlight = config.Backlight

	if err = d.reset(); err != nil {
		return
	}
	if err = d.commands([][]byte{
		{st7735FRMCTR1, 0x01, 0x2C, 0x2D},
		{st7735FRMCTR2, 0x01, 0x2C, 0x2D},
		{st7735FRMCTR3, 0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D},
		{st7735INVCTR, 0x07}, // No inversion
		{st7735PWCTR1, 0xA2, 0x02, 0x84},
		{st7735PWCTR2, 0xC5},
		{st7735PWCTR3, 0x0A, 0x00},
		{st7735PWCTR4, 0x8A, 0x2A},
		{st7735PWCTR5, 0x8A, 0xEE},
		{st7735VMCTR1, 0x0E},
		{tftINVOFF},
		{tftCOLMOD, 0x05}, // 16-bits per pixel
		{st7735GMCTRP1, 0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10},
		{st7735GMCTRN1, 0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10},
		{tftNORON},
		{tftDISPON},
	}); err != nil {
		return
	}
	time.Sleep(100 * time.Millisecond)

	Logger().Infow("st7735_ready", "width", config.Width, "height", config.Height, "rotation", config.Rotation.String())
	return d.SetRotation(config.Rotation)
}

var (
	_ Display    = (*ST7735)(nil)
	_ RGBADrawer = (*ST7735)(nil)
)
