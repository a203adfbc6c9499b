package display

import (
	"time"

	"github.com/BeatGlow/pencil/conn"
	"github.com/BeatGlow/pencil/pixel"
)

const (
	st7789DefaultWidth  = 240
	st7789DefaultHeight = 240
	st7789MaxSpeed      = 40_000_000
)

// Registers (from st7789.pdf).
const (
	st7789PORCTRL   = 0xB2 // Porch Setting
	st7789GCTRL     = 0xB7 // Gate Control
	st7789VCOMS     = 0xBB // VCOM Setting
	st7789LCMCTRL   = 0xC0 // LCM Control
	st7789VDVVRHEN  = 0xC2 // VDV and VRH Command Enable
	st7789VRHS      = 0xC3 // VRH Set
	st7789VDVSET    = 0xC4 // VDV Set
	st7789VCMOFSET  = 0xC5 // VCOM Offset Set
	st7789FRCTR2    = 0xC6 // Frame Rate Control in Normal Mode
	st7789PWCTRL1   = 0xD0 // Power Control 1
	st7789PVGAMCTRL = 0xE0 // Positive Voltage Gamma Control
	st7789NVGAMCTRL = 0xE1 // Negative Voltage Gamma Control
)

// ST7789 is a 240x320 16-bit colour TFT panel on a SPI bus.
type ST7789 struct {
	tft
}

// NewST7789 initializes the panel behind c.
func NewST7789(c Conn, config *Config) (*ST7789, error) {
	if err := setupSPI(c, conn.SPIMode3, st7789MaxSpeed); err != nil {
		return nil, err
	}

	d := &ST7789{tft: tft{name: "ST7789", c: c}}
	if err := d.init(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *ST7789) init(config *Config) (err error) {
	if err = checkSize("st7789", config, st7789DefaultWidth, st7789DefaultHeight, 240, 320); err != nil {
		return
	}

	d.Packed16Image = pixel.NewPacked16Image(config.Width, config.Height, pixel.RGB565)
	d.backlight = config.Backlight

	if err = d.reset(); err != nil {
		return
	}
	if err = d.commands([][]byte{
		{tftCOLMOD, 0x05},           // Interface Pixel Format: 16-bit/pixel (RGB 5-6-5-bit input)
		{st7789PORCTRL, 0x0C, 0x0C}, // Porch Setting: default
		{st7789GCTRL, 0x35},         // Gate Control: 13.26V / -10.43V (default)
		{st7789VCOMS, 0x1A},         // VCOM Setting: 0.75V
		{st7789LCMCTRL, 0x2C},       // LCM Control: default
		{st7789VDVVRHEN, 0x01},      // VDV and VRH Command Enable: default
		{st7789VRHS, 0x0B},          // VRH Set
		{st7789VDVSET, 0x20},        // VDV Set: default (0V)
		{st7789VCMOFSET, 0x20},      // VCOM Offset Set: default (0V)
		{st7789FRCTR2, 0x0F},        // Frame Rate Control in Normal Mode: 60Hz (default)
		{st7789PWCTRL1, 0xA4, 0xA1}, // Power Control 1: default
		{tftINVON},
		{st7789PVGAMCTRL, 0x00, 0x19, 0x1E, 0x0A, 0x09, 0x15, 0x3D, 0x44, 0x51, 0x12, 0x03, 0x00, 0x3F, 0x3F},
		{st7789NVGAMCTRL, 0x00, 0x18, 0x1E, 0x0A, 0x09, 0x25, 0x3F, 0x43, 0x52, 0x33, 0x03, 0x00, 0x3F, 0x3F},
		{tftNORON},
		{tftDISPON},
	}); err != nil {
		return
	}
	time.Sleep(100 * time.Millisecond)

	Logger().Infow("st7789_ready", "width", config.Width, "height", config.Height, "rotation", config.Rotation.String())
	return d.SetRotation(config.Rotation)
}

var (
	_ Display    = (*ST7789)(nil)
	_ RGBADrawer = (*ST7789)(nil)
)
