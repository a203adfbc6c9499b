//go:build !linux

package conn

import "errors"

// ErrNotSupported is returned when spidev is not available.
var ErrNotSupported = errors.New("conn: SPI not supported on this platform")

// SPI is unavailable outside Linux.
type SPI struct{}

// OpenSPI always fails outside Linux.
func OpenSPI(bus, device int) (*SPI, error) {
	return nil, ErrNotSupported
}

func (c *SPI) Close() error               { return ErrNotSupported }
func (c *SPI) String() string             { return "SPI (unsupported)" }
func (c *SPI) Mode() SPIMode              { return SPIMode0 }
func (c *SPI) SetMode(SPIMode) error      { return ErrNotSupported }
func (c *SPI) BitsPerWord() uint8         { return 0 }
func (c *SPI) SetBitsPerWord(uint8) error { return ErrNotSupported }
func (c *SPI) MaxSpeed() int              { return 0 }
func (c *SPI) SetMaxSpeed(int) error      { return ErrNotSupported }
func (c *SPI) Write([]byte) (int, error)  { return 0, ErrNotSupported }
