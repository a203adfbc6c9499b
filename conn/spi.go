//go:build linux

// Package conn talks to Linux spidev devices.
package conn

import (
	"fmt"
	"os"

	"github.com/BeatGlow/pencil/internal/ioctl"
)

const spiDevPath = "/dev/spidev"

// spidev ioctl numbers from <linux/spi/spidev.h>.
const (
	spiIOCMagic       = 'k'
	spiIOCMode        = 1
	spiIOCBitsPerWord = 3
	spiIOCMaxSpeedHz  = 4
)

// SPI implements the spidev interface.
type SPI struct {
	f           *os.File
	fd          uintptr
	name        string
	mode        SPIMode
	bitsPerWord uint8
	maxSpeedHz  uint32
}

// OpenSPI opens the numbered spi bus with the numbered device. The device often corresponds to the CS pin for that bus.
func OpenSPI(bus, device int) (*SPI, error) {
	name := fmt.Sprintf("%s%d.%d", spiDevPath, bus, device)
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	c := &SPI{
		f:    f,
		fd:   f.Fd(),
		name: name,
	}
	if err = ioctl.Do(c.fd, ioctl.IOR[SPIMode](spiIOCMagic, spiIOCMode), &c.mode); err == nil {
		if err = ioctl.Do(c.fd, ioctl.IOR[uint8](spiIOCMagic, spiIOCBitsPerWord), &c.bitsPerWord); err == nil {
			err = ioctl.Do(c.fd, ioctl.IOR[uint32](spiIOCMagic, spiIOCMaxSpeedHz), &c.maxSpeedHz)
		}
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("conn: %s: %w", name, err)
	}
	return c, nil
}

func (c *SPI) Close() error {
	return c.f.Close()
}

func (c *SPI) String() string {
	return fmt.Sprintf("%s mode=%d bits per word=%d max speed=%dHz", c.name, c.mode, c.bitsPerWord, c.maxSpeedHz)
}

func (c *SPI) Mode() SPIMode {
	return c.mode
}

func (c *SPI) SetMode(mode SPIMode) error {
	mode &= 0x0f
	if err := ioctl.Do(c.fd, ioctl.IOW[SPIMode](spiIOCMagic, spiIOCMode), &mode); err != nil {
		return err
	}

	var test SPIMode
	if err := ioctl.Do(c.fd, ioctl.IOR[SPIMode](spiIOCMagic, spiIOCMode), &test); err != nil {
		return err
	}
	if test != mode {
		return fmt.Errorf("conn: SPI attempted to set mode %#02x, but mode %#02x is in use", mode, test)
	}

	c.mode = mode
	return nil
}

func (c *SPI) BitsPerWord() uint8 {
	return c.bitsPerWord
}

func (c *SPI) SetBitsPerWord(bits uint8) error {
	if bits < 8 || bits > 32 {
		return fmt.Errorf("conn: SPI bits per word need to be 8 or more and 32 or less, got %d", bits)
	}
	if c.bitsPerWord != bits {
		if err := ioctl.Do(c.fd, ioctl.IOW[uint8](spiIOCMagic, spiIOCBitsPerWord), &bits); err != nil {
			return err
		}
		c.bitsPerWord = bits
	}
	return nil
}

func (c *SPI) MaxSpeed() int {
	return int(c.maxSpeedHz)
}

func (c *SPI) SetMaxSpeed(v int) error {
	if v <= 0 {
		return nil
	}
	u := uint32(v)
	if c.maxSpeedHz != u {
		if err := ioctl.Do(c.fd, ioctl.IOW[uint32](spiIOCMagic, spiIOCMaxSpeedHz), &u); err != nil {
			return err
		}
		c.maxSpeedHz = u
	}
	return nil
}

func (c *SPI) Write(b []byte) (n int, err error) {
	return c.f.Write(b)
}
