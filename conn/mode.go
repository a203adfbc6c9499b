package conn

// SPI mode bits from <linux/spi/spidev.h>.
const (
	spiCPHA = 0x01
	spiCPOL = 0x02
)

// SPIMode is the SPI clock polarity and phase.
type SPIMode uint8

// SPI modes.
const (
	SPIMode0 SPIMode = 0
	SPIMode1 SPIMode = spiCPHA
	SPIMode2 SPIMode = spiCPOL
	SPIMode3 SPIMode = spiCPOL | spiCPHA
)
