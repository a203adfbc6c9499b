// Package config loads the application configuration from an optional YAML
// file and PENCIL_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/BeatGlow/pencil/display"
)

// DefaultPath is read when no configuration file is given and it exists.
const DefaultPath = "configs/pencil.yml"

// EnvPrefix prefixes environment overrides, PENCIL_DISPLAY_DRIVER=png.
const EnvPrefix = "PENCIL"

// Display drivers.
const (
	DriverWindow      = "window"
	DriverST7789      = "st7789"
	DriverST7735      = "st7735"
	DriverSSD1322     = "ssd1322"
	DriverFramebuffer = "framebuffer"
	DriverPNG         = "png"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config is the application configuration.
type Config struct {
	Log     Log     `mapstructure:"log"`
	Image   string  `mapstructure:"image"`
	Display Display `mapstructure:"display"`
	Input   Input   `mapstructure:"input"`
	HTTP    HTTP    `mapstructure:"http"`
	HUD     HUD     `mapstructure:"hud"`
	Filter  Filter  `mapstructure:"filter"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Display struct {
	Driver   string `mapstructure:"driver"`
	Width    int    `mapstructure:"width"`
	Height   int    `mapstructure:"height"`
	Rotation string `mapstructure:"rotation"`
	Device   string `mapstructure:"device"`
	Output   string `mapstructure:"output"`
	SPI      SPI    `mapstructure:"spi"`
}

type SPI struct {
	Bus       int    `mapstructure:"bus"`
	Device    int    `mapstructure:"device"`
	SpeedHz   uint32 `mapstructure:"speed_hz"`
	Reset     string `mapstructure:"reset"`
	DC        string `mapstructure:"dc"`
	CE        string `mapstructure:"ce"`
	Backlight string `mapstructure:"backlight"`
}

type Input struct {
	Evdev          string        `mapstructure:"evdev"`
	Replay         string        `mapstructure:"replay"`
	ReplayInterval time.Duration `mapstructure:"replay_interval"`
}

type HTTP struct {
	Addr string `mapstructure:"addr"`
}

type HUD struct {
	Title     string  `mapstructure:"title"`
	FontSize  float64 `mapstructure:"font_size"`
	Indicator bool    `mapstructure:"indicator"`
}

type Filter struct {
	Workers int `mapstructure:"workers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("image", "")
	v.SetDefault("display.driver", DriverWindow)
	v.SetDefault("display.width", 0)
	v.SetDefault("display.height", 0)
	v.SetDefault("display.rotation", "0")
	v.SetDefault("display.device", "/dev/fb0")
	v.SetDefault("display.output", "pencil.png")
	v.SetDefault("display.spi.bus", 0)
	v.SetDefault("display.spi.device", 0)
	v.SetDefault("display.spi.speed_hz", display.DefaultSPIConfig.SpeedHz)
	v.SetDefault("display.spi.reset", "GPIO25")
	v.SetDefault("display.spi.dc", "GPIO24")
	v.SetDefault("display.spi.ce", "GPIO8")
	v.SetDefault("display.spi.backlight", "GPIO19")
	v.SetDefault("input.evdev", "")
	v.SetDefault("input.replay", "")
	v.SetDefault("input.replay_interval", 16*time.Millisecond)
	v.SetDefault("http.addr", "")
	v.SetDefault("hud.title", "flexmonkey.blogspot.co.uk")
	v.SetDefault("hud.font_size", 18)
	v.SetDefault("hud.indicator", true)
	v.SetDefault("filter.workers", 1)
}

// Load reads the configuration. An empty path reads DefaultPath when it
// exists; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
	case fileExists(DefaultPath):
		v.SetConfigFile(DefaultPath)
	}
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	rotation, err := display.ParseRotation(c.Display.Rotation)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Display.Driver {
	case DriverST7789, DriverST7735:
	case DriverSSD1322:
		if rotation == display.Rotate90 || rotation == display.Rotate270 {
			return fmt.Errorf("%w: display.rotation %s, the ssd1322 driver supports 0 and 180", ErrInvalid, rotation)
		}
	case DriverWindow, DriverFramebuffer, DriverPNG:
		if err = display.Upright(rotation); err != nil {
			return fmt.Errorf("%w: %s driver: %v", ErrInvalid, c.Display.Driver, err)
		}
		if c.Display.Driver == DriverPNG && c.Display.Output == "" {
			return fmt.Errorf("%w: display.output is required for the png driver", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: display.driver %q", ErrInvalid, c.Display.Driver)
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		return fmt.Errorf("%w: display size %dx%d", ErrInvalid, c.Display.Width, c.Display.Height)
	}
	if c.Input.ReplayInterval < 0 {
		return fmt.Errorf("%w: input.replay_interval %s", ErrInvalid, c.Input.ReplayInterval)
	}
	if c.HUD.FontSize <= 0 {
		return fmt.Errorf("%w: hud.font_size %g", ErrInvalid, c.HUD.FontSize)
	}
	if c.Filter.Workers < 1 {
		return fmt.Errorf("%w: filter.workers %d", ErrInvalid, c.Filter.Workers)
	}
	return nil
}

// Rotation returns the parsed display rotation.
func (c *Config) Rotation() display.Rotation {
	r, _ := display.ParseRotation(c.Display.Rotation)
	return r
}
