package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BeatGlow/pencil/display"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Display.Driver != DriverWindow {
		t.Errorf("expected window driver, got %q", c.Display.Driver)
	}
	if c.HUD.Title != "flexmonkey.blogspot.co.uk" || c.HUD.FontSize != 18 || !c.HUD.Indicator {
		t.Errorf("unexpected hud defaults %+v", c.HUD)
	}
	if c.Input.ReplayInterval != 16*time.Millisecond {
		t.Errorf("expected 16ms replay interval, got %s", c.Input.ReplayInterval)
	}
	if c.Filter.Workers != 1 || c.Log.Level != "info" {
		t.Errorf("unexpected defaults %+v", c)
	}
	if c.Display.SPI.DC != "GPIO24" || c.Display.SPI.SpeedHz != display.DefaultSPIConfig.SpeedHz {
		t.Errorf("unexpected spi defaults %+v", c.Display.SPI)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pencil.yml")
	if err := os.WriteFile(path, []byte(`
image: photo.jpg
display:
  driver: st7735
  width: 320
  height: 240
  rotation: "90"
  output: out.png
input:
  replay_interval: 5ms
filter:
  workers: 4
`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PENCIL_HUD_TITLE", "pencil")
	t.Setenv("PENCIL_LOG_LEVEL", "debug")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Image != "photo.jpg" || c.Display.Driver != DriverST7735 || c.Display.Output != "out.png" {
		t.Errorf("unexpected file values %+v", c)
	}
	if c.Display.Width != 320 || c.Display.Height != 240 || c.Rotation() != display.Rotate90 {
		t.Errorf("unexpected display %+v", c.Display)
	}
	if c.Input.ReplayInterval != 5*time.Millisecond || c.Filter.Workers != 4 {
		t.Errorf("unexpected input/filter %+v %+v", c.Input, c.Filter)
	}
	if c.HUD.Title != "pencil" || c.Log.Level != "debug" {
		t.Errorf("expected environment overrides, got %q %q", c.HUD.Title, c.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for missing explicit file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Display: Display{Driver: DriverWindow, Rotation: "0", Output: "x.png"},
			HUD:     HUD{FontSize: 18},
			Filter:  Filter{Workers: 1},
		}
	}
	tests := []struct {
		Name   string
		Modify func(*Config)
	}{
		{"driver", func(c *Config) { c.Display.Driver = "vga" }},
		{"png output", func(c *Config) { c.Display.Driver = DriverPNG; c.Display.Output = "" }},
		{"size", func(c *Config) { c.Display.Width = -1 }},
		{"rotation", func(c *Config) { c.Display.Rotation = "45" }},
		{"window rotation", func(c *Config) { c.Display.Rotation = "90" }},
		{"png rotation", func(c *Config) { c.Display.Driver = DriverPNG; c.Display.Rotation = "180" }},
		{"framebuffer rotation", func(c *Config) { c.Display.Driver = DriverFramebuffer; c.Display.Rotation = "270" }},
		{"ssd1322 quarter turn", func(c *Config) { c.Display.Driver = DriverSSD1322; c.Display.Rotation = "90" }},
		{"interval", func(c *Config) { c.Input.ReplayInterval = -time.Second }},
		{"font", func(c *Config) { c.HUD.FontSize = 0 }},
		{"workers", func(c *Config) { c.Filter.Workers = 0 }},
	}

	for _, modify := range []func(*Config){
		func(*Config) {},
		func(c *Config) { c.Display.Driver = DriverST7789; c.Display.Rotation = "90" },
		func(c *Config) { c.Display.Driver = DriverST7735; c.Display.Rotation = "270" },
		func(c *Config) { c.Display.Driver = DriverSSD1322; c.Display.Rotation = "180" },
	} {
		c := valid()
		modify(&c)
		if err := c.Validate(); err != nil {
			t.Errorf("expected valid config for %s at %s, got %v", c.Display.Driver, c.Display.Rotation, err)
		}
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			c := valid()
			test.Modify(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}
