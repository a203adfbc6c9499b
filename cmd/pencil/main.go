package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/pencil"
	"github.com/BeatGlow/pencil/display"
	"github.com/BeatGlow/pencil/display/framebuffer"
	"github.com/BeatGlow/pencil/display/window"
	"github.com/BeatGlow/pencil/hud"
	"github.com/BeatGlow/pencil/input"
	"github.com/BeatGlow/pencil/internal/config"
	"github.com/BeatGlow/pencil/internal/logger"
	"github.com/BeatGlow/pencil/stylus"
)

const (
	defaultWidth    = 640
	defaultHeight   = 480
	eventQueue      = 64
	shutdownTimeout = 10 * time.Second
)

func main() {
	configFlag := flag.String("config", "", "Configuration file (default: "+config.DefaultPath+" when present)")
	driverFlag := flag.String("driver", "", "Display driver: window, st7789, st7735, ssd1322, framebuffer or png")
	imageFlag := flag.String("image", "", "Source image (default: built-in test card)")
	httpFlag := flag.String("http", "", "Websocket bridge listen address, for example :8080")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	if *driverFlag != "" {
		cfg.Display.Driver = *driverFlag
	}
	if *imageFlag != "" {
		cfg.Image = *imageFlag
	}
	if *httpFlag != "" {
		cfg.HTTP.Addr = *httpFlag
	}
	if err = cfg.Validate(); err != nil {
		fatal(err)
	}

	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	display.SetLogger(log.Named("display"))

	if err = run(cfg, log); err != nil {
		log.Errorw("exit", "err", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, win, err := openDisplay(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Warnw("display_close_failed", "err", err)
		}
	}()
	log.Infow("display_opened", "driver", cfg.Display.Driver, "display", fmt.Sprint(out), "bounds", out.Bounds().String())

	src, err := openSource(cfg, out.Bounds())
	if err != nil {
		return err
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = renderer.Close() }()

	app := pencil.New(out, src, &pencil.Config{
		Title:    cfg.HUD.Title,
		Workers:  cfg.Filter.Workers,
		Renderer: renderer,
		Logger:   log.Named("app"),
	})

	var (
		events = make(chan stylus.Event, eventQueue)
		p      = pool.New().WithContext(ctx).WithCancelOnError()
	)
	if err = startSources(p, cfg, log, app, events, win); err != nil {
		return err
	}
	p.Go(func(ctx context.Context) error {
		return app.Run(ctx, events)
	})

	if win != nil {
		// The window event loop owns the main goroutine; closing it stops
		// everything else.
		winCtx, cancel := context.WithCancel(ctx)
		p.Go(func(ctx context.Context) error {
			<-ctx.Done()
			cancel()
			return nil
		})
		err = win.Run(winCtx)
		stop()
		return errors.Join(err, dropCanceled(p.Wait()))
	}
	return dropCanceled(p.Wait())
}

// dropCanceled removes the context.Canceled errors of sources that stopped
// on shutdown, keeping every other error joined with them.
func dropCanceled(err error) error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var errs []error
		for _, err := range joined.Unwrap() {
			if err = dropCanceled(err); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func displayConfig(cfg *config.Config) *display.Config {
	c := &display.Config{
		Width:    cfg.Display.Width,
		Height:   cfg.Display.Height,
		Rotation: cfg.Rotation(),
	}
	switch cfg.Display.Driver {
	case config.DriverWindow, config.DriverPNG:
		if c.Width == 0 {
			c.Width = defaultWidth
		}
		if c.Height == 0 {
			c.Height = defaultHeight
		}
	}
	return c
}

func openDisplay(cfg *config.Config) (display.Display, *window.Window, error) {
	dc := displayConfig(cfg)
	switch cfg.Display.Driver {
	case config.DriverWindow:
		w := window.New("pencil", dc)
		return w, w, nil

	case config.DriverPNG:
		d, err := display.NewPNG(cfg.Display.Output, dc)
		return d, nil, err

	case config.DriverFramebuffer:
		fb, err := framebuffer.Open(cfg.Display.Device)
		if err != nil {
			return nil, nil, err
		}
		return fb, nil, nil

	case config.DriverST7789, config.DriverST7735, config.DriverSSD1322:
		d, err := openPanel(cfg, dc)
		return d, nil, err
	}
	return nil, nil, fmt.Errorf("%w %q", display.ErrDriver, cfg.Display.Driver)
}

// openPanel initializes a SPI panel driver.
func openPanel(cfg *config.Config, dc *display.Config) (display.Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	spi := cfg.Display.SPI
	conn, err := display.OpenSPI(&display.SPIConfig{
		Bus:     spi.Bus,
		Device:  spi.Device,
		SpeedHz: spi.SpeedHz,
		Reset:   display.PinByName(spi.Reset),
		DC:      display.PinByName(spi.DC),
		CE:      display.PinByName(spi.CE),
	})
	if err != nil {
		return nil, err
	}

	var d display.Display
	switch cfg.Display.Driver {
	case config.DriverST7789:
		dc.Backlight = display.PinByName(spi.Backlight)
		d, err = display.NewST7789(conn, dc)
	case config.DriverST7735:
		dc.Backlight = display.PinByName(spi.Backlight)
		d, err = display.NewST7735(conn, dc)
	case config.DriverSSD1322:
		d, err = display.NewSSD1322(conn, dc)
	default:
		err = fmt.Errorf("%w %q", display.ErrDriver, cfg.Display.Driver)
	}
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if cfg.Display.Driver != config.DriverSSD1322 {
		// Full backlight; the OLED keeps the contrast set at init.
		if err = d.SetContrast(0xff); err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	return d, nil
}

func openSource(cfg *config.Config, bounds image.Rectangle) (image.Image, error) {
	if cfg.Image == "" {
		return pencil.TestCard(bounds.Dx(), bounds.Dy()), nil
	}
	return pencil.LoadImage(cfg.Image)
}

func newRenderer(cfg *config.Config) (*hud.Renderer, error) {
	label, err := hud.NewLabel(cfg.HUD.FontSize, color.White)
	if err != nil {
		return nil, err
	}
	var indicator *hud.Indicator
	if cfg.HUD.Indicator {
		indicator = hud.NewIndicator()
	}
	return hud.NewRenderer(label, indicator), nil
}

func startSources(p *pool.ContextPool, cfg *config.Config, log *logger.Logger, app *pencil.App, events chan<- stylus.Event, win *window.Window) error {
	if win != nil {
		p.Go(func(ctx context.Context) error {
			return forward(ctx, win.Events(), events)
		})
	}

	if cfg.Input.Evdev != "" {
		dev, err := input.OpenEvdev(cfg.Input.Evdev, log.Named("evdev"))
		if err != nil {
			return err
		}
		p.Go(func(ctx context.Context) error {
			defer dev.Close()
			return dev.Run(ctx, events)
		})
	}

	if cfg.Input.Replay != "" {
		f, err := os.Open(cfg.Input.Replay)
		if err != nil {
			return err
		}
		p.Go(func(ctx context.Context) error {
			defer f.Close()
			if err := input.Replay(ctx, f, cfg.Input.ReplayInterval, events); err != nil {
				return fmt.Errorf("replay %s: %w", cfg.Input.Replay, err)
			}
			log.Infow("replay_done", "file", cfg.Input.Replay)
			return nil
		})
	}

	if cfg.HTTP.Addr != "" {
		srv := input.NewServer(events, log.Named("http"))
		app.Subscribe(func(st pencil.State) { srv.Publish(st) })
		p.Go(func(context.Context) error {
			return srv.ListenAndServe(cfg.HTTP.Addr)
		})
		p.Go(func(ctx context.Context) error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return nil
}

func forward(ctx context.Context, in <-chan stylus.Event, out chan<- stylus.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-in:
			select {
			case <-ctx.Done():
				return nil
			case out <- ev:
			}
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
