//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/BeatGlow/pencil/internal/ioctl"
	"github.com/BeatGlow/pencil/internal/logger"
	"github.com/BeatGlow/pencil/stylus"
)

// inputEvent mirrors struct input_event.
type inputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Evdev reads a pen tablet through the Linux event interface.
type Evdev struct {
	f       *os.File
	name    string
	log     *logger.Logger
	decoder evdevDecoder
}

// OpenEvdev opens an event device, typically /dev/input/event[0..x], and
// queries the ranges of its position and tilt axes.
func OpenEvdev(name string, log *logger.Logger) (*Evdev, error) {
	if log == nil {
		log = logger.Nop()
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	d := &Evdev{f: f, name: name, log: log}
	for i, code := range []uint8{absX, absY, absTiltX, absTiltY} {
		info := &d.decoder.axes[i]
		if err = ioctl.Do(f.Fd(), ioctl.IOR[absInfo]('E', 0x40+code), info); err != nil {
			// Missing tilt axes leave the stylus upright.
			log.Debugw("evdev_axis_missing", "device", name, "axis", code, "error", err)
			continue
		}
		d.decoder.axisValue(uint16(code), info.Value)
	}
	log.Infow("evdev_open", "device", name, "x", d.decoder.axes[0], "tilt_x", d.decoder.axes[2])
	return d, nil
}

func (d *Evdev) String() string {
	return fmt.Sprintf("evdev %s", d.name)
}

// Close the device; a blocked Run returns.
func (d *Evdev) Close() error {
	return d.f.Close()
}

// Run reads events until ctx is done or the device fails.
func (d *Evdev) Run(ctx context.Context, out chan<- stylus.Event) error {
	go func() {
		<-ctx.Done()
		_ = d.f.Close()
	}()

	var (
		ev  inputEvent
		evs []stylus.Event
	)
	for {
		if err := binary.Read(d.f, binary.NativeEndian, &ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return fmt.Errorf("input: %s: %w", d.name, err)
		}
		evs = d.decoder.input(evs[:0], ev.Type, ev.Code, ev.Value)
		for _, e := range evs {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- e:
			}
		}
	}
}
