//go:build !linux

package input

import (
	"context"
	"errors"

	"github.com/BeatGlow/pencil/internal/logger"
	"github.com/BeatGlow/pencil/stylus"
)

// ErrNotSupported is returned for event devices outside Linux.
var ErrNotSupported = errors.New("input: evdev not supported")

// Evdev is unavailable outside Linux.
type Evdev struct{}

// OpenEvdev always fails outside Linux.
func OpenEvdev(_ string, _ *logger.Logger) (*Evdev, error) {
	return nil, ErrNotSupported
}

func (d *Evdev) String() string { return "evdev (unsupported)" }
func (d *Evdev) Close() error   { return ErrNotSupported }

func (d *Evdev) Run(_ context.Context, _ chan<- stylus.Event) error {
	return ErrNotSupported
}
