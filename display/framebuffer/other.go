//go:build !linux

package framebuffer

import (
	"errors"

	"github.com/BeatGlow/pencil/display"
)

// ErrNotSupported is returned outside Linux.
var ErrNotSupported = errors.New("framebuffer: not supported")

// FrameBuffer is unavailable outside Linux.
type FrameBuffer struct {
	display.Display
}

// Open always fails outside Linux.
func Open(_ string) (*FrameBuffer, error) {
	return nil, ErrNotSupported
}
