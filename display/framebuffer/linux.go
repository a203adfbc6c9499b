//go:build linux

package framebuffer

import (
	"fmt"
	"os"
	"syscall"

	"github.com/BeatGlow/pencil/display"
	"github.com/BeatGlow/pencil/internal/ioctl"
)

// From <linux/fb.h>
const (
	fbioGetVScreenInfo ioctl.Command = 0x4600
	fbioGetFScreenInfo ioctl.Command = 0x4602
	fbioBlank          ioctl.Command = 0x4611

	fbBlankUnblank   = 0
	fbBlankPowerdown = 4
)

// FrameBuffer is a Linux framebuffer device (fbdev).
type FrameBuffer struct {
	backBuffer
	f          *os.File
	fd         uintptr
	name       string
	mem        []byte
	pix        []byte
	format     format
	info       fixScreenInfo
	screenInfo varScreenInfo
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (*FrameBuffer, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	fb := &FrameBuffer{
		f:    f,
		fd:   f.Fd(),
		name: name,
	}
	if err = ioctl.Do(fb.fd, fbioGetFScreenInfo, &fb.info); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Request virtual screen info.
	if err = ioctl.Do(fb.fd, fbioGetVScreenInfo, &fb.screenInfo); err != nil {
		_ = f.Close()
		return nil, err
	}
	si := &fb.screenInfo
	if fb.format, err = parseFormat(si.BitsPerPixel, si.Red, si.Green, si.Blue, si.Alpha); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Map pixel buffer.
	if fb.mem, err = syscall.Mmap(int(fb.fd), 0, int(fb.info.SmemLen), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED); err != nil {
		_ = f.Close()
		return nil, err
	}

	fb.backBuffer, fb.pix = fb.format.newImage(int(si.Xres), int(si.Yres), int(fb.info.LineLength))
	display.Logger().Infow("framebuffer_open", "device", name, "width", si.Xres, "height", si.Yres, "format", fb.format.String())
	return fb, nil
}

func (fb *FrameBuffer) String() string {
	b := fb.Bounds()
	return fmt.Sprintf("framebuffer %s %dx%d %s", fb.name, b.Dx(), b.Dy(), fb.format)
}

// Close the framebuffer device
func (fb *FrameBuffer) Close() error {
	if err := syscall.Munmap(fb.mem); err != nil {
		return err
	}
	return fb.f.Close()
}

// Show blanks or unblanks the screen; drivers without blanking ignore it.
func (fb *FrameBuffer) Show(show bool) error {
	arg := uintptr(fbBlankPowerdown)
	if show {
		arg = fbBlankUnblank
	}
	if err := ioctl.Call(fb.fd, uintptr(fbioBlank), arg); err != nil {
		display.Logger().Debugw("framebuffer_blank_unsupported", "device", fb.name, "error", err)
	}
	return nil
}

// SetContrast adjusts the contrast level.
func (fb *FrameBuffer) SetContrast(_ uint8) error {
	return nil
}

// SetRotation accepts only [display.NoRotation], rotate the console with
// fbcon=rotate instead.
func (fb *FrameBuffer) SetRotation(rotation display.Rotation) error {
	return display.Upright(rotation)
}

// Refresh copies the back buffer to the device memory.
func (fb *FrameBuffer) Refresh() error {
	copy(fb.mem, fb.pix)
	return nil
}

type fixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// varScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

var (
	_ display.Display    = (*FrameBuffer)(nil)
	_ display.RGBADrawer = (*FrameBuffer)(nil)
)
