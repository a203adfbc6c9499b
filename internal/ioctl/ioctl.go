//go:build linux

// Package ioctl encodes and issues Linux ioctl requests.
package ioctl

import (
	"fmt"
	"syscall"
	"unsafe"
)

// Mode is the IOCTL data direction.
type Mode uint8

// Modes
const (
	None Mode = iota
	Write
	Read
)

// Command to be sent over ioctl.
type Command uintptr

func (c Command) String() string {
	var (
		mode = Mode(c >> 30 & 0x03)
		size = c >> 16 & 0x3fff
		cmd  = c & 0xffff
		str  string
	)
	if mode&Write > 0 {
		str += " write"
	}
	if mode&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) 0x%04x", str, size, uintptr(cmd))
}

// Encode an ioctl command; cmd holds the type in its high byte and the
// number in its low byte.
func Encode(mode Mode, size uint16, cmd uintptr) Command {
	return Command(mode)<<30 | Command(size)<<16 | Command(cmd)
}

// IOR encodes a command that reads a T from the driver, like _IOR in C.
func IOR[T any](typ byte, nr uint8) Command {
	var v T
	return Encode(Read, uint16(unsafe.Sizeof(v)), uintptr(typ)<<8|uintptr(nr))
}

// IOW encodes a command that writes a T to the driver, like _IOW in C.
func IOW[T any](typ byte, nr uint8) Command {
	var v T
	return Encode(Write, uint16(unsafe.Sizeof(v)), uintptr(typ)<<8|uintptr(nr))
}

// Do executes the ioctl call with v as its argument.
func Do[T any](fd uintptr, command Command, v *T) error {
	return Call(fd, uintptr(command), uintptr(unsafe.Pointer(v)))
}

// Call does a plain ioctl system call.
func Call(fd, command, arg uintptr) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, command, arg)
	if errno != 0 {
		return fmt.Errorf("ioctl %s failed: %w", Command(command), errno)
	}
	return nil
}
