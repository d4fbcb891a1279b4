//go:build linux

package system

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// Active VT first, then the current console.
var consolePaths = []string{"/dev/tty", "/dev/tty0"}

// SetGraphicsMode switches the console to KD_GRAPHICS so the text console
// does not draw over the framebuffer.
func SetGraphicsMode() error { return setConsoleMode(kdGraphics, "KD_GRAPHICS") }

// RestoreTextMode switches the console back to KD_TEXT.
func RestoreTextMode() error { return setConsoleMode(kdText, "KD_TEXT") }

func setConsoleMode(mode int, name string) error {
	var errs []error
	for _, p := range consolePaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", p, err))
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		_ = unix.Close(fd)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s on %s: %w", name, p, err))
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}

func writeVT(s string) error {
	var errs []error
	for _, p := range consolePaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = f.WriteString(s)
		_ = f.Close()
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("write VT: %w", errors.Join(errs...))
}
