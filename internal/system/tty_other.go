//go:build !linux

package system

import "errors"

var errNoConsole = errors.New("console mode switching is only supported on linux")

func SetGraphicsMode() error { return errNoConsole }
func RestoreTextMode() error { return errNoConsole }
func writeVT(s string) error { return errNoConsole }
