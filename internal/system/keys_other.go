//go:build !linux

package system

import "context"

var DefaultExitKeys []uint16

// WatchExitKeys is a no-op off linux.
func WatchExitKeys(ctx context.Context, logger Logger, keys []uint16, onExit func()) {
	if logger != nil {
		logger.Infof("input", "exit keys are only supported on linux")
	}
}
