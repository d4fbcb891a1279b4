//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	evKey      = 0x01
	keyPressed = 1

	// Linux input-event-codes.h
	KeyEsc = 1
	KeyQ   = 16
	KeyF4  = 62
)

// DefaultExitKeys end the drawing pad when pressed on any keyboard.
var DefaultExitKeys = []uint16{KeyEsc, KeyQ, KeyF4}

// input_event = timeval + u16 type + u16 code + s32 value.
func inputEventLayout() (tvSize, eventSize int) {
	tvSize = binary.Size(unix.Timeval{})
	return tvSize, tvSize + 2 + 2 + 4
}

// WatchExitKeys watches evdev devices under /dev/input/event* and invokes
// onExit once when any of keys is pressed. It returns immediately; readers
// stop when ctx is done.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchExitKeys(ctx context.Context, logger Logger, keys []uint16, onExit func()) {
	if onExit == nil || len(keys) == 0 {
		return
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found, exit keys disabled")
		}
		return
	}

	var once sync.Once
	trigger := func(code uint16) {
		once.Do(func() {
			if logger != nil {
				logger.Infof("input", "key %d pressed: exiting", code)
			}
			onExit()
		})
	}

	for _, path := range paths {
		go watchDevice(ctx, path, keys, trigger)
	}
}

func watchDevice(ctx context.Context, path string, keys []uint16, trigger func(code uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	tvSize, eventSize := inputEventLayout()
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		if code, ok := findKeyPress(buf[:n], tvSize, eventSize, keys); ok {
			trigger(code)
			return
		}
	}
}

// findKeyPress scans a run of input_event records for a press of any key in keys.
func findKeyPress(data []byte, tvSize, eventSize int, keys []uint16) (uint16, bool) {
	for off := 0; off+eventSize <= len(data); off += eventSize {
		rec := data[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey || value != keyPressed {
			continue
		}
		for _, k := range keys {
			if code == k {
				return code, true
			}
		}
	}
	return 0, false
}
