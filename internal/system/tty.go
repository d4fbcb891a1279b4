package system

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// HideCursor writes the ANSI escape to hide the cursor to the active VT.
func HideCursor() error { return writeVT("\x1b[?25l") }
func ShowCursor() error { return writeVT("\x1b[?25h") }

// EnterGraphics prepares the console for framebuffer output and returns a
// function that undoes it. Failures are logged and otherwise ignored.
func EnterGraphics(l Logger) (restore func()) {
	logResult(l, SetGraphicsMode(), "KD_GRAPHICS set", "KD_GRAPHICS failed")
	logResult(l, HideCursor(), "cursor hidden", "hide cursor failed")
	return func() {
		logResult(l, ShowCursor(), "cursor shown", "show cursor failed")
		logResult(l, RestoreTextMode(), "KD_TEXT set", "KD_TEXT failed")
	}
}

func logResult(l Logger, err error, ok, failed string) {
	if l == nil {
		return
	}
	if err != nil {
		l.Errorf("tty", "%s: %v", failed, err)
		return
	}
	l.Infof("tty", "%s", ok)
}
