package app

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvOutput    = "DRAWINGPAD_OUTPUT"
	EnvFBDevice  = "DRAWINGPAD_FB"
	EnvPNGPath   = "DRAWINGPAD_PNG"
	EnvFrames    = "DRAWINGPAD_FRAMES"
	EnvQRPayload = "DRAWINGPAD_QR"
	EnvStdioLog  = "DRAWINGPAD_STDIO_LOG"
	EnvDebug     = "DRAWINGPAD_DEBUG"
)

const (
	OutputFramebuffer = "fb"
	OutputPNG         = "png"
	OutputNone        = "none"
)

// Config holds the settings main reads from flags, with environment
// variables as defaults.
type Config struct {
	Output    string
	FBDevice  string
	PNGPath   string
	MaxFrames int
	QRPayload string
	StdioLog  string
	Debug     bool
}

func DefaultConfig() Config {
	return Config{
		Output:   OutputFramebuffer,
		FBDevice: "/dev/fb0",
		PNGPath:  "drawingpad.png",
	}
}

// ConfigFromEnv returns DefaultConfig overridden by any DRAWINGPAD_* variables set.
func ConfigFromEnv() (Config, error) {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	if v, ok := lookup(EnvOutput); ok && v != "" {
		cfg.Output = v
	}
	if v, ok := lookup(EnvFBDevice); ok && v != "" {
		cfg.FBDevice = v
	}
	if v, ok := lookup(EnvPNGPath); ok && v != "" {
		cfg.PNGPath = v
	}
	if v, ok := lookup(EnvQRPayload); ok {
		cfg.QRPayload = v
	}
	if v, ok := lookup(EnvStdioLog); ok {
		cfg.StdioLog = v
	}
	if raw, ok := lookup(EnvFrames); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be an integer (got %q): %w", EnvFrames, raw, err)
		}
		cfg.MaxFrames = n
	}
	if raw, ok := lookup(EnvDebug); ok && raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDebug, raw, err)
		}
		cfg.Debug = parsed
	}
	return cfg, nil
}

// Validate checks the combination of settings.
func (c Config) Validate() error {
	switch c.Output {
	case OutputFramebuffer, OutputPNG, OutputNone:
	default:
		return fmt.Errorf("unknown output %q (want %s, %s or %s)", c.Output, OutputFramebuffer, OutputPNG, OutputNone)
	}
	if c.MaxFrames < 0 {
		return fmt.Errorf("frames must not be negative (got %d)", c.MaxFrames)
	}
	if c.Output == OutputPNG && c.PNGPath == "" {
		return fmt.Errorf("png output needs a path")
	}
	return nil
}
