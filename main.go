package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/drawingpad/internal/app"
	"github.com/rook-computer/drawingpad/internal/pad"
	"github.com/rook-computer/drawingpad/internal/render"
)

func main() {
	defaults, err := app.ConfigFromEnv()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// Flags
	debug := flag.Bool("debug", defaults.Debug, "enable debug logging to ./drawingpad-debug.log; also configurable via "+app.EnvDebug)
	output := flag.String("output", defaults.Output, "where frames go: fb | png | none; also configurable via "+app.EnvOutput)
	fbDevice := flag.String("fb", defaults.FBDevice, "framebuffer device; also configurable via "+app.EnvFBDevice)
	pngPath := flag.String("png", defaults.PNGPath, "file the last frame is written to with -output png; also configurable via "+app.EnvPNGPath)
	frames := flag.Int("frames", defaults.MaxFrames, "stop after this many redraws (0 = run until interrupted); also configurable via "+app.EnvFrames)
	qrPayload := flag.String("qr", defaults.QRPayload, "show a QR code for this payload; also configurable via "+app.EnvQRPayload)
	title := flag.String("title", "drawingpad", "text drawn across the top of the pad")
	stdioLog := flag.String("stdio-log", defaults.StdioLog, "redirect stdout+stderr (including panics) to this file; also configurable via "+app.EnvStdioLog)
	flag.Parse()

	cfg := app.Config{
		Output:    *output,
		FBDevice:  *fbDevice,
		PNGPath:   *pngPath,
		MaxFrames: *frames,
		QRPayload: *qrPayload,
		StdioLog:  *stdioLog,
		Debug:     *debug,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	if cfg.StdioLog != "" {
		if err := redirectStdIO(cfg.StdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	// Local file logger when debug enabled
	var logger app.Logger = app.NoopLogger{}
	if cfg.Debug {
		f, err := os.OpenFile("./drawingpad-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var renderer render.Renderer
	switch cfg.Output {
	case app.OutputFramebuffer:
		fb := render.NewFBRenderer()
		fb.Device = cfg.FBDevice
		renderer = fb
	case app.OutputPNG:
		renderer = render.NewPNGRenderer(cfg.PNGPath)
	default:
		renderer = &render.NoopRenderer{}
	}

	a := app.New(pad.New(), renderer, app.NewBouncingBall(*title, cfg.QRPayload))
	a.Logger = logger
	a.Debug = cfg.Debug
	a.MaxFrames = cfg.MaxFrames
	a.Console = cfg.Output == app.OutputFramebuffer

	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("drawingpad error:", err)
		os.Exit(1)
	}
	if cfg.Output == app.OutputPNG {
		fmt.Printf("wrote %s after %d frames\n", cfg.PNGPath, a.Frames())
	}
}
