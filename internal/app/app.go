package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/drawingpad/internal/pad"
	"github.com/rook-computer/drawingpad/internal/render"
	"github.com/rook-computer/drawingpad/internal/system"
)

type App struct {
	Pad    *pad.Pad
	Render render.Renderer
	Sketch Sketch
	Logger Logger
	Debug  bool

	// MaxFrames stops the app after that many redraw callbacks; zero runs
	// until the context is cancelled or Exit is called.
	MaxFrames int

	// Console switches the VT to graphics mode and watches exit keys. Only
	// meaningful with a framebuffer renderer.
	Console bool

	frames   atomic.Int64
	exitOnce atomic.Bool
	exitCh   chan error
}

func New(p *pad.Pad, renderer render.Renderer, sketch Sketch) *App {
	return &App{Pad: p, Render: renderer, Sketch: sketch, Logger: NoopLogger{}, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running. Only the first call has an effect.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Frames returns how many redraw callbacks have run.
func (app *App) Frames() int { return int(app.frames.Load()) }

// Start runs the pad until ctx is done, Exit is called or MaxFrames is
// reached. It closes the pad and stops the renderer before returning.
func (app *App) Start(ctx context.Context) error {
	if app.Pad == nil {
		return errors.New("no pad configured")
	}
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	app.exitOnce.Store(false)
	app.Pad.Logger = app.Logger

	if app.Render == nil {
		app.Render = &render.NoopRenderer{}
	}
	switch r := app.Render.(type) {
	case *render.FBRenderer:
		r.Logger = app.Logger
		r.Debug = app.Debug
	case *render.PNGRenderer:
		r.Logger = app.Logger
	}
	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return err
	}
	defer func() {
		if err := app.Render.Stop(); err != nil {
			app.Logger.Errorf("app", "renderer stop error: %v", err)
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.Console {
		restore := system.EnterGraphics(app.Logger)
		defer restore()
		system.WatchExitKeys(runCtx, app.Logger, system.DefaultExitKeys, func() { app.Exit(nil) })
	}

	if app.Sketch != nil {
		if err := app.Sketch.Setup(app.Pad); err != nil {
			app.Logger.Errorf("app", "sketch setup error: %v", err)
			return err
		}
	}

	app.Pad.SetRedraw(app.redraw)

	// Paint once right away instead of waiting for the first render tick.
	app.Render.Redraw(app.Pad)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Render.RunLoop(runCtx, app.Pad)
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()
	app.stopPad()

	// Final frame reflects everything drawn before the stop.
	app.Render.Redraw(app.Pad)
	app.Logger.Infof("app", "stopped after %d frames", app.Frames())
	return err
}

func (app *App) stopPad() {
	_ = app.Pad.Close()
	if done := app.Pad.Done(); done != nil {
		<-done
	}
}

func (app *App) redraw() {
	if app.Sketch != nil {
		app.Sketch.Draw(app.Pad)
	}
	n := app.frames.Add(1)
	if app.MaxFrames > 0 && n >= int64(app.MaxFrames) {
		_ = app.Pad.Close()
		app.Exit(nil)
	}
}
