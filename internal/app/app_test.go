package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/drawingpad/internal/pad"
	"github.com/rook-computer/drawingpad/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPad() *pad.Pad {
	p := pad.New()
	p.Interval = time.Millisecond
	return p
}

func TestAppRunsMaxFramesAndWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	p := fastPad()
	sketch := NewBouncingBall("hello", "https://example.com")
	a := New(p, render.NewPNGRenderer(path), sketch)
	a.MaxFrames = 5

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, a.Start(ctx))

	assert.Equal(t, 5, a.Frames())
	assert.Equal(t, 5, sketch.Frames())
	assert.False(t, p.Running())
	assert.Equal(t, 6, p.Len(), "border, title, shadow, ball, line and QR code")
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

// sizeRecorder samples the frame sizes a renderer would paint.
type sizeRecorder struct {
	mu    sync.Mutex
	sizes map[int]int
}

func (r *sizeRecorder) Start(ctx context.Context) error { return nil }
func (r *sizeRecorder) Stop() error                     { return nil }

func (r *sizeRecorder) Redraw(src render.Source) {
	_, prims := src.Snapshot()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sizes == nil {
		r.sizes = make(map[int]int)
	}
	r.sizes[len(prims)]++
}

func (r *sizeRecorder) RunLoop(ctx context.Context, src render.Source) {
	for ctx.Err() == nil {
		r.Redraw(src)
		runtime.Gosched()
	}
}

func TestAppRendererOnlySeesCompleteFrames(t *testing.T) {
	rec := &sizeRecorder{}
	a := New(fastPad(), rec, NewBouncingBall("hello", "https://example.com"))
	a.MaxFrames = 50

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, a.Start(ctx))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for n := range rec.sizes {
		assert.Contains(t, []int{0, 6}, n, "renderer painted a frame with %d primitives", n)
	}
	assert.Positive(t, rec.sizes[6])
}

func TestAppStopsOnContextCancel(t *testing.T) {
	a := New(fastPad(), &render.NoopRenderer{}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- a.Start(ctx) }()
	require.Eventually(t, func() bool { return a.Frames() > 2 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.False(t, a.Pad.Running())
}

func TestAppExitReturnsError(t *testing.T) {
	a := New(fastPad(), nil, nil)
	boom := errors.New("boom")

	errCh := make(chan error, 1)
	go func() { errCh <- a.Start(context.Background()) }()
	require.Eventually(t, func() bool { return a.Frames() > 0 }, 2*time.Second, time.Millisecond)
	a.Exit(boom)
	a.Exit(errors.New("ignored"))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
}

type failingSketch struct{}

func (failingSketch) Setup(*pad.Pad) error { return errors.New("no setup") }
func (failingSketch) Draw(*pad.Pad)        {}

func TestAppSketchSetupError(t *testing.T) {
	a := New(fastPad(), nil, failingSketch{})
	err := a.Start(context.Background())
	assert.EqualError(t, err, "no setup")
	assert.False(t, a.Pad.Running())
}

func TestAppWithoutPad(t *testing.T) {
	a := New(nil, nil, nil)
	assert.Error(t, a.Start(context.Background()))
}

func TestBouncingBallStaysInBounds(t *testing.T) {
	b := NewBouncingBall("", "")
	bounds := image.Rect(0, 0, 100, 80)
	for i := 0; i < 500; i++ {
		b.step(bounds)
		require.GreaterOrEqual(t, b.x, 0)
		require.GreaterOrEqual(t, b.y, 0)
		require.LessOrEqual(t, b.x+ballSize, 100)
		require.LessOrEqual(t, b.y+ballSize, 80)
	}
}

func TestBouncingBallWithoutQR(t *testing.T) {
	p := pad.New()
	b := NewBouncingBall("title", "")
	require.NoError(t, b.Setup(p))
	b.Draw(p)
	b.Draw(p)
	assert.Equal(t, 5, p.Len(), "each frame starts from an empty pad")
	assert.Equal(t, demoBackground, p.BackgroundColor())
}

func TestFileLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("pad", "started %d", 1)
	l.Errorf("fb", "failed: %v", errors.New("x"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[INFO] pad: started 1")
	assert.Contains(t, lines[1], "[ERROR] fb: failed: x")
}

func TestWriteLogFormat(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC)
	writeLog(&buf, now, "INFO", "app", "frames=%d", 3)
	assert.Equal(t, "2024-03-25T12:00:00Z [INFO] app: frames=3\n", buf.String())
}
