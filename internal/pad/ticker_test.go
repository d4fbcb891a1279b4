package pad

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerCallsImmediately(t *testing.T) {
	var calls atomic.Int32
	tk := StartTicker(time.Hour, func() { calls.Add(1) })
	defer tk.Stop()
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
}

func TestTickerStop(t *testing.T) {
	var calls atomic.Int32
	tk := StartTicker(time.Millisecond, func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, time.Millisecond)

	tk.Stop()
	tk.Stop()
	<-tk.Done()
	n := calls.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, calls.Load())
}

func TestTickerCallsDoNotOverlap(t *testing.T) {
	var inFlight, overlaps, calls atomic.Int32
	tk := StartTicker(time.Millisecond, func() {
		if inFlight.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(3 * time.Millisecond)
		inFlight.Add(-1)
		calls.Add(1)
	})
	require.Eventually(t, func() bool { return calls.Load() >= 5 }, 2*time.Second, time.Millisecond)
	tk.Stop()
	<-tk.Done()
	assert.Zero(t, overlaps.Load())
}

func TestTickerDefaultInterval(t *testing.T) {
	assert.Equal(t, time.Second/60, DefaultInterval)
	tk := StartTicker(0, func() {})
	tk.Stop()
	<-tk.Done()
}
