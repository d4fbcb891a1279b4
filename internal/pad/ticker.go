package pad

import (
	"sync"
	"time"
)

// DefaultInterval is the nominal redraw period (60 Hz).
const DefaultInterval = time.Second / 60

// Ticker calls fn once immediately and then once per interval on a single
// goroutine until Stop is called. Calls to fn never overlap.
type Ticker struct {
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func StartTicker(interval time.Duration, fn func()) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Ticker{stopCh: make(chan struct{}), doneCh: make(chan struct{})}
	go t.run(interval, fn)
	return t
}

func (t *Ticker) run(interval time.Duration, fn func()) {
	defer close(t.doneCh)

	fn()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			// Stop may race with a pending tick; prefer stopping.
			select {
			case <-t.stopCh:
				return
			default:
			}
			fn()
		}
	}
}

// Stop ends the loop. It does not wait for an in-flight call, so it is safe
// to call from inside fn; use Done to wait for the loop to exit.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}

// Done is closed once the loop has exited.
func (t *Ticker) Done() <-chan struct{} { return t.doneCh }
