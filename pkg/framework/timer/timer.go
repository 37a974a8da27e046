// Package timer provides the periodic idle callback that drives the
// UI-side dispatch loop of a plugin instance.
package timer

import (
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	"github.com/justyntemme/plugbridge/pkg/framework/debug"
)

// DefaultIdleInterval is the tick period used when none is configured.
const DefaultIdleInterval = 20 * time.Millisecond

// Timer calls a function at a fixed interval from a single goroutine.
//
// Ticks never overlap: a slow callback delays the next tick instead of
// running concurrently with it. Once Stop returns no callback is running and
// none will start, so the owner may release whatever the callback touches.
type Timer struct {
	clock    clock.WithTicker
	interval time.Duration
	fn       func()
	logger   logr.Logger

	mu     sync.Mutex // guards the lifecycle fields below, never held during a tick
	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a stopped timer. A nil clock means the real clock.
func New(clk clock.WithTicker, interval time.Duration, fn func(), logger logr.Logger) *Timer {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if interval <= 0 {
		interval = DefaultIdleInterval
	}
	return &Timer{
		clock:    clk,
		interval: interval,
		fn:       fn,
		logger:   logger.WithName("timer"),
	}
}

// Start begins ticking. Starting a running timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopCh != nil {
		return
	}
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})

	t.logger.V(debug.VERBOSE).Info("Starting idle timer", "interval", t.interval)
	go t.run(t.stopCh, t.doneCh)
}

// Stop halts the timer and waits for an in-flight tick to finish.
// It is idempotent. It must not be called from inside the tick callback.
func (t *Timer) Stop() {
	t.mu.Lock()
	stopCh, doneCh := t.stopCh, t.doneCh
	t.stopCh, t.doneCh = nil, nil
	t.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
	t.logger.V(debug.VERBOSE).Info("Stopped idle timer")
}

// Running reports whether the timer has been started and not stopped.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopCh != nil
}

// Interval returns the tick period.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

func (t *Timer) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C():
			// A tick and a stop may be ready together; stop wins.
			select {
			case <-stopCh:
				return
			default:
			}
			t.fn()
		}
	}
}
