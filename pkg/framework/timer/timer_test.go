package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/clock"
	testclock "k8s.io/utils/clock/testing"
)

const testInterval = 20 * time.Millisecond

func startFake(t *testing.T, fn func()) (*Timer, *testclock.FakeClock) {
	t.Helper()

	fc := testclock.NewFakeClock(time.Now())
	tm := New(fc, testInterval, fn, logr.Discard())
	tm.Start()
	t.Cleanup(tm.Stop)

	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond, "ticker was never created")
	return tm, fc
}

func TestTimerTicksOnClock(t *testing.T) {
	var ticks atomic.Int32
	_, fc := startFake(t, func() { ticks.Add(1) })

	fc.Step(testInterval)
	require.Eventually(t, func() bool { return ticks.Load() == 1 }, time.Second, time.Millisecond)

	fc.Step(testInterval)
	require.Eventually(t, func() bool { return ticks.Load() == 2 }, time.Second, time.Millisecond)
}

func TestTimerStopPreventsFurtherTicks(t *testing.T) {
	var ticks atomic.Int32
	tm, fc := startFake(t, func() { ticks.Add(1) })

	fc.Step(testInterval)
	require.Eventually(t, func() bool { return ticks.Load() == 1 }, time.Second, time.Millisecond)

	tm.Stop()
	assert.False(t, tm.Running())

	fc.Step(testInterval)
	fc.Step(testInterval)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), ticks.Load())

	// Stop is idempotent.
	tm.Stop()
}

func TestTimerStopWaitsForInFlightTick(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	tm, fc := startFake(t, func() {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		finished.Store(true)
	})

	fc.Step(testInterval)
	<-entered

	stopped := make(chan struct{})
	go func() {
		tm.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a tick was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the tick finished")
	}
	assert.True(t, finished.Load())
}

func TestTimerTicksDoNotOverlap(t *testing.T) {
	var active, maxActive, ticks atomic.Int32

	tm := New(clock.RealClock{}, time.Millisecond, func() {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(3 * time.Millisecond)
		active.Add(-1)
		ticks.Add(1)
	}, logr.Discard())

	tm.Start()
	require.Eventually(t, func() bool { return ticks.Load() >= 5 }, 2*time.Second, time.Millisecond)
	tm.Stop()

	assert.Equal(t, int32(1), maxActive.Load())
}

func TestTimerRestart(t *testing.T) {
	var ticks atomic.Int32
	tm := New(clock.RealClock{}, time.Millisecond, func() { ticks.Add(1) }, logr.Discard())

	tm.Start()
	tm.Start()
	assert.True(t, tm.Running())
	require.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, time.Millisecond)
	tm.Stop()

	before := ticks.Load()
	tm.Start()
	require.Eventually(t, func() bool { return ticks.Load() > before }, time.Second, time.Millisecond)
	tm.Stop()
}

func TestTimerDefaults(t *testing.T) {
	tm := New(nil, 0, func() {}, logr.Discard())
	assert.Equal(t, DefaultIdleInterval, tm.Interval())
	assert.False(t, tm.Running())
}
