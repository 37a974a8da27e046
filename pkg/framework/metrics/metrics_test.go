package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector(s *AdapterStats) *Collector {
	return NewCollector(prometheus.Labels{"plugin": "Test"}, func() AdapterStats { return *s })
}

func TestCollectorRegisters(t *testing.T) {
	stats := &AdapterStats{}
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(newTestCollector(stats)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestCollectorDroppedCounts(t *testing.T) {
	stats := &AdapterStats{
		ParamFromProcessor: QueueStats{Capacity: 512, Pending: 2, Dropped: 3, Drained: 10},
		MidiFromProcessor:  QueueStats{Capacity: 512, Dropped: 1},
		MidiFromUI:         QueueStats{Capacity: 512},
	}
	c := newTestCollector(stats)

	expected := `
# HELP plugbridge_queue_dropped_total Items rejected because a relay queue was full.
# TYPE plugbridge_queue_dropped_total counter
plugbridge_queue_dropped_total{plugin="Test",queue="midi_from_processor"} 1
plugbridge_queue_dropped_total{plugin="Test",queue="midi_from_ui"} 0
plugbridge_queue_dropped_total{plugin="Test",queue="param_from_processor"} 3
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected), "plugbridge_queue_dropped_total")
	assert.NoError(t, err)

	stats.ParamFromProcessor.Dropped = 4
	expected = strings.Replace(expected, `queue="param_from_processor"} 3`, `queue="param_from_processor"} 4`, 1)
	err = testutil.CollectAndCompare(c, strings.NewReader(expected), "plugbridge_queue_dropped_total")
	assert.NoError(t, err, "collector must read live stats on every scrape")
}

func TestCollectorTickHistogram(t *testing.T) {
	c := newTestCollector(&AdapterStats{Ticks: 2})

	c.ObserveTick(50 * time.Microsecond)
	c.ObserveTick(2 * time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(c, "plugbridge_timer_tick_duration_seconds"))
	assert.Equal(t, 1, testutil.CollectAndCount(c, "plugbridge_timer_ticks_total"))
	assert.Equal(t, 3, testutil.CollectAndCount(c, "plugbridge_queue_pending"))
}
