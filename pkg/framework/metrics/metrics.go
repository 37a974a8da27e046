// Package metrics exports the diagnostics counters of a plugin adapter to
// Prometheus.
//
// The audio thread only ever increments atomics inside the queues; this
// package reads them at scrape time through a snapshot function, so nothing
// here runs on the real-time path.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "plugbridge"

// Queue label values.
const (
	QueueParamFromProcessor = "param_from_processor"
	QueueMidiFromProcessor  = "midi_from_processor"
	QueueMidiFromUI         = "midi_from_ui"
)

// QueueStats is the state of one relay queue.
type QueueStats struct {
	Capacity int
	Pending  int
	Dropped  uint64
	Drained  uint64
}

// AdapterStats is a point-in-time view of an adapter's counters.
type AdapterStats struct {
	ParamFromProcessor QueueStats
	MidiFromProcessor  QueueStats
	MidiFromUI         QueueStats
	Ticks              uint64
	HostNotifications  uint64
}

// Collector is a prometheus.Collector for one adapter instance.
type Collector struct {
	stats func() AdapterStats

	dropped      *prometheus.Desc
	pending      *prometheus.Desc
	drained      *prometheus.Desc
	capacity     *prometheus.Desc
	ticks        *prometheus.Desc
	hostNotifies *prometheus.Desc

	tickDuration prometheus.Histogram
}

// NewCollector creates a collector reading from stats. constLabels usually
// carries the plugin name and instance ID.
func NewCollector(constLabels prometheus.Labels, stats func() AdapterStats) *Collector {
	queueLabel := []string{"queue"}
	return &Collector{
		stats: stats,
		dropped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "dropped_total"),
			"Items rejected because a relay queue was full.",
			queueLabel, constLabels),
		pending: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "pending"),
			"Items waiting in a relay queue.",
			queueLabel, constLabels),
		drained: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "drained_total"),
			"Items delivered from a relay queue to its consumer.",
			queueLabel, constLabels),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "capacity"),
			"Maximum number of items a relay queue holds.",
			queueLabel, constLabels),
		ticks: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "timer", "ticks_total"),
			"Idle timer ticks handled.",
			nil, constLabels),
		hostNotifies: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "host", "param_notifications_total"),
			"Parameter change notifications sent to the host.",
			nil, constLabels),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "timer",
			Name:        "tick_duration_seconds",
			Help:        "Time spent draining queues and running idle hooks per tick.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
}

// ObserveTick records how long one tick took.
func (c *Collector) ObserveTick(d time.Duration) {
	c.tickDuration.Observe(d.Seconds())
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.dropped
	ch <- c.pending
	ch <- c.drained
	ch <- c.capacity
	ch <- c.ticks
	ch <- c.hostNotifies
	c.tickDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()

	queues := []struct {
		name  string
		stats QueueStats
	}{
		{QueueParamFromProcessor, s.ParamFromProcessor},
		{QueueMidiFromProcessor, s.MidiFromProcessor},
		{QueueMidiFromUI, s.MidiFromUI},
	}
	for _, q := range queues {
		ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(q.stats.Dropped), q.name)
		ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(q.stats.Pending), q.name)
		ch <- prometheus.MustNewConstMetric(c.drained, prometheus.CounterValue, float64(q.stats.Drained), q.name)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(q.stats.Capacity), q.name)
	}

	ch <- prometheus.MustNewConstMetric(c.ticks, prometheus.CounterValue, float64(s.Ticks))
	ch <- prometheus.MustNewConstMetric(c.hostNotifies, prometheus.CounterValue, float64(s.HostNotifications))
	c.tickDuration.Collect(ch)
}
