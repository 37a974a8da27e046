package plugin

import (
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/utils/clock"
)

// Option customizes New.
type Option func(*options)

type options struct {
	host        HostNotifier
	ui          UIDelegate
	hooks       Hooks
	transmitter MidiTransmitter
	logger      logr.Logger
	clock       clock.WithTicker
	registerer  prometheus.Registerer
	noTimer     bool
}

// WithHostNotifier sets the host API wrapper.
func WithHostNotifier(h HostNotifier) Option {
	return func(o *options) { o.host = h }
}

// WithUI attaches an editor at construction time.
func WithUI(ui UIDelegate) Option {
	return func(o *options) { o.ui = ui }
}

// WithHooks sets the plugin callbacks.
func WithHooks(h Hooks) Option {
	return func(o *options) { o.hooks = h }
}

// WithMidiTransmitter sets where a split processor forwards its MIDI.
func WithMidiTransmitter(t MidiTransmitter) Option {
	return func(o *options) { o.transmitter = t }
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the clock driving the idle timer.
func WithClock(c clock.WithTicker) Option {
	return func(o *options) { o.clock = c }
}

// WithMetrics registers the instance's collector on r. It is unregistered by Close.
func WithMetrics(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// WithoutTimer skips starting the idle timer; the owner calls OnTimer itself.
func WithoutTimer() Option {
	return func(o *options) { o.noTimer = true }
}
