package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/justyntemme/plugbridge/pkg/framework/debug"
	"github.com/justyntemme/plugbridge/pkg/framework/timer"
	"github.com/justyntemme/plugbridge/pkg/plugin"
)

// Options contains the command-line configuration of the demo host.
type Options struct {
	Duration     time.Duration // How long to run; zero runs until interrupted.
	IdleInterval time.Duration // Adapter idle timer period.
	QueueSize    int           // Capacity of every relay queue.
	BlockSize    int           // Samples per simulated audio block.
	SampleRate   float64       // Simulated sample rate.
	NoUI         bool          // Run without an editor attached.
	MetricsAddr  string        // Serve Prometheus metrics here when set.
	LogVerbosity int           // Number for the log level verbosity.
	Development  bool          // Console log encoding.
}

// NewOptions returns Options initialized with default values.
func NewOptions() *Options {
	return &Options{
		Duration:     5 * time.Second,
		IdleInterval: timer.DefaultIdleInterval,
		QueueSize:    plugin.DefaultParamQueueSize,
		BlockSize:    512,
		SampleRate:   48000,
		LogVerbosity: debug.DEFAULT,
		Development:  true,
	}
}

// AddFlags binds the Options fields to command-line flags on the given FlagSet.
func (opts *Options) AddFlags(fs *pflag.FlagSet) {
	if fs == nil {
		fs = pflag.CommandLine
	}

	fs.DurationVar(&opts.Duration, "duration", opts.Duration,
		"How long to run the simulation. Zero runs until interrupted.")
	fs.DurationVar(&opts.IdleInterval, "idle-interval", opts.IdleInterval,
		"Period of the adapter idle timer.")
	fs.IntVar(&opts.QueueSize, "queue-size", opts.QueueSize,
		"Capacity of the parameter and MIDI relay queues.")
	fs.IntVar(&opts.BlockSize, "block-size", opts.BlockSize,
		"Samples per simulated audio block.")
	fs.Float64Var(&opts.SampleRate, "sample-rate", opts.SampleRate,
		"Simulated sample rate in Hz.")
	fs.BoolVar(&opts.NoUI, "no-ui", opts.NoUI,
		"Run without an editor; queued updates accumulate and are dropped once full.")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", opts.MetricsAddr,
		"Address to serve Prometheus metrics on, e.g. :9090. Disabled when empty.")
	fs.IntVarP(&opts.LogVerbosity, "v", "v", opts.LogVerbosity,
		"Number for the log level verbosity.")
	fs.BoolVar(&opts.Development, "dev-log", opts.Development,
		"Use the human readable console log encoder.")
}

// Validate checks the Options for invalid or conflicting values.
func (opts *Options) Validate() error {
	var errs []error
	if opts.Duration < 0 {
		errs = append(errs, fmt.Errorf("invalid value %v for flag %q: must not be negative", opts.Duration, "duration"))
	}
	if opts.IdleInterval <= 0 {
		errs = append(errs, fmt.Errorf("invalid value %v for flag %q: must be positive", opts.IdleInterval, "idle-interval"))
	}
	if opts.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("invalid value %d for flag %q: must be at least 1", opts.QueueSize, "queue-size"))
	}
	if opts.BlockSize < 1 {
		errs = append(errs, fmt.Errorf("invalid value %d for flag %q: must be at least 1", opts.BlockSize, "block-size"))
	}
	if opts.SampleRate < 8000 || opts.SampleRate > 384000 {
		errs = append(errs, fmt.Errorf("invalid value %v for flag %q: must be between 8000 and 384000", opts.SampleRate, "sample-rate"))
	}
	return errors.Join(errs...)
}

// blockDuration is the wall time one simulated block represents.
func (opts *Options) blockDuration() time.Duration {
	return time.Duration(float64(opts.BlockSize) / opts.SampleRate * float64(time.Second))
}
