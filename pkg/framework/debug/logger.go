// Package debug provides logging setup for plugin instances and tools.
//
// Code takes a logr.Logger and logs at the verbosity levels below; the
// concrete backend is zap.
package debug

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V(...).
const (
	DEFAULT = 2
	VERBOSE = 3
	DEBUG   = 4
	TRACE   = 5
)

// Options configures NewLogger.
type Options struct {
	// Verbosity is the highest V level that is emitted.
	Verbosity int
	// Development switches to a human readable console encoder.
	Development bool
	// Output defaults to os.Stderr.
	Output io.Writer
	// Name is attached to every entry, typically the plugin name.
	Name string
}

// NewLogger builds a zap-backed logr.Logger.
func NewLogger(opts Options) logr.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var encoder zapcore.Encoder
	if opts.Development {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	// logr V(n) maps to zap level -n.
	level := zap.NewAtomicLevelAt(zapcore.Level(-opts.Verbosity))
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	zl := zap.New(core, zap.AddCaller())

	logger := zapr.NewLogger(zl)
	if opts.Name != "" {
		logger = logger.WithName(opts.Name)
	}
	return logger
}

// NewTestLogger creates a development logger emitting every level.
func NewTestLogger() logr.Logger {
	return NewLogger(Options{Verbosity: TRACE, Development: true})
}
