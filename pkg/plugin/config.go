// Package plugin is the plugin-instance adapter that sits between a host
// API wrapper, the real-time audio engine and the editor UI.
//
// Three paths mutate or report parameters:
//
//   - host or UI: SetParameterValue updates the registry, informs the host
//     and fires OnParamChange synchronously on the calling thread;
//   - audio thread: SendParameterValueToUIFromAPI and SendMidiMsgFromProcessor
//     only push into lock-free queues;
//   - idle timer: OnTimer drains those queues into the UI delegate.
//
// Everything except the audio-thread entry points assumes it runs off the
// audio thread.
package plugin

import (
	"errors"
	"fmt"
	"time"

	"github.com/justyntemme/plugbridge/pkg/framework/param"
	fwplugin "github.com/justyntemme/plugbridge/pkg/framework/plugin"
	"github.com/justyntemme/plugbridge/pkg/framework/timer"
)

const (
	// DefaultParamQueueSize is the processor to UI parameter queue capacity.
	DefaultParamQueueSize = 512
	// DefaultMidiQueueSize is the capacity of each MIDI queue.
	DefaultMidiQueueSize = 512
)

// Config describes a plugin instance.
type Config struct {
	Info fwplugin.Info

	UniqueID      string // four character plugin code
	MfrID         string // four character manufacturer code
	VendorVersion int    // packed 0xVVVVRRMM
	ProductName   string

	HasUI      bool
	Width      int
	Height     int
	DoesChunks bool

	ParamQueueSize int
	MidiQueueSize  int
	// IdleInterval is the idle timer period; zero means timer.DefaultIdleInterval.
	IdleInterval time.Duration

	// Params are registered in order; Params[i].Index must equal i.
	Params []*param.Parameter
}

func (c *Config) applyDefaults() {
	if c.ParamQueueSize == 0 {
		c.ParamQueueSize = DefaultParamQueueSize
	}
	if c.MidiQueueSize == 0 {
		c.MidiQueueSize = DefaultMidiQueueSize
	}
	if c.IdleInterval == 0 {
		c.IdleInterval = timer.DefaultIdleInterval
	}
	if c.ProductName == "" {
		c.ProductName = c.Info.Name
	}
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	var errs []error
	if c.Info.Name == "" {
		errs = append(errs, errors.New("plugin name is required"))
	}
	if err := c.Info.ValidateUID(); err != nil {
		errs = append(errs, err)
	}
	if c.UniqueID != "" && len(c.UniqueID) != 4 {
		errs = append(errs, fmt.Errorf("unique ID %q must be four characters", c.UniqueID))
	}
	if c.MfrID != "" && len(c.MfrID) != 4 {
		errs = append(errs, fmt.Errorf("manufacturer ID %q must be four characters", c.MfrID))
	}
	if c.ParamQueueSize < 0 {
		errs = append(errs, fmt.Errorf("parameter queue size %d is negative", c.ParamQueueSize))
	}
	if c.MidiQueueSize < 0 {
		errs = append(errs, fmt.Errorf("MIDI queue size %d is negative", c.MidiQueueSize))
	}
	if c.IdleInterval < 0 {
		errs = append(errs, fmt.Errorf("idle interval %v is negative", c.IdleInterval))
	}
	if c.HasUI && (c.Width <= 0 || c.Height <= 0) {
		errs = append(errs, fmt.Errorf("UI size %dx%d must be positive", c.Width, c.Height))
	}
	return errors.Join(errs...)
}
