// Package process provides the per-block context handed to a plugin's
// audio callback.
//
// Everything reachable from a Context is real-time safe: buffers are
// preallocated, parameters are read atomically and the only way out of the
// audio thread is the lock-free Outbox.
package process

import (
	"github.com/justyntemme/plugbridge/pkg/framework/param"
	"github.com/justyntemme/plugbridge/pkg/midi"
)

// Outbox is the real-time side of a plugin adapter. Every method must be
// non-blocking and allocation free.
type Outbox interface {
	SendParameterValueToUIFromAPI(idx int, value float64, normalized bool) bool
	SendMidiMsgFromProcessor(msg midi.Msg) bool
	DrainMidiFromUI(fn func(midi.Msg)) int
}

// Context provides a clean API for audio processing with zero allocations
type Context struct {
	Input      [][]float32
	Output     [][]float32
	SampleRate float64

	// Pre-allocated work buffer
	workBuffer []float32

	params *param.Registry
	out    Outbox

	// Counts rejected sends since the last Reset
	dropped int
}

// NewContext creates a new process context with pre-allocated buffers
func NewContext(maxBlockSize int, sampleRate float64, params *param.Registry, out Outbox) *Context {
	return &Context{
		SampleRate: sampleRate,
		workBuffer: make([]float32, maxBlockSize),
		params:     params,
		out:        out,
	}
}

// Param returns the normalized value of parameter idx.
func (c *Context) Param(idx int) float64 {
	return c.params.GetNormalized(idx)
}

// ParamValue returns the value of parameter idx in engine units.
func (c *Context) ParamValue(idx int) float64 {
	return c.params.Value(idx)
}

// NumSamples returns the number of samples to process
func (c *Context) NumSamples() int {
	if len(c.Input) > 0 && len(c.Input[0]) > 0 {
		return len(c.Input[0])
	}
	if len(c.Output) > 0 && len(c.Output[0]) > 0 {
		return len(c.Output[0])
	}
	return 0
}

// NumInputChannels returns the number of input channels
func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

// NumOutputChannels returns the number of output channels
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// WorkBuffer returns the scratch buffer sized to the current block.
func (c *Context) WorkBuffer() []float32 {
	return c.workBuffer[:min(c.NumSamples(), len(c.workBuffer))]
}

// PassThrough copies input to output (for bypass)
func (c *Context) PassThrough() {
	for ch := 0; ch < min(c.NumInputChannels(), c.NumOutputChannels()); ch++ {
		copy(c.Output[ch], c.Input[ch])
	}
}

// Clear zeros the output buffers
func (c *Context) Clear() {
	for ch := range c.Output {
		clear(c.Output[ch])
	}
}

// ProcessChannels calls fn for every channel present on both sides.
func (c *Context) ProcessChannels(fn func(ch int, input, output []float32)) {
	for ch := 0; ch < min(c.NumInputChannels(), c.NumOutputChannels()); ch++ {
		fn(ch, c.Input[ch], c.Output[ch])
	}
}

// SendParamToUI reports a processor-side parameter value, such as a meter,
// to the editor.
func (c *Context) SendParamToUI(idx int, value float64, normalized bool) bool {
	ok := c.out.SendParameterValueToUIFromAPI(idx, value, normalized)
	if !ok {
		c.dropped++
	}
	return ok
}

// SendMidi sends MIDI produced by the processor to the editor.
func (c *Context) SendMidi(msg midi.Msg) bool {
	ok := c.out.SendMidiMsgFromProcessor(msg)
	if !ok {
		c.dropped++
	}
	return ok
}

// DrainUIMidi hands every MIDI message the editor queued to fn.
func (c *Context) DrainUIMidi(fn func(midi.Msg)) int {
	return c.out.DrainMidiFromUI(fn)
}

// Dropped returns how many sends were rejected since the last Reset.
func (c *Context) Dropped() int {
	return c.dropped
}

// Reset clears the dropped count.
func (c *Context) Reset() {
	c.dropped = 0
}
