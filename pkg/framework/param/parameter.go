// Package param provides the indexed parameter registry shared by the host,
// the audio engine and the UI.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter represents a plugin parameter.
//
// The normalized value, the display value (engine units) and the display
// string are each stored atomically so that any thread may read them while a
// control thread writes.
type Parameter struct {
	Index        int
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // normalized
	StepCount    int32   // 0 for continuous, otherwise number of steps between Min and Max
	Flags        uint32

	normalized atomic.Uint64
	display    atomic.Uint64
	displayStr atomic.Pointer[string]

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate     uint32 = 1 << 0
	IsReadOnly      uint32 = 1 << 1
	IsWrapAround    uint32 = 1 << 2
	IsList          uint32 = 1 << 3
	IsHidden        uint32 = 1 << 4
	IsMeter         uint32 = 1 << 5
	IsProgramChange uint32 = 1 << 15
	IsBypass        uint32 = 1 << 16
)

// GetNormalized returns the current normalized value (0-1).
func (p *Parameter) GetNormalized() float64 {
	return math.Float64frombits(p.normalized.Load())
}

// SetNormalized stores a normalized value, clamped to [0,1], and recomputes
// the display value and display string. NaN is treated as 0.
func (p *Parameter) SetNormalized(value float64) {
	value = clampNormalized(value)
	plain := p.Denormalize(value)

	p.normalized.Store(math.Float64bits(value))
	p.display.Store(math.Float64bits(plain))
	str := p.format(plain)
	p.displayStr.Store(&str)
}

// Value returns the display value in engine units.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.display.Load())
}

// SetValue sets the parameter from a value in engine units.
func (p *Parameter) SetValue(plain float64) {
	p.SetNormalized(p.Normalize(plain))
}

// DisplayString returns the cached display string for the current value.
func (p *Parameter) DisplayString() string {
	if s := p.displayStr.Load(); s != nil {
		return *s
	}
	return p.format(p.Value())
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.SetNormalized(p.DefaultValue)
}

// SetFormatter sets custom value formatting
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
	p.SetNormalized(p.GetNormalized())
}

// FormatValue returns the display string for an arbitrary normalized value.
func (p *Parameter) FormatValue(normalized float64) string {
	return p.format(p.Denormalize(clampNormalized(normalized)))
}

// ParseValue parses a display string to a normalized value.
func (p *Parameter) ParseValue(str string) (float64, error) {
	parse := p.parseFunc
	if parse == nil {
		parse = func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
	}

	plain, err := parse(str)
	if err != nil {
		return 0, fmt.Errorf("parameter %d (%s): %w", p.Index, p.Name, err)
	}
	return p.Normalize(plain), nil
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	return clampNormalized((plain - p.Min) / (p.Max - p.Min))
}

// Denormalize converts normalized (0-1) to plain value, snapping stepped
// parameters to their nearest step.
func (p *Parameter) Denormalize(normalized float64) float64 {
	if p.StepCount > 0 {
		steps := float64(p.StepCount)
		normalized = math.Round(normalized*steps) / steps
	}
	return p.Min + normalized*(p.Max-p.Min)
}

// IsReadOnly reports whether the host may not change the parameter.
func (p *Parameter) IsReadOnly() bool {
	return p.Flags&IsReadOnly != 0
}

func (p *Parameter) format(plain float64) string {
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}

	var s string
	if p.StepCount > 0 {
		s = strconv.FormatFloat(plain, 'f', 0, 64)
	} else {
		s = strconv.FormatFloat(plain, 'f', 2, 64)
	}
	if p.Unit != "" {
		s += " " + p.Unit
	}
	return s
}

func clampNormalized(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
