// Package level provides the allocation-free signal helpers used by the
// simulated processor: a sine source, gain in decibels and a decaying
// peak meter.
//
// Nothing in this package locks or allocates after construction, so every
// method may run on the audio thread.
package level

import "math"

const (
	// FloorDB is the lowest level reported by the meter; anything quieter
	// reads as silence.
	FloorDB = -60.0

	// MinDB is the dB value returned for zero or negative amplitudes.
	MinDB = -200.0
)

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// ApplyGain scales buffer in place by the gain given in decibels.
func ApplyGain(buffer []float32, db float64) {
	g := float32(DbToLinear(db))
	for i := range buffer {
		buffer[i] *= g
	}
}

// Peak returns the largest absolute sample in buffer.
func Peak(buffer []float32) float32 {
	var peak float32
	for _, s := range buffer {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// Sine is a phase accumulating sine source.
type Sine struct {
	sampleRate float64
	phase      float64
	phaseInc   float64
}

// NewSine creates a sine source at freq Hz.
func NewSine(sampleRate, freq float64) *Sine {
	s := &Sine{sampleRate: sampleRate}
	s.SetFrequency(freq)
	return s
}

// SetFrequency changes the frequency without resetting the phase.
func (s *Sine) SetFrequency(freq float64) {
	s.phaseInc = freq / s.sampleRate
}

// Process fills buffer with the next samples.
func (s *Sine) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(math.Sin(2.0 * math.Pi * s.phase))
		s.phase += s.phaseInc
		if s.phase >= 1.0 {
			s.phase -= math.Floor(s.phase)
		}
	}
}

// Meter tracks a peak level that falls at a fixed rate between louder blocks.
// It is not safe for concurrent use; it belongs to the audio thread.
type Meter struct {
	sampleRate float64
	decayRate  float64 // dB per second
	peak       float64
}

// NewMeter creates a meter falling at 20 dB per second.
func NewMeter(sampleRate float64) *Meter {
	return &Meter{sampleRate: sampleRate, decayRate: 20.0}
}

// SetDecayRate sets the fall rate in dB per second.
func (m *Meter) SetDecayRate(dbPerSecond float64) {
	m.decayRate = dbPerSecond
}

// Process folds a block into the meter and returns the level in dB,
// clamped to [FloorDB, 0].
func (m *Meter) Process(buffer []float32) float64 {
	decayPerSample := m.decayRate / m.sampleRate / 20.0 * math.Ln10
	m.peak *= math.Exp(-decayPerSample * float64(len(buffer)))

	if p := float64(Peak(buffer)); p > m.peak {
		m.peak = p
	}
	return m.DB()
}

// DB returns the current level in dB, clamped to [FloorDB, 0].
func (m *Meter) DB() float64 {
	return min(max(LinearToDb(m.peak), FloorDB), 0)
}

// Reset clears the held level.
func (m *Meter) Reset() {
	m.peak = 0
}
