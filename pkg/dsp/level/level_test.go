package level

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDbConversion(t *testing.T) {
	tests := []struct {
		name   string
		linear float64
		db     float64
	}{
		{"Unity gain", 1.0, 0.0},
		{"Half amplitude", 0.5, -6.02},
		{"Double amplitude", 2.0, 6.02},
		{"Zero amplitude", 0.0, MinDB},
		{"Negative amplitude", -1.0, MinDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.db, LinearToDb(tt.linear), 0.01)
		})
	}

	assert.Equal(t, 0.0, DbToLinear(MinDB))
	assert.InDelta(t, 0.5, DbToLinear(-6.0206), 1e-4)
}

func TestApplyGainAndPeak(t *testing.T) {
	buf := []float32{0.5, -1.0, 0.25}
	ApplyGain(buf, -6.0206)

	assert.InDeltaSlice(t, []float32{0.25, -0.5, 0.125}, buf, 1e-4)
	assert.InDelta(t, 0.5, Peak(buf), 1e-4)
	assert.Equal(t, float32(0), Peak(nil))
}

func TestSineRange(t *testing.T) {
	s := NewSine(48000, 1000)
	buf := make([]float32, 480)
	s.Process(buf)

	assert.Equal(t, float32(0), buf[0])
	assert.InDelta(t, 1.0, Peak(buf), 1e-3, "ten full cycles reach the crest")
	for _, v := range buf {
		assert.LessOrEqual(t, math.Abs(float64(v)), 1.0)
	}
}

func TestMeterDecay(t *testing.T) {
	const sampleRate = 1000.0
	m := NewMeter(sampleRate)
	assert.Equal(t, FloorDB, m.DB(), "silence reads as the floor")

	loud := []float32{0.5, -0.5}
	assert.InDelta(t, -6.02, m.Process(loud), 0.01)

	// One second of silence at 20 dB/s.
	silence := make([]float32, int(sampleRate))
	assert.InDelta(t, -26.02, m.Process(silence), 0.05)

	m.SetDecayRate(1000)
	assert.Equal(t, FloorDB, m.Process(silence))

	m.Process([]float32{2})
	assert.Equal(t, 0.0, m.DB(), "levels above full scale are clamped")
	m.Reset()
	assert.Equal(t, FloorDB, m.DB())
}
