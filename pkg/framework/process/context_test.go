package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/plugbridge/pkg/framework/param"
	"github.com/justyntemme/plugbridge/pkg/midi"
)

type fakeOutbox struct {
	room    int
	params  []float64
	sent    []midi.Msg
	pending []midi.Msg
}

func (f *fakeOutbox) SendParameterValueToUIFromAPI(_ int, value float64, _ bool) bool {
	if len(f.params)+len(f.sent) >= f.room {
		return false
	}
	f.params = append(f.params, value)
	return true
}

func (f *fakeOutbox) SendMidiMsgFromProcessor(msg midi.Msg) bool {
	if len(f.params)+len(f.sent) >= f.room {
		return false
	}
	f.sent = append(f.sent, msg)
	return true
}

func (f *fakeOutbox) DrainMidiFromUI(fn func(midi.Msg)) int {
	for _, m := range f.pending {
		fn(m)
	}
	n := len(f.pending)
	f.pending = nil
	return n
}

func newContext(t *testing.T, out Outbox) *Context {
	t.Helper()

	registry := param.NewRegistry()
	require.NoError(t, registry.Add(param.GainParameter(0, "Gain").Build()))
	return NewContext(4, 48000, registry, out)
}

func TestContextBuffers(t *testing.T) {
	ctx := newContext(t, &fakeOutbox{})
	ctx.Input = [][]float32{{1, 2, 3}, {4, 5, 6}}
	ctx.Output = [][]float32{make([]float32, 3)}

	assert.Equal(t, 3, ctx.NumSamples())
	assert.Len(t, ctx.WorkBuffer(), 3)

	ctx.PassThrough()
	assert.Equal(t, []float32{1, 2, 3}, ctx.Output[0])

	var channels []int
	ctx.ProcessChannels(func(ch int, in, out []float32) {
		channels = append(channels, ch)
		for i := range in {
			out[i] = in[i] * 2
		}
	})
	assert.Equal(t, []int{0}, channels, "only channels present on both sides")
	assert.Equal(t, []float32{2, 4, 6}, ctx.Output[0])

	ctx.Clear()
	assert.Equal(t, []float32{0, 0, 0}, ctx.Output[0])
}

func TestContextWorkBufferNeverExceedsCapacity(t *testing.T) {
	ctx := newContext(t, &fakeOutbox{})
	ctx.Output = [][]float32{make([]float32, 16)}
	assert.Len(t, ctx.WorkBuffer(), 4)
}

func TestContextParams(t *testing.T) {
	ctx := newContext(t, &fakeOutbox{})
	ctx.params.SetNormalized(0, 1)

	assert.Equal(t, 1.0, ctx.Param(0))
	assert.Equal(t, 12.0, ctx.ParamValue(0))
}

func TestContextOutbox(t *testing.T) {
	out := &fakeOutbox{room: 2, pending: []midi.Msg{midi.NoteOn(0, 0, 60, 1)}}
	ctx := newContext(t, out)

	assert.True(t, ctx.SendParamToUI(0, -12, false))
	assert.True(t, ctx.SendMidi(midi.NoteOff(0, 0, 60, 0)))
	assert.False(t, ctx.SendParamToUI(0, -6, false))
	assert.Equal(t, 1, ctx.Dropped())

	var got []midi.Msg
	assert.Equal(t, 1, ctx.DrainUIMidi(func(m midi.Msg) { got = append(got, m) }))
	assert.Equal(t, []midi.Msg{midi.NoteOn(0, 0, 60, 1)}, got)

	ctx.Reset()
	assert.Zero(t, ctx.Dropped())
}
