// Package midi defines the fixed-size MIDI message record that crosses the
// audio/UI thread boundary by value.
package midi

import (
	"errors"
	"fmt"
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// ErrNotChannelMessage is returned when converting a message that is not a
// 2 or 3 byte channel voice message.
var ErrNotChannelMessage = errors.New("not a channel voice message")

// Kind identifies the channel voice message type.
type Kind uint8

const (
	KindNone Kind = iota
	KindNoteOff
	KindNoteOn
	KindPolyPressure
	KindControlChange
	KindProgramChange
	KindChannelPressure
	KindPitchBend
)

func (k Kind) String() string {
	switch k {
	case KindNoteOff:
		return "NoteOff"
	case KindNoteOn:
		return "NoteOn"
	case KindPolyPressure:
		return "PolyPressure"
	case KindControlChange:
		return "ControlChange"
	case KindProgramChange:
		return "ProgramChange"
	case KindChannelPressure:
		return "ChannelPressure"
	case KindPitchBend:
		return "PitchBend"
	default:
		return "None"
	}
}

// Controller numbers
const (
	CCModWheel       uint8 = 1
	CCBreath         uint8 = 2
	CCFoot           uint8 = 4
	CCPortamentoTime uint8 = 5
	CCVolume         uint8 = 7
	CCBalance        uint8 = 8
	CCPan            uint8 = 10
	CCExpression     uint8 = 11
	CCSustain        uint8 = 64
	CCPortamento     uint8 = 65
	CCSostenuto      uint8 = 66
	CCSoft           uint8 = 67
	CCLegato         uint8 = 68
	CCAllSoundOff    uint8 = 120
	CCResetAll       uint8 = 121
	CCAllNotesOff    uint8 = 123
)

// Msg is a channel voice message with a sample offset into the current
// processing block. It is a plain value and safe to copy between threads.
type Msg struct {
	Offset int32
	Status uint8
	Data1  uint8
	Data2  uint8
}

func channelStatus(high uint8, channel uint8) uint8 {
	return high | channel&0x0F
}

// NoteOn builds a note-on message.
func NoteOn(offset int32, channel, note, velocity uint8) Msg {
	return Msg{Offset: offset, Status: channelStatus(0x90, channel), Data1: note & 0x7F, Data2: velocity & 0x7F}
}

// NoteOff builds a note-off message.
func NoteOff(offset int32, channel, note, velocity uint8) Msg {
	return Msg{Offset: offset, Status: channelStatus(0x80, channel), Data1: note & 0x7F, Data2: velocity & 0x7F}
}

// PolyPressure builds a polyphonic key pressure message.
func PolyPressure(offset int32, channel, note, pressure uint8) Msg {
	return Msg{Offset: offset, Status: channelStatus(0xA0, channel), Data1: note & 0x7F, Data2: pressure & 0x7F}
}

// ControlChange builds a controller message.
func ControlChange(offset int32, channel, controller, value uint8) Msg {
	return Msg{Offset: offset, Status: channelStatus(0xB0, channel), Data1: controller & 0x7F, Data2: value & 0x7F}
}

// ProgramChange builds a program change message.
func ProgramChange(offset int32, channel, program uint8) Msg {
	return Msg{Offset: offset, Status: channelStatus(0xC0, channel), Data1: program & 0x7F}
}

// ChannelPressure builds a channel aftertouch message.
func ChannelPressure(offset int32, channel, pressure uint8) Msg {
	return Msg{Offset: offset, Status: channelStatus(0xD0, channel), Data1: pressure & 0x7F}
}

// PitchBend builds a pitch wheel message; value is in [-8192, 8191].
func PitchBend(offset int32, channel uint8, value int16) Msg {
	v := int(value) + 8192
	if v < 0 {
		v = 0
	} else if v > 16383 {
		v = 16383
	}
	return Msg{Offset: offset, Status: channelStatus(0xE0, channel), Data1: uint8(v & 0x7F), Data2: uint8(v >> 7)}
}

// Kind returns the message type.
func (m Msg) Kind() Kind {
	switch m.Status >> 4 {
	case 0x8:
		return KindNoteOff
	case 0x9:
		return KindNoteOn
	case 0xA:
		return KindPolyPressure
	case 0xB:
		return KindControlChange
	case 0xC:
		return KindProgramChange
	case 0xD:
		return KindChannelPressure
	case 0xE:
		return KindPitchBend
	default:
		return KindNone
	}
}

// Channel returns the zero-based MIDI channel.
func (m Msg) Channel() uint8 {
	return m.Status & 0x0F
}

// Size returns the wire length of the message, 0 if the status is invalid.
func (m Msg) Size() int {
	switch m.Kind() {
	case KindNone:
		return 0
	case KindProgramChange, KindChannelPressure:
		return 2
	default:
		return 3
	}
}

// NoteNumber returns the key of a note or poly pressure message.
func (m Msg) NoteNumber() uint8 {
	return m.Data1
}

// Velocity returns the velocity of a note message.
func (m Msg) Velocity() uint8 {
	return m.Data2
}

// ControlValue returns a controller value normalized to [0,1].
func (m Msg) ControlValue() float64 {
	return float64(m.Data2) / 127
}

// PitchWheel returns the pitch bend position in [-1,1).
func (m Msg) PitchWheel() float64 {
	v := int(m.Data2)<<7 | int(m.Data1)
	return float64(v-8192) / 8192
}

// Message converts to a gomidi message. It allocates, so it is not for the
// audio thread.
func (m Msg) Message() gomidi.Message {
	switch m.Size() {
	case 2:
		return gomidi.Message{m.Status, m.Data1}
	case 3:
		return gomidi.Message{m.Status, m.Data1, m.Data2}
	default:
		return nil
	}
}

func (m Msg) String() string {
	if m.Size() == 0 {
		return fmt.Sprintf("Invalid{status:0x%02X, offset:%d}", m.Status, m.Offset)
	}
	return fmt.Sprintf("%s offset=%d", m.Message().String(), m.Offset)
}

// FromMessage converts a gomidi channel voice message.
func FromMessage(offset int32, msg gomidi.Message) (Msg, error) {
	if len(msg) < 2 || len(msg) > 3 {
		return Msg{}, fmt.Errorf("%d byte message: %w", len(msg), ErrNotChannelMessage)
	}

	m := Msg{Offset: offset, Status: msg[0], Data1: msg[1]}
	if len(msg) == 3 {
		m.Data2 = msg[2]
	}
	if m.Size() != len(msg) {
		return Msg{}, fmt.Errorf("status 0x%02X with %d bytes: %w", msg[0], len(msg), ErrNotChannelMessage)
	}
	return m, nil
}

// NoteToFrequency converts a MIDI note to Hz, with A4 tuned to tuningA4
// (440 when zero).
func NoteToFrequency(note uint8, tuningA4 float64) float64 {
	if tuningA4 == 0 {
		tuningA4 = 440.0
	}
	return tuningA4 * math.Pow(2, (float64(note)-69.0)/12.0)
}

// NoteNumberToName returns names like "C4" for note 60.
func NoteNumberToName(note uint8) string {
	names := [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	return fmt.Sprintf("%s%d", names[note%12], int(note/12)-1)
}
