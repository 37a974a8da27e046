package plugin

import (
	"errors"

	"github.com/justyntemme/plugbridge/pkg/midi"
)

// ErrSysexUnsupported is returned by SendSysexMsgFromUI. No bytes are sent.
var ErrSysexUnsupported = errors.New("sending sysex from the UI is not supported")

// API is the plugin format the instance is wrapped in.
type API int

const (
	APIVST2 API = iota
	APIVST3
	// APIVST3Controller is the edit controller half of a split VST3 plugin.
	APIVST3Controller
	// APIVST3Processor is the processor half of a split VST3 plugin; it has
	// no UI of its own and forwards MIDI to the controller instead.
	APIVST3Processor
	APIAU
	APIAUv3
	APIAAX
	APIApp
	APIWeb
)

func (a API) String() string {
	switch a {
	case APIVST2:
		return "VST2"
	case APIVST3:
		return "VST3"
	case APIVST3Controller:
		return "VST3 Controller"
	case APIVST3Processor:
		return "VST3 Processor"
	case APIAU:
		return "AU"
	case APIAUv3:
		return "AUv3"
	case APIAAX:
		return "AAX"
	case APIApp:
		return "Standalone"
	case APIWeb:
		return "Web"
	default:
		return "Unknown"
	}
}

// Source tags where a parameter change came from.
type Source int

const (
	SourceReset Source = iota
	SourceHost
	SourcePresetRecall
	SourceUI
	SourceDelegate
	SourceUnknown
)

func (s Source) String() string {
	switch s {
	case SourceReset:
		return "Reset"
	case SourceHost:
		return "Host"
	case SourcePresetRecall:
		return "PresetRecall"
	case SourceUI:
		return "UI"
	case SourceDelegate:
		return "Delegate"
	default:
		return "Unknown"
	}
}

// ParamChange is a parameter update travelling from the audio thread to the UI.
type ParamChange struct {
	Index      int
	Value      float64
	Normalized bool
}

// HostNotifier is implemented by the host API wrapper.
type HostNotifier interface {
	InformHostOfParamChange(idx int, normalized float64)
}

// UIDelegate is implemented by the editor.
type UIDelegate interface {
	SendParameterValueToUIFromDelegate(idx int, value float64, normalized bool)
	OnMidiMsgUI(msg midi.Msg)
}

// Hooks are the plugin's own callbacks.
type Hooks interface {
	OnParamChange(idx int, source Source)
	OnIdle()
	// OnMessage handles an arbitrary tagged message from the UI and reports
	// whether it was understood.
	OnMessage(tag int, data []byte) bool
}

// MidiTransmitter forwards MIDI from a split processor to its controller.
type MidiTransmitter interface {
	TransmitMidiMsgFromProcessor(msg midi.Msg)
}

// HostNotifierFunc adapts a function to HostNotifier.
type HostNotifierFunc func(idx int, normalized float64)

func (f HostNotifierFunc) InformHostOfParamChange(idx int, normalized float64) {
	f(idx, normalized)
}

// MidiTransmitterFunc adapts a function to MidiTransmitter.
type MidiTransmitterFunc func(msg midi.Msg)

func (f MidiTransmitterFunc) TransmitMidiMsgFromProcessor(msg midi.Msg) {
	f(msg)
}

// NopHooks ignores every callback. Embed it to implement only some hooks.
type NopHooks struct{}

func (NopHooks) OnParamChange(int, Source)  {}
func (NopHooks) OnIdle()                    {}
func (NopHooks) OnMessage(int, []byte) bool { return false }

type nopHost struct{}

func (nopHost) InformHostOfParamChange(int, float64) {}
