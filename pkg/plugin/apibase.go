package plugin

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/utils/clock"

	"github.com/justyntemme/plugbridge/pkg/framework/debug"
	"github.com/justyntemme/plugbridge/pkg/framework/host"
	"github.com/justyntemme/plugbridge/pkg/framework/metrics"
	"github.com/justyntemme/plugbridge/pkg/framework/param"
	"github.com/justyntemme/plugbridge/pkg/framework/process"
	"github.com/justyntemme/plugbridge/pkg/framework/queue"
	"github.com/justyntemme/plugbridge/pkg/framework/state"
	"github.com/justyntemme/plugbridge/pkg/framework/timer"
	"github.com/justyntemme/plugbridge/pkg/midi"
)

type hostIdentity struct {
	host    host.Host
	name    string
	version int
}

// uiBinding boxes the delegate so it can live in an atomic.Pointer.
type uiBinding struct {
	delegate UIDelegate
}

var _ process.Outbox = (*APIBase)(nil)

// APIBase is the per-instance adapter shared by every host API wrapper.
type APIBase struct {
	cfg    Config
	api    API
	id     string
	logger logr.Logger

	registry *param.Registry
	state    *state.Manager

	paramChangeFromProcessor *queue.Queue[ParamChange]
	midiMsgsFromProcessor    *queue.Queue[midi.Msg]
	midiMsgsFromEditor       *queue.Queue[midi.Msg]

	hostNotifier HostNotifier
	hooks        Hooks
	transmitter  MidiTransmitter
	ui           atomic.Pointer[uiBinding]
	hostInfo     atomic.Pointer[hostIdentity]

	clock      clock.WithTicker
	timer      *timer.Timer
	collector  *metrics.Collector
	registerer prometheus.Registerer
	closed     atomic.Bool

	ticks             atomic.Uint64
	hostNotifications atomic.Uint64
	paramsDrained     atomic.Uint64
	midiDrained       atomic.Uint64
	editorMidiDrained atomic.Uint64
}

// New creates an adapter and starts its idle timer.
func New(cfg Config, api API, opts ...Option) (*APIBase, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plugin config: %w", err)
	}

	o := options{
		host:   nopHost{},
		hooks:  NopHooks{},
		logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = clock.RealClock{}
	}

	registry := param.NewRegistry()
	if err := registry.Add(cfg.Params...); err != nil {
		return nil, fmt.Errorf("registering parameters: %w", err)
	}

	id := uuid.NewString()
	a := &APIBase{
		cfg:                      cfg,
		api:                      api,
		id:                       id,
		logger:                   o.logger.WithName("plugin").WithValues("plugin", cfg.Info.Name, "api", api.String(), "instance", id),
		registry:                 registry,
		state:                    state.NewManager(registry),
		paramChangeFromProcessor: queue.New[ParamChange](cfg.ParamQueueSize),
		midiMsgsFromProcessor:    queue.New[midi.Msg](cfg.MidiQueueSize),
		midiMsgsFromEditor:       queue.New[midi.Msg](cfg.MidiQueueSize),
		hostNotifier:             o.host,
		hooks:                    o.hooks,
		transmitter:              o.transmitter,
		clock:                    o.clock,
	}
	if o.ui != nil {
		a.ui.Store(&uiBinding{delegate: o.ui})
	}

	a.collector = metrics.NewCollector(prometheus.Labels{"plugin": cfg.Info.Name, "instance": id}, a.Stats)
	if o.registerer != nil {
		if err := o.registerer.Register(a.collector); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		a.registerer = o.registerer
	}

	a.timer = timer.New(o.clock, cfg.IdleInterval, a.OnTimer, a.logger)
	if !o.noTimer {
		a.timer.Start()
	}

	a.logger.V(debug.VERBOSE).Info("Plugin instance created",
		"uid", uuid.UUID(cfg.Info.UID()).String(), "params", registry.Count(), "hasUI", cfg.HasUI, "idleInterval", cfg.IdleInterval)
	return a, nil
}

// Close stops the idle timer and then releases the instance. Once Close
// returns no tick is running and none will start. Calling Close again is a no-op.
//
// Close waits for an in-flight tick, so it must not be called from inside
// one: not from Hooks.OnIdle, from a UIDelegate callback, or from
// Hooks.OnMessage while OnTimer is running on the same goroutine.
func (a *APIBase) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	a.timer.Stop()
	if a.registerer != nil {
		a.registerer.Unregister(a.collector)
	}
	a.ui.Store(nil)
	a.logger.V(debug.VERBOSE).Info("Plugin instance closed")
	return nil
}

// SetHost records the host identity. Only the first call has an effect.
func (a *APIBase) SetHost(name string, version int) {
	id := &hostIdentity{host: host.Lookup(name), name: name, version: version}
	if !a.hostInfo.CompareAndSwap(nil, id) {
		a.logger.Info("Ignoring repeated SetHost", "name", name, "current", a.Host().String())
		return
	}
	a.logger.V(debug.DEFAULT).Info("Host identified",
		"name", name, "host", id.host.String(), "version", host.VersionString(version))
}

// Host returns the identified host, Unknown before SetHost.
func (a *APIBase) Host() host.Host {
	if id := a.hostInfo.Load(); id != nil {
		return id.host
	}
	return host.Unknown
}

// HostVersion returns the packed host version, 0 before SetHost.
func (a *APIBase) HostVersion() int {
	if id := a.hostInfo.Load(); id != nil {
		return id.version
	}
	return 0
}

// SetParameterValue applies a change coming from the host or the editor.
// The registry, the host and OnParamChange are all updated on the calling
// thread before it returns. Never call it from the audio thread.
func (a *APIBase) SetParameterValue(idx int, normalized float64) {
	p := a.registry.GetParam(idx)
	p.SetNormalized(normalized)
	v := p.GetNormalized()
	a.informHost(idx, v)
	a.hooks.OnParamChange(idx, SourceUI)
	a.logger.V(debug.TRACE).Info("Parameter set", "index", idx, "normalized", v, "display", p.DisplayString())
}

// SendParameterValueToUIFromAPI queues a parameter update for the editor.
// It is safe on the audio thread: it never blocks, allocates or logs. It
// reports false when the queue was full and the update was dropped.
func (a *APIBase) SendParameterValueToUIFromAPI(idx int, value float64, normalized bool) bool {
	return a.paramChangeFromProcessor.Push(ParamChange{Index: idx, Value: value, Normalized: normalized})
}

// SendMidiMsgFromProcessor queues MIDI for the editor under the same rules
// as SendParameterValueToUIFromAPI.
func (a *APIBase) SendMidiMsgFromProcessor(msg midi.Msg) bool {
	return a.midiMsgsFromProcessor.Push(msg)
}

// DirtyParameters informs the host of the current value of every parameter.
func (a *APIBase) DirtyParameters() {
	for i, p := range a.registry.All() {
		a.informHost(i, p.GetNormalized())
	}
}

// OnParamReset announces every parameter to OnParamChange with source.
func (a *APIBase) OnParamReset(source Source) {
	for i := range a.registry.All() {
		a.hooks.OnParamChange(i, source)
	}
}

// OnHostRequestingImportantParameters appends the indices of the first
// count parameters to results.
func (a *APIBase) OnHostRequestingImportantParameters(count int, results []int) []int {
	count = min(max(count, 0), a.registry.Count())
	for i := 0; i < count; i++ {
		results = append(results, i)
	}
	return results
}

// OnTimer runs one tick of the dispatch loop. The idle timer calls it; an
// owner that created the instance WithoutTimer calls it from its UI thread.
func (a *APIBase) OnTimer() {
	start := a.clock.Now()
	a.ticks.Add(1)

	if a.cfg.HasUI {
		switch a.api {
		case APIVST3Processor:
			// The controller owns the editor; forward MIDI to it.
			if a.transmitter != nil {
				a.midiDrained.Add(uint64(a.midiMsgsFromProcessor.Drain(a.transmitter.TransmitMidiMsgFromProcessor)))
			}
		case APIVST3Controller:
		default:
			if b := a.ui.Load(); b != nil {
				a.dispatchToUI(b.delegate)
			}
		}
	}

	a.hooks.OnIdle()
	a.collector.ObserveTick(a.clock.Since(start))
}

func (a *APIBase) dispatchToUI(ui UIDelegate) {
	n := a.paramChangeFromProcessor.Drain(func(pc ParamChange) {
		ui.SendParameterValueToUIFromDelegate(pc.Index, pc.Value, pc.Normalized)
	})
	a.paramsDrained.Add(uint64(n))
	n = a.midiMsgsFromProcessor.Drain(ui.OnMidiMsgUI)
	a.midiDrained.Add(uint64(n))
}

// AttachUI makes d the editor receiving queued updates from the next tick on.
func (a *APIBase) AttachUI(d UIDelegate) {
	a.ui.Store(&uiBinding{delegate: d})
	a.logger.V(debug.DEBUG).Info("Editor attached")
}

// DetachUI removes the editor. Queued updates accumulate until one attaches.
func (a *APIBase) DetachUI() {
	a.ui.Store(nil)
	a.logger.V(debug.DEBUG).Info("Editor detached")
}

// HasUIAttached reports whether an editor is attached.
func (a *APIBase) HasUIAttached() bool {
	return a.ui.Load() != nil
}

// SendMidiMsgFromUI queues MIDI from the editor for the processor.
func (a *APIBase) SendMidiMsgFromUI(msg midi.Msg) bool {
	return a.midiMsgsFromEditor.Push(msg)
}

// SendSysexMsgFromUI always fails with ErrSysexUnsupported.
func (a *APIBase) SendSysexMsgFromUI(data []byte) error {
	a.logger.V(debug.DEBUG).Info("Dropping sysex from UI", "size", len(data))
	return ErrSysexUnsupported
}

// SendMsgFromUI forwards an arbitrary tagged message to OnMessage.
func (a *APIBase) SendMsgFromUI(tag int, data []byte) bool {
	return a.hooks.OnMessage(tag, data)
}

// DrainMidiFromUI hands every queued editor MIDI message to fn. It is the
// processor's side of SendMidiMsgFromUI and may run on the audio thread.
func (a *APIBase) DrainMidiFromUI(fn func(midi.Msg)) int {
	n := a.midiMsgsFromEditor.Drain(fn)
	a.editorMidiDrained.Add(uint64(n))
	return n
}

// CompareState reports whether the flat parameter chunk at byte offset
// startPos matches the live parameter values within state.CompareTolerance.
func (a *APIBase) CompareState(data []byte, startPos int) bool {
	return state.CompareFlat(data, startPos, a.registry)
}

// SerializeParams writes the flat parameter chunk.
func (a *APIBase) SerializeParams(w io.Writer) error {
	return state.SerializeFlat(w, a.registry)
}

// UnserializeParams restores parameters from a flat chunk and returns the
// offset just past it. On success every parameter is announced with
// SourcePresetRecall.
func (a *APIBase) UnserializeParams(data []byte, startPos int) (int, error) {
	pos, err := state.UnserializeFlat(data, startPos, a.registry)
	if err != nil {
		return pos, err
	}
	a.OnParamReset(SourcePresetRecall)
	return pos, nil
}

// SaveState writes the full plugin state.
func (a *APIBase) SaveState(w io.Writer) error {
	return a.state.Save(w)
}

// LoadState restores the full plugin state and announces every parameter
// with SourcePresetRecall.
func (a *APIBase) LoadState(r io.Reader) error {
	if err := a.state.Load(r); err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	a.OnParamReset(SourcePresetRecall)
	return nil
}

// SetCustomState adds plugin-defined data to SaveState and LoadState.
func (a *APIBase) SetCustomState(save state.CustomSaveFunc, load state.CustomLoadFunc) {
	a.state.SetCustomState(save, load)
}

// Params returns the parameter registry.
func (a *APIBase) Params() *param.Registry { return a.registry }

// GetParam returns parameter idx. It panics if idx is out of range.
func (a *APIBase) GetParam(idx int) *param.Parameter { return a.registry.GetParam(idx) }

// NParams returns the parameter count.
func (a *APIBase) NParams() int { return a.registry.Count() }

// API returns the wrapped plugin format.
func (a *APIBase) API() API { return a.api }

// ID returns the random per-instance identifier.
func (a *APIBase) ID() string { return a.id }

// Config returns the configuration the instance was built with.
func (a *APIBase) Config() Config { return a.cfg }

// Stats snapshots the diagnostics counters. Pending counts are approximate
// while the queues are in use.
func (a *APIBase) Stats() metrics.AdapterStats {
	return metrics.AdapterStats{
		ParamFromProcessor: queueStats(a.paramChangeFromProcessor, &a.paramsDrained),
		MidiFromProcessor:  queueStats(a.midiMsgsFromProcessor, &a.midiDrained),
		MidiFromUI:         queueStats(a.midiMsgsFromEditor, &a.editorMidiDrained),
		Ticks:              a.ticks.Load(),
		HostNotifications:  a.hostNotifications.Load(),
	}
}

func queueStats[T any](q *queue.Queue[T], drained *atomic.Uint64) metrics.QueueStats {
	return metrics.QueueStats{
		Capacity: q.Capacity(),
		Pending:  q.ElementsAvailable(),
		Dropped:  q.Dropped(),
		Drained:  drained.Load(),
	}
}

// BuildInfo describes the instance for diagnostics.
func (a *APIBase) BuildInfo() string {
	hostName := "not set"
	if id := a.hostInfo.Load(); id != nil {
		hostName = fmt.Sprintf("%s %s", id.host, host.VersionString(id.version))
	}
	return fmt.Sprintf("%s %s (%s) by %s, %s, host: %s",
		a.cfg.ProductName, a.cfg.Info.Version, a.api, a.cfg.Info.Vendor,
		host.VersionString(a.cfg.VendorVersion), hostName)
}

// PrintDebugInfo logs the build info and the current value of every parameter.
func (a *APIBase) PrintDebugInfo() {
	var b bytes.Buffer
	for _, p := range a.registry.All() {
		fmt.Fprintf(&b, "%d:%s=%s ", p.Index, p.Name, p.DisplayString())
	}
	a.logger.Info("Debug info", "build", a.BuildInfo(), "params", strings.TrimSpace(b.String()))
}

func (a *APIBase) informHost(idx int, normalized float64) {
	a.hostNotifications.Add(1)
	a.hostNotifier.InformHostOfParamChange(idx, normalized)
}
