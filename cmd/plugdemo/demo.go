package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gomidi "gitlab.com/gomidi/midi/v2"
	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/plugbridge/pkg/dsp/level"
	"github.com/justyntemme/plugbridge/pkg/framework/debug"
	"github.com/justyntemme/plugbridge/pkg/framework/host"
	"github.com/justyntemme/plugbridge/pkg/framework/metrics"
	"github.com/justyntemme/plugbridge/pkg/framework/param"
	fwplugin "github.com/justyntemme/plugbridge/pkg/framework/plugin"
	"github.com/justyntemme/plugbridge/pkg/framework/process"
	"github.com/justyntemme/plugbridge/pkg/midi"
	"github.com/justyntemme/plugbridge/pkg/plugin"
)

const (
	paramGain = iota
	paramMix
	paramMeter
)

// tagDebugInfo asks the plugin to log its debug info.
const tagDebugInfo = 1

// Report is what a run leaves behind.
type Report struct {
	Host        string
	Stats       metrics.AdapterStats
	HostCalls   uint64
	UIParams    uint64
	UIMidi      uint64
	Idles       uint64
	LastMeterDB float64
	FinalGainDB float64
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "host:               %s\n", r.Host)
	fmt.Fprintf(&b, "timer ticks:        %d (idle hooks %d)\n", r.Stats.Ticks, r.Idles)
	fmt.Fprintf(&b, "host notifications: %d\n", r.HostCalls)
	fmt.Fprintf(&b, "ui updates:         %d params, %d midi\n", r.UIParams, r.UIMidi)
	fmt.Fprintf(&b, "last meter:         %.1f dB\n", r.LastMeterDB)
	fmt.Fprintf(&b, "final gain:         %.1f dB\n", r.FinalGainDB)
	for _, q := range []struct {
		name  string
		stats metrics.QueueStats
	}{
		{metrics.QueueParamFromProcessor, r.Stats.ParamFromProcessor},
		{metrics.QueueMidiFromProcessor, r.Stats.MidiFromProcessor},
		{metrics.QueueMidiFromUI, r.Stats.MidiFromUI},
	} {
		fmt.Fprintf(&b, "%-21s capacity=%d pending=%d drained=%d dropped=%d\n",
			q.name+":", q.stats.Capacity, q.stats.Pending, q.stats.Drained, q.stats.Dropped)
	}
	return b.String()
}

type countingHost struct {
	calls atomic.Uint64
}

func (h *countingHost) InformHostOfParamChange(int, float64) {
	h.calls.Add(1)
}

// consoleUI stands in for an editor: it logs what it is sent.
type consoleUI struct {
	logger   logr.Logger
	registry func() *param.Registry
	params   atomic.Uint64
	midi     atomic.Uint64
	meterDB  atomic.Uint64
}

func (u *consoleUI) SendParameterValueToUIFromDelegate(idx int, value float64, normalized bool) {
	u.params.Add(1)
	if idx == paramMeter {
		u.meterDB.Store(math.Float64bits(value))
	}
	if u.logger.V(debug.TRACE).Enabled() {
		p := u.registry().GetParam(idx)
		if !normalized {
			value = p.Normalize(value)
		}
		u.logger.V(debug.TRACE).Info("Parameter update", "param", p.Name, "value", p.FormatValue(value))
	}
}

func (u *consoleUI) OnMidiMsgUI(msg midi.Msg) {
	u.midi.Add(1)
	u.logger.V(debug.DEBUG).Info("MIDI from processor", "msg", msg.String())
}

type demoHooks struct {
	plugin.NopHooks
	logger    logr.Logger
	idles     atomic.Uint64
	debugInfo func()
}

func (h *demoHooks) OnParamChange(idx int, source plugin.Source) {
	h.logger.V(debug.TRACE).Info("Parameter changed", "index", idx, "source", source.String())
}

func (h *demoHooks) OnIdle() {
	h.idles.Add(1)
}

func (h *demoHooks) OnMessage(tag int, _ []byte) bool {
	if tag != tagDebugInfo || h.debugInfo == nil {
		return false
	}
	h.debugInfo()
	return true
}

func demoConfig(opts *Options) plugin.Config {
	return plugin.Config{
		Info: fwplugin.Info{
			ID:       "com.justyntemme.plugbridge.demo",
			Name:     "Relay Demo",
			Version:  "1.0.0",
			Vendor:   "plugbridge",
			Category: "Fx",
		},
		UniqueID:       "RlyD",
		MfrID:          "Plgb",
		VendorVersion:  host.PackVersion(1, 0, 0),
		HasUI:          true,
		Width:          400,
		Height:         300,
		DoesChunks:     true,
		ParamQueueSize: opts.QueueSize,
		MidiQueueSize:  opts.QueueSize,
		IdleInterval:   opts.IdleInterval,
		Params: []*param.Parameter{
			param.GainParameter(paramGain, "Gain").Default(-6).Build(),
			param.MixParameter(paramMix, "Mix").Build(),
			param.OutputLevelMeter(paramMeter, "Output").Build(),
		},
	}
}

// Run drives one adapter with a simulated audio thread and editor until ctx
// is done or opts.Duration has passed.
func Run(ctx context.Context, opts *Options, logger logr.Logger) (Report, error) {
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	reg := prometheus.NewRegistry()
	hostCalls := &countingHost{}
	hooks := &demoHooks{logger: logger.WithName("hooks")}

	var p *plugin.APIBase
	ui := &consoleUI{logger: logger.WithName("ui"), registry: func() *param.Registry { return p.Params() }}

	apiOpts := []plugin.Option{
		plugin.WithHostNotifier(hostCalls),
		plugin.WithHooks(hooks),
		plugin.WithLogger(logger),
		plugin.WithMetrics(reg),
	}
	if !opts.NoUI {
		apiOpts = append(apiOpts, plugin.WithUI(ui))
	}

	p, err := plugin.New(demoConfig(opts), plugin.APIApp, apiOpts...)
	if err != nil {
		return Report{}, err
	}
	defer p.Close()
	hooks.debugInfo = p.PrintDebugInfo

	p.SetHost("plugbridge standalone", host.PackVersion(1, 0, 0))
	p.DirtyParameters()
	logger.V(debug.VERBOSE).Info("Important parameters", "indices", p.OnHostRequestingImportantParameters(2, nil))
	p.SendMsgFromUI(tagDebugInfo, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runProcessor(gctx, p, opts) })
	g.Go(func() error { return runEditor(gctx, p, logger.WithName("editor")) })
	if opts.MetricsAddr != "" {
		g.Go(func() error { return serveMetrics(gctx, opts.MetricsAddr, reg, logger) })
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	// Stop the timer before reading the final numbers.
	if err := p.Close(); err != nil {
		return Report{}, err
	}

	return Report{
		Host:        fmt.Sprintf("%s %s", p.Host(), host.VersionString(p.HostVersion())),
		Stats:       p.Stats(),
		HostCalls:   hostCalls.calls.Load(),
		UIParams:    ui.params.Load(),
		UIMidi:      ui.midi.Load(),
		Idles:       hooks.idles.Load(),
		LastMeterDB: math.Float64frombits(ui.meterDB.Load()),
		FinalGainDB: p.Params().Value(paramGain),
	}, nil
}

// runProcessor plays the audio thread. It only uses the real-time safe
// entry points of the adapter and allocates nothing inside the loop.
func runProcessor(ctx context.Context, p *plugin.APIBase, opts *Options) error {
	sine := level.NewSine(opts.SampleRate, midi.NoteToFrequency(57, 0))
	meter := level.NewMeter(opts.SampleRate)
	pc := process.NewContext(opts.BlockSize, opts.SampleRate, p.Params(), p)
	pc.Output = [][]float32{make([]float32, opts.BlockSize)}

	onUIMidi := func(m midi.Msg) {
		if m.Kind() == midi.KindNoteOn && m.Velocity() > 0 {
			sine.SetFrequency(midi.NoteToFrequency(m.NoteNumber(), 0))
		}
	}

	// A note every half second, alternating on and off.
	blocksPerNote := max(1, int(opts.SampleRate/float64(opts.BlockSize)/2))
	notes := [...]uint8{60, 64, 67, 72}

	ticker := time.NewTicker(opts.blockDuration())
	defer ticker.Stop()

	for block := 0; ; block++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		pc.DrainUIMidi(onUIMidi)

		out := pc.Output[0]
		sine.Process(out)
		level.ApplyGain(out, pc.ParamValue(paramGain))
		mix := float32(pc.ParamValue(paramMix) / 100)
		for i := range out {
			out[i] *= mix
		}
		pc.SendParamToUI(paramMeter, meter.Process(out), false)

		if block%blocksPerNote == 0 {
			n := notes[(block/blocksPerNote/2)%len(notes)]
			if (block/blocksPerNote)%2 == 0 {
				pc.SendMidi(midi.NoteOn(0, 0, n, 100))
			} else {
				pc.SendMidi(midi.NoteOff(0, 0, n, 0))
			}
		}
	}
}

// runEditor plays the user: it sweeps the gain and plays notes on the
// on-screen keyboard.
func runEditor(ctx context.Context, p *plugin.APIBase, logger logr.Logger) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	if err := p.SendSysexMsgFromUI([]byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7}); err != nil {
		logger.V(debug.DEBUG).Info("Sysex not sent", "reason", err.Error())
	}

	keys := [...]uint8{45, 52, 57, 64}
	for step := 0; ; step++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		// Triangle sweep over two seconds.
		phase := float64(step%20) / 20
		p.SetParameterValue(paramGain, 0.5+0.3*(1-math.Abs(2*phase-1)))

		if step%5 == 0 {
			msg, err := midi.FromMessage(0, gomidi.NoteOn(0, keys[(step/5)%len(keys)], 100))
			if err != nil {
				return fmt.Errorf("building editor note: %w", err)
			}
			if !p.SendMidiMsgFromUI(msg) {
				logger.V(debug.VERBOSE).Info("Editor MIDI queue full", "msg", msg.String())
			}
		}
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger logr.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.V(debug.DEFAULT).Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving metrics on %s: %w", addr, err)
	}
	return nil
}
