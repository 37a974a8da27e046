package param

import (
	"fmt"
	"strings"
)

// GainParameter creates a gain parameter from -60 dB to +12 dB, default 0 dB.
func GainParameter(index int, name string) *Builder {
	return New(index, name).
		Range(-60, 12).
		Default(0).
		Unit("dB").
		Formatter(DecibelFormatter, DecibelParser)
}

// MixParameter creates a dry/wet parameter (0-100%)
func MixParameter(index int, name string) *Builder {
	return New(index, name).
		Range(0, 100).
		Default(100).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// FrequencyParameter creates a frequency parameter
func FrequencyParameter(index int, name string, min, max, defaultHz float64) *Builder {
	return New(index, name).
		Range(min, max).
		Default(defaultHz).
		Unit("Hz").
		Formatter(FrequencyFormatter, FrequencyParser)
}

// TimeParameter creates a time parameter in milliseconds
func TimeParameter(index int, name string, minMs, maxMs, defaultMs float64) *Builder {
	return New(index, name).
		Range(minMs, maxMs).
		Default(defaultMs).
		Unit("ms").
		Formatter(TimeFormatter, TimeParser)
}

// OutputLevelMeter creates a read-only level meter (-60 to 0 dB) that the
// audio engine reports to the UI.
func OutputLevelMeter(index int, name string) *Builder {
	return New(index, name).
		Range(-60, 0).
		Default(-60).
		Unit("dB").
		Formatter(DecibelFormatter, DecibelParser).
		Meter()
}

// BypassParameter creates the plugin bypass switch
func BypassParameter(index int, name string) *Builder {
	return New(index, name).Bypass()
}

// Choice creates a list parameter over the given option names.
func Choice(index int, name string, options ...string) *Builder {
	if len(options) == 0 {
		panic(fmt.Sprintf("param: choice %q needs at least one option", name))
	}

	format := func(v float64) string {
		i := int(v + 0.5)
		if i < 0 || i >= len(options) {
			return "Unknown"
		}
		return options[i]
	}
	parse := func(s string) (float64, error) {
		s = strings.TrimSpace(s)
		for i, opt := range options {
			if strings.EqualFold(s, opt) {
				return float64(i), nil
			}
		}
		return 0, fmt.Errorf("unknown option: %s", s)
	}

	b := New(index, name).
		Range(0, float64(len(options)-1)).
		Steps(int32(len(options)-1)).
		Formatter(format, parse)
	b.param.Flags |= IsList
	return b
}
