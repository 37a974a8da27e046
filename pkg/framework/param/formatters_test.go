package param

import (
	"math"
	"testing"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name     string
		format   func(float64) string
		value    float64
		expected string
	}{
		{"dB", DecibelFormatter, -6, "-6.0 dB"},
		{"dB floor", DecibelFormatter, -80, "-∞ dB"},
		{"percent", PercentFormatter, 42, "42%"},
		{"Hz", FrequencyFormatter, 440, "440.0 Hz"},
		{"kHz", FrequencyFormatter, 2500, "2.50 kHz"},
		{"ms", TimeFormatter, 12.5, "12.5 ms"},
		{"s", TimeFormatter, 1500, "1.50 s"},
		{"on", OnOffFormatter, 1, "On"},
		{"off", OnOffFormatter, 0, "Off"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format(tt.value); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParsers(t *testing.T) {
	tests := []struct {
		name     string
		parse    func(string) (float64, error)
		input    string
		expected float64
	}{
		{"dB", DecibelParser, "-6.0 dB", -6},
		{"dB inf", DecibelParser, "-inf", -96},
		{"percent", PercentParser, " 42 %", 42},
		{"Hz", FrequencyParser, "440 Hz", 440},
		{"kHz", FrequencyParser, "2.5kHz", 2500},
		{"ms", TimeParser, "12.5 ms", 12.5},
		{"s", TimeParser, "1.5 s", 1500},
		{"on", OnOffParser, "yes", 1},
		{"off", OnOffParser, "Off", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}

	if _, err := OnOffParser("maybe"); err == nil {
		t.Error("expected error for invalid on/off string")
	}
}
