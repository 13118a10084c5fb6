package gesture

import (
	"testing"

	"github.com/relabs-tech/band_control/internal/band"
)

func TestClassify(t *testing.T) {
	base := Baseline{Roll: 0, Pitch: 0, Yaw: 0}

	tests := []struct {
		name     string
		sample   band.Sample
		expected Command
	}{
		{"neutral", band.Sample{}, None},
		{"pitch forward", band.Sample{Pitch: 45}, Forward},
		{"pitch back", band.Sample{Pitch: -45}, Back},
		{"yaw left", band.Sample{Yaw: 25}, Left},
		{"yaw right", band.Sample{Yaw: -25}, Right},
		{"forward threshold exact", band.Sample{Pitch: 40}, None},
		{"back threshold exact", band.Sample{Pitch: -40}, None},
		{"just past back threshold", band.Sample{Pitch: -40.0001}, Back},
		{"left threshold exact", band.Sample{Yaw: 20}, None},
		{"right threshold exact", band.Sample{Yaw: -20}, None},
		{"pitch wins over yaw", band.Sample{Pitch: 50, Yaw: 30}, Forward},
		{"back wins over right", band.Sample{Pitch: -50, Yaw: -30}, Back},
		{"roll alone is no gesture", band.Sample{Roll: 90}, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.sample, base); got != tt.expected {
				t.Errorf("Classify(%+v) = %q, want %q", tt.sample, got, tt.expected)
			}
		})
	}
}

func TestClassifyRelativeToBaseline(t *testing.T) {
	base := Baseline{Roll: 10, Pitch: 30, Yaw: 180}

	tests := []struct {
		name     string
		sample   band.Sample
		expected Command
	}{
		{"same as baseline", band.Sample{Roll: 10, Pitch: 30, Yaw: 180}, None},
		{"forward from offset baseline", band.Sample{Pitch: 75, Yaw: 180}, Forward},
		{"left from offset baseline", band.Sample{Pitch: 30, Yaw: 205}, Left},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.sample, base); got != tt.expected {
				t.Errorf("Classify(%+v) = %q, want %q", tt.sample, got, tt.expected)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	base := Baseline{Pitch: 5}
	sample := band.Sample{Pitch: 50, Yaw: -30}

	first := Classify(sample, base)
	second := Classify(sample, base)
	if first != second {
		t.Errorf("Classify not deterministic: %q then %q", first, second)
	}
}

func TestFinishTriggered(t *testing.T) {
	base := Baseline{Roll: 0}

	tests := []struct {
		name     string
		roll     float64
		expected bool
	}{
		{"neutral", 0, false},
		{"low threshold exact", -20, false},
		{"high threshold exact", 40, false},
		{"below low", -20.5, true},
		{"above high", 40.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FinishTriggered(band.Sample{Roll: tt.roll}, base)
			if got != tt.expected {
				t.Errorf("FinishTriggered(roll=%v) = %v, want %v", tt.roll, got, tt.expected)
			}
		})
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in       string
		expected Command
	}{
		{"forward", Forward},
		{"back", Back},
		{"left", Left},
		{"right", Right},
		{"stop", Stop},
		{"", None},
		{"sideways", None},
	}

	for _, tt := range tests {
		if got := ParseCommand(tt.in); got != tt.expected {
			t.Errorf("ParseCommand(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
