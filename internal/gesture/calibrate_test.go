package gesture

import (
	"testing"

	"github.com/relabs-tech/band_control/internal/band"
)

func TestCalibratorCapturesFirstSample(t *testing.T) {
	var cal Calibrator

	if cal.Calibrated() {
		t.Fatal("calibrator should start uncalibrated")
	}

	first := band.Sample{Roll: 1.5, Pitch: -3.25, Yaw: 181}
	base := cal.Observe(first)

	want := Baseline{Roll: 1.5, Pitch: -3.25, Yaw: 181}
	if base != want {
		t.Fatalf("baseline = %+v, want %+v", base, want)
	}
	if !cal.Calibrated() {
		t.Fatal("calibrator should be calibrated after first sample")
	}
}

func TestCalibratorBaselineIsImmutable(t *testing.T) {
	var cal Calibrator

	first := band.Sample{Roll: 10, Pitch: 20, Yaw: 30}
	want := cal.Observe(first)

	later := []band.Sample{
		{Roll: 99, Pitch: 99, Yaw: 99},
		{Roll: -45, Pitch: 0, Yaw: 300},
		{},
	}
	for _, s := range later {
		if got := cal.Observe(s); got != want {
			t.Fatalf("Observe(%+v) moved baseline to %+v, want %+v", s, got, want)
		}
	}

	if got := cal.Baseline(); got != want {
		t.Fatalf("Baseline() = %+v, want %+v", got, want)
	}
}
