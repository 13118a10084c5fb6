package gesture

import "github.com/relabs-tech/band_control/internal/band"

// Baseline is the zero-reference orientation captured at session start.
// Once set it never changes for the rest of the session.
type Baseline struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// Calibrator captures the baseline from the first sample it observes and
// passes every later sample through unchanged. One Calibrator per
// session; a reconnect gets a fresh one.
type Calibrator struct {
	baseline Baseline
	set      bool
}

// Observe feeds one sample through the calibrator and returns the
// session baseline. The first call captures the sample as the baseline;
// subsequent calls return the captured value untouched.
func (c *Calibrator) Observe(s band.Sample) Baseline {
	if !c.set {
		c.baseline = Baseline{Roll: s.Roll, Pitch: s.Pitch, Yaw: s.Yaw}
		c.set = true
	}
	return c.baseline
}

// Calibrated reports whether the baseline has been captured.
func (c *Calibrator) Calibrated() bool {
	return c.set
}

// Baseline returns the captured baseline; zero until Calibrated.
func (c *Calibrator) Baseline() Baseline {
	return c.baseline
}
