package gesture

import "github.com/relabs-tech/band_control/internal/band"

// Classification thresholds, in degrees relative to the baseline. All
// comparisons are strict: a delta sitting exactly on a threshold does
// not trigger.
const (
	pitchBackThreshold    = -40.0
	pitchForwardThreshold = 40.0
	yawRightThreshold     = -20.0
	yawLeftThreshold      = 20.0

	rollFinishLow  = -20.0
	rollFinishHigh = 40.0
)

// Classify maps one orientation sample to a Command given the session
// baseline. Pitch is checked before yaw, so a sample tilted past both
// thresholds yields the pitch command. No hysteresis or smoothing is
// applied; consecutive samples straddling a threshold will flip the
// command on every call.
func Classify(s band.Sample, b Baseline) Command {
	dPitch := s.Pitch - b.Pitch
	dYaw := s.Yaw - b.Yaw

	switch {
	case dPitch < pitchBackThreshold:
		return Back
	case dPitch > pitchForwardThreshold:
		return Forward
	case dYaw < yawRightThreshold:
		return Right
	case dYaw > yawLeftThreshold:
		return Left
	default:
		return None
	}
}

// FinishTriggered is the session-terminating policy: a roll delta
// outside (rollFinishLow, rollFinishHigh) ends the session. It is a
// separate gate, never combined with Classify in the same decision.
func FinishTriggered(s band.Sample, b Baseline) bool {
	dRoll := s.Roll - b.Roll
	return dRoll < rollFinishLow || dRoll > rollFinishHigh
}
