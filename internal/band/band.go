// Package band models the gesture band: the wearable IMU device that
// streams orientation (and optionally raw EMG) telemetry frames.
package band

import "fmt"

// Sample is one roll/pitch/yaw reading from the band, in degrees.
type Sample struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// FrameKind identifies the telemetry carried by a Frame.
type FrameKind int

const (
	FrameUnknown FrameKind = iota
	FrameEuler             // 3-axis orientation, Values = roll, pitch, yaw
	FrameEMG               // raw EMG channel bytes in Raw
)

// Frame is a single streamed telemetry frame. Only Euler frames carry a
// valid orientation; consumers must check Kind (or len(Values)) before
// treating a frame as a Sample.
type Frame struct {
	Kind   FrameKind
	Values []float64
	Raw    []byte
}

// Sample converts an Euler frame into a Sample. The second return is
// false for any frame that is not a 3-axis orientation reading.
func (f Frame) Sample() (Sample, bool) {
	if f.Kind != FrameEuler || len(f.Values) != 3 {
		return Sample{}, false
	}
	return Sample{Roll: f.Values[0], Pitch: f.Values[1], Yaw: f.Values[2]}, true
}

// Subscription selects which telemetry stream the band emits.
type Subscription int

const (
	SubscriptionEuler Subscription = iota
	SubscriptionEMGRaw
)

func (s Subscription) String() string {
	switch s {
	case SubscriptionEuler:
		return "euler"
	case SubscriptionEMGRaw:
		return "emg_raw"
	default:
		return fmt.Sprintf("subscription(%d)", int(s))
	}
}

// Device is the band's control surface. StartStreaming returns an
// unbounded frame stream; the channel is closed when streaming stops or
// the device fails. SetMotor drives the haptic buzzer and is
// fire-and-forget: callers ignore delivery beyond the write itself.
type Device interface {
	Connect() error
	SetMotor(on bool) error
	SetSubscription(kind Subscription) error
	StartStreaming() (<-chan Frame, error)
	StopStreaming() error
	Disconnect() error
}
