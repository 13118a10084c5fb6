package gesture

import (
	"context"

	"github.com/relabs-tech/band_control/internal/band"
)

// Sink receives every classified sample. Implementations must not
// block for long: the pipeline's liveness is what keeps the freshest
// command available downstream.
type Sink func(sample band.Sample, cmd Command)

// Pipeline is the command stream producer: it drains a band frame
// stream, calibrates on the first orientation sample, classifies every
// orientation sample, and hands the result to the sink. Non-orientation
// frames are skipped without emitting anything.
type Pipeline struct {
	// Finish enables the roll-based session-terminating gate: when it
	// trips, the pipeline emits Stop and returns.
	Finish bool

	cal Calibrator
}

// Baseline returns the session baseline captured so far. The second
// return is false until the first orientation sample has been seen.
func (p *Pipeline) Baseline() (Baseline, bool) {
	if !p.cal.Calibrated() {
		return Baseline{}, false
	}
	return p.cal.Baseline(), true
}

// Run pumps frames until the context is cancelled, the stream closes,
// or (in Finish mode) the terminating gate trips. The frame pull is the
// only suspension point, so cancellation is observed there. The caller
// owns the device and performs StopStreaming/Disconnect after Run
// returns.
func (p *Pipeline) Run(ctx context.Context, frames <-chan band.Frame, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				return nil
			}

			sample, ok := frame.Sample()
			if !ok {
				// different telemetry kind (EMG etc.), not ours
				continue
			}

			baseline := p.cal.Observe(sample)

			if p.Finish && FinishTriggered(sample, baseline) {
				sink(sample, Stop)
				return nil
			}

			sink(sample, Classify(sample, baseline))
		}
	}
}
