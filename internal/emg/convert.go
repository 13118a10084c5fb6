// Package emg converts raw EMG ADC samples into microvolts.
package emg

import "fmt"

// Resolution is the ADC sample resolution the band was configured with.
type Resolution int

const (
	Bits8  Resolution = 8
	Bits12 Resolution = 12
)

// Electrical characteristics of the band's EMG frontend.
const (
	minVoltage = -1.25 // volt
	maxVoltage = 1.25  // volt
	gain       = 1200.0
)

// ConvertRaw converts raw ADC readings to microvolt-scale float values.
// Only 8-bit and 12-bit resolutions are supported; anything else is an
// error, never a silent default.
func ConvertRaw(data []uint16, res Resolution) ([]float32, error) {
	var div, sub float64
	switch res {
	case Bits8:
		div = 127.0
		sub = 128
	case Bits12:
		div = 2047.0
		sub = 2048
	default:
		return nil, fmt.Errorf("unsupported EMG resolution %d", res)
	}

	factor := (maxVoltage - minVoltage) / gain / div

	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32((float64(v) - sub) * factor)
	}
	return out, nil
}

// Widen converts raw channel bytes into ADC values for ConvertRaw.
func Widen(raw []byte) []uint16 {
	out := make([]uint16, len(raw))
	for i, b := range raw {
		out[i] = uint16(b)
	}
	return out
}

// Amplitude sums the absolute deltas between adjacent channel values,
// a crude activity measure used only for logging.
func Amplitude(samples []float32) float32 {
	var sum float32
	for i := 1; i < len(samples); i++ {
		d := samples[i] - samples[i-1]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
