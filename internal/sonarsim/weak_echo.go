package sonarsim

import "github.com/PH-19/sonarscan-sim/internal/simmath"

// weakEchoStride is the stride used to sample subtracted for the
// percentile estimate in spec §4.4 step 3, trading a small loss of
// precision for an allocation-free, bounded-size sample.
const weakEchoStride = 7

// weakEchoThreshold computes the effective detection threshold for a
// frame, per spec §4.4 step 3: the WEAK_ECHO_PERCENTILE quantile of a
// strided sample of subtracted, floored by WEAK_ECHO_MIN and by the
// tuning's configured threshold.
func weakEchoThreshold(frame *Frame, tuning Tuning) float64 {
	sample := make([]float64, 0, len(frame.Subtracted)/weakEchoStride+1)
	for i := 0; i < len(frame.Subtracted); i += weakEchoStride {
		sample = append(sample, float64(frame.Subtracted[i]))
	}
	q := simmath.Quantile(sample, WeakEchoPercentile)
	return maxOf(tuning.Threshold, maxOf(WeakEchoMin, q))
}

// buildMask sets frame.Mask[i] = subtracted[i] >= threshold, per spec
// §4.4 step 3.
func buildMask(frame *Frame, threshold float64) {
	th := float32(threshold)
	for i, v := range frame.Subtracted {
		frame.Mask[i] = v >= th
	}
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
