package track

import "math"

// DefaultElevationThreshold is the noise threshold in meters below which an
// elevation change is treated as GPS jitter rather than real climbing.
const DefaultElevationThreshold = 1.0

// ElevationStats returns total elevation gain and loss in meters over the
// series, filtered with a hysteresis accumulator: an "anchor" elevation only
// moves when the sample diverges from it by at least threshold, so small
// back-and-forth noise contributes nothing. A naive point-to-point sum would
// over-count that noise badly on consumer GPS data.
func ElevationStats(elevations []float64, threshold float64) (gain, loss float64) {
	if len(elevations) < 2 {
		return 0, 0
	}

	anchor := elevations[0]
	for _, e := range elevations[1:] {
		diff := e - anchor
		switch {
		case diff >= threshold:
			gain += diff
			anchor = e
		case diff <= -threshold:
			loss += math.Abs(diff)
			anchor = e
		}
	}
	return gain, loss
}

// CumulativeElevationGain returns the committed elevation gain so far at each
// sample, rounded to whole meters. Same anchor/hysteresis design as
// ElevationStats; downhill moves shift the anchor without adding gain. The
// result has the same length as the input and is non-decreasing.
func CumulativeElevationGain(elevations []float64, threshold float64) []int {
	if len(elevations) == 0 {
		return nil
	}

	cumulative := make([]int, len(elevations))
	anchor := elevations[0]
	currentGain := 0.0

	for i := 1; i < len(elevations); i++ {
		diff := elevations[i] - anchor
		switch {
		case diff >= threshold:
			currentGain += diff
			anchor = elevations[i]
		case diff <= -threshold:
			anchor = elevations[i]
		}
		cumulative[i] = int(math.Round(currentGain))
	}
	return cumulative
}
