// Package hrv derives inter-beat intervals and heart-rate variability from beat positions.
package hrv

import (
	"fmt"
	"math"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"gonum.org/v1/gonum/stat"
)

// Compute converts beat indices sampled at fs into the IBI series and its summary statistics.
// HRV is the population standard deviation of the IBIs. Index differences are taken before
// dividing by fs so equal spacing yields bit-identical intervals.
func Compute(beats types.BeatIndexSet, fs float64) (types.HRVResult, error) {
	if fs <= 0 {
		return types.HRVResult{}, types.ErrInvalidSampleRate
	}
	if len(beats) < 2 {
		return types.HRVResult{}, fmt.Errorf("%w: got %d", types.ErrInsufficientBeats, len(beats))
	}

	ibi := make(types.IBISeries, len(beats)-1)
	times := make([]float64, len(beats)-1)
	for i := 1; i < len(beats); i++ {
		if beats[i] <= beats[i-1] {
			return types.HRVResult{}, fmt.Errorf("%w: index %d (%d after %d)", types.ErrUnsortedBeats, i, beats[i], beats[i-1])
		}
		ibi[i-1] = float64(beats[i]-beats[i-1]) / fs
		times[i-1] = float64(beats[i]) / fs
	}

	mean := stat.Mean(ibi, nil)
	variance := stat.PopVariance(ibi, nil)
	if variance < 0 {
		// compensated two-pass sum can land just below zero
		variance = 0
	}
	res := types.HRVResult{
		IBI:      ibi,
		IBITimes: times,
		HRV:      math.Sqrt(variance),
		MeanIBI:  mean,
		RMSSD:    RMSSD(ibi),
	}
	if mean > 0 {
		res.MeanHeartRate = 60 / mean
	}
	return res, nil
}

// RMSSD is the root mean square of successive IBI differences. It is 0 for fewer than two
// intervals.
func RMSSD(ibi types.IBISeries) float64 {
	if len(ibi) < 2 {
		return 0
	}
	var acc float64
	for i := 1; i < len(ibi); i++ {
		d := ibi[i] - ibi[i-1]
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(ibi)-1))
}
