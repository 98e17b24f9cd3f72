// Package epoch cuts fixed-length windows around beats and averages them into a mean beat.
package epoch

import (
	"fmt"
	"math"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"gonum.org/v1/gonum/stat"
)

// Starts centers a window of count samples on each beat and keeps the starts whose window lies
// inside a signal of n samples. Index 0 is excluded as a start, and the window must end before n.
func Starts(beats types.BeatIndexSet, count, n int) []int {
	out := make([]int, 0, len(beats))
	for _, b := range beats {
		start := b - count/2
		if start > 0 && start+count < n {
			out = append(out, start)
		}
	}
	return out
}

// Extract copies sig[start:start+count] for every start.
func Extract(sig types.Signal, starts []int, count int) ([]types.Signal, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: window of %d samples", types.ErrLengthMismatch, count)
	}
	trials := make([]types.Signal, 0, len(starts))
	for _, s := range starts {
		if s < 0 || s+count > len(sig) {
			return nil, fmt.Errorf("%w: window [%d, %d) outside %d samples", types.ErrLengthMismatch, s, s+count, len(sig))
		}
		trials = append(trials, sig[s:s+count].Clone())
	}
	return trials, nil
}

// Average returns the per-sample mean and population standard deviation across trials, with a
// time axis i/fs relative to the window start.
func Average(trials []types.Signal, fs float64) (types.EnsembleAverage, error) {
	if fs <= 0 {
		return types.EnsembleAverage{}, types.ErrInvalidSampleRate
	}
	if len(trials) == 0 {
		return types.EnsembleAverage{}, types.ErrNoTrials
	}
	width := len(trials[0])
	for i, tr := range trials {
		if len(tr) != width {
			return types.EnsembleAverage{}, fmt.Errorf("%w: trial %d has %d samples, want %d", types.ErrLengthMismatch, i, len(tr), width)
		}
	}

	avg := types.EnsembleAverage{
		Time:   make([]float64, width),
		Mean:   make([]float64, width),
		Std:    make([]float64, width),
		Trials: len(trials),
	}
	column := make([]float64, len(trials))
	for j := 0; j < width; j++ {
		for i, tr := range trials {
			column[i] = tr[j]
		}
		avg.Time[j] = float64(j) / fs
		avg.Mean[j] = stat.Mean(column, nil)
		avg.Std[j] = math.Sqrt(stat.PopVariance(column, nil))
	}
	return avg, nil
}

// MeanBeat runs Starts, Extract and Average for windows of seconds around each beat.
func MeanBeat(sig types.Signal, beats types.BeatIndexSet, fs, seconds float64) (types.EnsembleAverage, error) {
	if fs <= 0 {
		return types.EnsembleAverage{}, types.ErrInvalidSampleRate
	}
	count := int(seconds * fs)
	trials, err := Extract(sig, Starts(beats, count, len(sig)), count)
	if err != nil {
		return types.EnsembleAverage{}, err
	}
	return Average(trials, fs)
}
