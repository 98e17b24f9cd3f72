// Package beats locates heartbeats in a filtered ECG trace as local maxima above a height.
package beats

import (
	"math"
	"sort"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// Find returns the ascending indices of local maxima in sig whose value is strictly greater
// than height. With WithFlipped the search runs on the negated signal. A flat top is reported
// once, at its first sample, when both sides of the plateau are lower. The first and last
// samples are never beats.
func Find(sig types.Signal, fs, height float64, opts ...Option) (types.BeatIndexSet, error) {
	if fs <= 0 {
		return nil, types.ErrInvalidSampleRate
	}
	s := resolve(opts)

	value := func(i int) float64 {
		if s.flipped {
			return -sig[i]
		}
		return sig[i]
	}

	peaks := types.BeatIndexSet{}
	n := len(sig)
	for i := 1; i < n-1; {
		v := value(i)
		if !(value(i-1) < v) {
			i++
			continue
		}
		// Walk across a plateau.
		j := i + 1
		for j < n-1 && value(j) == v {
			j++
		}
		if value(j) < v && v > height {
			peaks = append(peaks, i)
		}
		i = j
	}

	if s.minDistance > 0 && len(peaks) > 1 {
		dist := int(math.Ceil(s.minDistance * fs))
		peaks = selectByDistance(peaks, dist, value)
	}
	return peaks, nil
}

// selectByDistance keeps the highest peaks and removes any lower peak within dist samples of
// one already kept. Equal heights keep the earlier peak.
func selectByDistance(peaks types.BeatIndexSet, dist int, value func(int) float64) types.BeatIndexSet {
	if dist <= 1 {
		return peaks
	}
	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return value(peaks[order[a]]) > value(peaks[order[b]])
	})

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}
	for _, k := range order {
		if !keep[k] {
			continue
		}
		for j := k - 1; j >= 0 && peaks[k]-peaks[j] < dist; j-- {
			keep[j] = false
		}
		for j := k + 1; j < len(peaks) && peaks[j]-peaks[k] < dist; j++ {
			keep[j] = false
		}
	}

	out := make(types.BeatIndexSet, 0, len(peaks))
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// Markers pairs each beat with its time and the unflipped signal value, ready for plotting.
func Markers(sig types.Signal, fs float64, beats types.BeatIndexSet) ([]types.Marker, error) {
	if fs <= 0 {
		return nil, types.ErrInvalidSampleRate
	}
	out := make([]types.Marker, 0, len(beats))
	for _, b := range beats {
		if b < 0 || b >= len(sig) {
			return nil, types.ErrLengthMismatch
		}
		out = append(out, types.Marker{Time: float64(b) / fs, Value: sig[b]})
	}
	return out, nil
}
