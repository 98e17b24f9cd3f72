// Package despike removes artifact spikes from raw sensor traces. A sample whose value exceeds
// the threshold is replaced by the mean of its immediate neighbors.
package despike

import "github.com/joeydtaylor/ecgflow/pkg/internal/types"

// Report lists the corrected sample indices per recording.
type Report struct {
	Indices map[string][]int
	Times   map[string][]float64 // Indices converted to seconds.
}

// Total returns the number of corrected samples across all recordings.
func (r Report) Total() int {
	n := 0
	for _, idx := range r.Indices {
		n += len(idx)
	}
	return n
}

// RemoveSpikes returns a cleaned copy of every signal in set. The input set is not modified.
func RemoveSpikes(set types.NamedSignalSet, fs, threshold float64, opts ...Option) (types.NamedSignalSet, Report, error) {
	if fs <= 0 {
		return nil, Report{}, types.ErrInvalidSampleRate
	}
	out := make(types.NamedSignalSet, len(set))
	rep := Report{
		Indices: make(map[string][]int, len(set)),
		Times:   make(map[string][]float64, len(set)),
	}
	for name, sig := range set {
		clean, idx := RemoveSpikesSignal(sig, threshold, opts...)
		out[name] = clean
		rep.Indices[name] = idx
		times := make([]float64, len(idx))
		for i, v := range idx {
			times[i] = float64(v) / fs
		}
		rep.Times[name] = times
	}
	return out, rep, nil
}

// RemoveSpikesSignal cleans one signal and returns the corrected copy with the indices that
// exceeded threshold, in ascending order. Boundary spikes left alone by BoundarySkip are not
// reported.
func RemoveSpikesSignal(sig types.Signal, threshold float64, opts ...Option) (types.Signal, []int) {
	if len(sig) == 0 {
		return types.Signal{}, nil
	}
	s := resolve(opts)

	work := sig.Clone()
	src := work
	if s.mode == ModeIndependent {
		src = sig
	}

	last := len(work) - 1
	var corrected []int
	for i := range work {
		if sig[i] <= threshold {
			continue
		}
		switch {
		case last == 0:
			// A lone sample has no neighbor to borrow from.
			continue
		case i == 0:
			if s.boundary == BoundarySkip {
				continue
			}
			work[i] = src[1]
		case i == last:
			if s.boundary == BoundarySkip {
				continue
			}
			work[i] = src[last-1]
		default:
			work[i] = (src[i-1] + src[i+1]) / 2
		}
		corrected = append(corrected, i)
	}
	return work, corrected
}
