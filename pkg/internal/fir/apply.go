package fir

import (
	"math/cmplx"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"github.com/mjibson/go-dsp/fft"
)

// Apply convolves sig with ir and keeps the centered len(sig) samples, so output index i aligns
// with input index i. The first and last len(ir)/2 samples carry edge transients.
func Apply(sig types.Signal, ir types.ImpulseResponse) (types.Signal, error) {
	if len(ir) == 0 {
		return nil, types.ErrInvalidTaps
	}
	if len(sig) == 0 {
		return nil, types.ErrEmptySignal
	}

	n, m := len(sig), len(ir)
	offset := (m - 1) / 2
	out := make(types.Signal, n)
	for i := range out {
		k := i + offset
		lo := k - (n - 1)
		if lo < 0 {
			lo = 0
		}
		hi := k
		if hi > m-1 {
			hi = m - 1
		}
		var acc float64
		for j := lo; j <= hi; j++ {
			acc += sig[k-j] * ir[j]
		}
		out[i] = acc
	}
	return out, nil
}

// Response returns the magnitude of the taps' DFT on the non-negative frequency axis.
func Response(ir types.ImpulseResponse, fs float64) (types.FrequencyResponse, error) {
	if len(ir) == 0 {
		return types.FrequencyResponse{}, types.ErrInvalidTaps
	}
	if fs <= 0 {
		return types.FrequencyResponse{}, types.ErrInvalidSampleRate
	}

	spectrum := fft.FFTReal(ir)
	bins := len(ir)/2 + 1
	resp := types.FrequencyResponse{
		Frequencies: make([]float64, bins),
		Magnitude:   make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		resp.Frequencies[k] = float64(k) * fs / float64(len(ir))
		resp.Magnitude[k] = cmplx.Abs(spectrum[k])
	}
	return resp, nil
}
