// Package bandpower estimates the power in two frequency bands of a uniformly sampled series
// and reports the ratio of their mean powers.
package bandpower

import (
	"fmt"
	"math/cmplx"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Analyze computes the power spectrum of sig sampled at fs and returns the ratio of the mean
// power inside low to the mean power inside high. Band bounds are inclusive.
func Analyze(sig types.Signal, fs float64, low, high types.FrequencyBand, opts ...Option) (types.BandPowerResult, error) {
	if len(sig) == 0 {
		return types.BandPowerResult{}, types.ErrEmptySignal
	}
	if fs <= 0 {
		return types.BandPowerResult{}, types.ErrInvalidSampleRate
	}
	for _, b := range []types.FrequencyBand{low, high} {
		if b.Low < 0 || b.High < b.Low {
			return types.BandPowerResult{}, fmt.Errorf("%w: [%g, %g]", types.ErrInvalidBand, b.Low, b.High)
		}
	}

	s := resolve(opts)
	var freqs, power []float64
	switch s.method {
	case MethodWelch:
		freqs, power = welch(sig, fs, s.nfft, s.noverlap)
	default:
		freqs, power = Periodogram(sig, fs)
	}

	res := types.BandPowerResult{
		Frequencies: freqs,
		Power:       power,
		LowBand:     low,
		HighBand:    high,
	}
	res.LowFrequency, res.LowPower = mask(freqs, power, low)
	res.HighFrequency, res.HighPower = mask(freqs, power, high)
	if len(res.LowPower) == 0 {
		return res, fmt.Errorf("%w: low band [%g, %g]", types.ErrEmptyBand, low.Low, low.High)
	}
	if len(res.HighPower) == 0 {
		return res, fmt.Errorf("%w: high band [%g, %g]", types.ErrEmptyBand, high.Low, high.High)
	}

	res.MeanLowPower = stat.Mean(res.LowPower, nil)
	res.MeanHighPower = stat.Mean(res.HighPower, nil)
	if res.MeanHighPower == 0 {
		return res, types.ErrZeroPower
	}
	res.Ratio = res.MeanLowPower / res.MeanHighPower
	return res, nil
}

// Periodogram returns the non-negative frequency axis k*fs/n and the squared magnitude of the
// real FFT of sig at each bin.
func Periodogram(sig types.Signal, fs float64) (freqs, power []float64) {
	n := len(sig)
	coeffs := fourier.NewFFT(n).Coefficients(nil, sig)
	freqs = make([]float64, len(coeffs))
	power = make([]float64, len(coeffs))
	for k, c := range coeffs {
		freqs[k] = float64(k) * fs / float64(n)
		m := cmplx.Abs(c)
		power[k] = m * m
	}
	return freqs, power
}

func welch(sig types.Signal, fs float64, nfft, noverlap int) (freqs, power []float64) {
	if nfft <= 0 || nfft > len(sig) {
		nfft = len(sig)
	}
	if noverlap < 0 || noverlap >= nfft {
		noverlap = nfft / 2
	}
	pxx, f := spectral.Pwelch(sig, fs, &spectral.PwelchOptions{
		NFFT:     nfft,
		Noverlap: noverlap,
		Window:   window.Hann,
		Pad:      nfft,
	})
	return f, pxx
}

func mask(freqs, power []float64, band types.FrequencyBand) (f, p []float64) {
	for i, v := range freqs {
		if band.Contains(v) {
			f = append(f, v)
			p = append(p, power[i])
		}
	}
	return f, p
}
