// Package fir designs linear-phase band-pass filters and applies them with centered
// ("same") convolution.
package fir

import (
	"fmt"
	"math"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// DesignBandPass returns numtaps Hann-windowed sinc taps passing [low, high] Hz at sampling rate
// fs. numtaps must be odd (Type-I). The taps are scaled to unit gain at the passband center.
func DesignBandPass(low, high float64, numtaps int, fs float64) (types.ImpulseResponse, error) {
	if fs <= 0 {
		return nil, types.ErrInvalidSampleRate
	}
	if numtaps < 3 || numtaps%2 == 0 {
		return nil, fmt.Errorf("%w: numtaps must be odd and >= 3, got %d", types.ErrInvalidTaps, numtaps)
	}
	nyq := fs / 2
	if !(low > 0 && low < high && high < nyq) {
		return nil, fmt.Errorf("%w: need 0 < low < high < %g, got [%g, %g]", types.ErrInvalidBand, nyq, low, high)
	}

	// Cutoffs as a fraction of Nyquist.
	left, right := low/nyq, high/nyq
	alpha := 0.5 * float64(numtaps-1)

	h := make([]float64, numtaps)
	m := make([]float64, numtaps)
	for i := range h {
		m[i] = float64(i) - alpha
		h[i] = right*sinc(right*m[i]) - left*sinc(left*m[i])
	}

	win := window.Hann(numtaps)
	floats.Mul(h, win)

	center := 0.5 * (left + right)
	c := make([]float64, numtaps)
	for i := range c {
		c[i] = math.Cos(math.Pi * m[i] * center)
	}
	gain := floats.Dot(h, c)
	if gain == 0 {
		return nil, fmt.Errorf("%w: zero passband gain", types.ErrInvalidTaps)
	}
	floats.Scale(1/gain, h)

	return types.ImpulseResponse(h), nil
}

// sinc is the normalized sinc, sin(pi x)/(pi x).
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
