// Package resample puts an irregularly timed series onto a uniform time grid.
package resample

import (
	"fmt"
	"math"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"gonum.org/v1/gonum/interp"
)

// Grid returns 0, step, 2*step, ... strictly below duration.
func Grid(duration, step float64) []float64 {
	if duration <= 0 || step <= 0 {
		return nil
	}
	n := int(math.Ceil(duration / step))
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}

// Uniform linearly interpolates values known at times onto Grid(duration, step). Points before
// the first knot take the first value and points after the last knot take the last value. It
// returns the series and its sampling rate 1/step.
func Uniform(times, values []float64, duration, step float64) (types.Signal, float64, error) {
	if step <= 0 || duration <= 0 {
		return nil, 0, fmt.Errorf("%w: step %g, duration %g", types.ErrInvalidSampleRate, step, duration)
	}
	if len(times) != len(values) {
		return nil, 0, fmt.Errorf("%w: %d times, %d values", types.ErrLengthMismatch, len(times), len(values))
	}
	if len(times) == 0 {
		return nil, 0, types.ErrEmptySignal
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, 0, fmt.Errorf("%w: time %d", types.ErrUnsortedBeats, i)
		}
	}

	grid := Grid(duration, step)
	out := make(types.Signal, len(grid))
	if len(times) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out, 1 / step, nil
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(times, values); err != nil {
		return nil, 0, err
	}
	for i, x := range grid {
		out[i] = pl.Predict(x)
	}
	return out, 1 / step, nil
}
