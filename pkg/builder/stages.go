package builder

import (
	"github.com/joeydtaylor/ecgflow/pkg/internal/bandpower"
	"github.com/joeydtaylor/ecgflow/pkg/internal/beats"
	"github.com/joeydtaylor/ecgflow/pkg/internal/despike"
	"github.com/joeydtaylor/ecgflow/pkg/internal/epoch"
	"github.com/joeydtaylor/ecgflow/pkg/internal/fir"
	"github.com/joeydtaylor/ecgflow/pkg/internal/hrv"
	"github.com/joeydtaylor/ecgflow/pkg/internal/resample"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

type (
	Signal            = types.Signal
	NamedSignalSet    = types.NamedSignalSet
	ImpulseResponse   = types.ImpulseResponse
	FrequencyResponse = types.FrequencyResponse
	BeatIndexSet      = types.BeatIndexSet
	IBISeries         = types.IBISeries
	FrequencyBand     = types.FrequencyBand
	Marker            = types.Marker
	HRVResult         = types.HRVResult
	BandPowerResult   = types.BandPowerResult
	EnsembleAverage   = types.EnsembleAverage
	SpikeReport       = despike.Report
)

// Sentinel errors returned by the stages.
var (
	ErrEmptySignal       = types.ErrEmptySignal
	ErrInvalidSampleRate = types.ErrInvalidSampleRate
	ErrInvalidTaps       = types.ErrInvalidTaps
	ErrInvalidBand       = types.ErrInvalidBand
	ErrInsufficientBeats = types.ErrInsufficientBeats
	ErrUnsortedBeats     = types.ErrUnsortedBeats
	ErrLengthMismatch    = types.ErrLengthMismatch
	ErrEmptyBand         = types.ErrEmptyBand
	ErrZeroPower         = types.ErrZeroPower
	ErrNoTrials          = types.ErrNoTrials
)

// RemoveSpikes replaces samples above threshold with the mean of their neighbors in every
// signal of set. boundary is "clamp" or "skip"; mode is "sequential" or "independent".
func RemoveSpikes(set types.NamedSignalSet, fs, threshold float64, boundary, mode string) (types.NamedSignalSet, despike.Report, error) {
	return despike.RemoveSpikes(set, fs, threshold,
		despike.WithBoundary(despike.ParseBoundary(boundary)),
		despike.WithMode(despike.ParseMode(mode)),
	)
}

// DesignBandPass returns Hann-windowed band-pass taps.
func DesignBandPass(low, high float64, numtaps int, fs float64) (types.ImpulseResponse, error) {
	return fir.DesignBandPass(low, high, numtaps, fs)
}

// ApplyFilter convolves sig with ir and keeps the centered input-length part.
func ApplyFilter(sig types.Signal, ir types.ImpulseResponse) (types.Signal, error) {
	return fir.Apply(sig, ir)
}

// FilterResponse returns the magnitude response of ir.
func FilterResponse(ir types.ImpulseResponse, fs float64) (types.FrequencyResponse, error) {
	return fir.Response(ir, fs)
}

// FindBeats returns strict local maxima above height. flipped searches the negated signal;
// minDistance in seconds suppresses the smaller of close peaks (0 disables).
func FindBeats(sig types.Signal, fs, height float64, flipped bool, minDistance float64) (types.BeatIndexSet, error) {
	return beats.Find(sig, fs, height, beats.WithFlipped(flipped), beats.WithMinDistance(minDistance))
}

// BeatMarkers converts beats into time/value points for plotting.
func BeatMarkers(sig types.Signal, fs float64, b types.BeatIndexSet) ([]types.Marker, error) {
	return beats.Markers(sig, fs, b)
}

// ComputeHRV derives IBIs and their population standard deviation.
func ComputeHRV(b types.BeatIndexSet, fs float64) (types.HRVResult, error) {
	return hrv.Compute(b, fs)
}

// ResampleUniform interpolates an irregular series onto an evenly spaced grid.
func ResampleUniform(times, values []float64, duration, step float64) (types.Signal, float64, error) {
	return resample.Uniform(times, values, duration, step)
}

// BandPowerRatio returns the LF/HF ratio from the periodogram, or from Welch's method when
// welchNFFT > 0.
func BandPowerRatio(sig types.Signal, fs float64, low, high types.FrequencyBand, welchNFFT int) (types.BandPowerResult, error) {
	var opts []bandpower.Option
	if welchNFFT > 0 {
		opts = append(opts, bandpower.WithWelch(welchNFFT, welchNFFT/2))
	}
	return bandpower.Analyze(sig, fs, low, high, opts...)
}

// MeanBeat averages windows of seconds centered on each beat.
func MeanBeat(sig types.Signal, b types.BeatIndexSet, fs, seconds float64) (types.EnsembleAverage, error) {
	return epoch.MeanBeat(sig, b, fs, seconds)
}
