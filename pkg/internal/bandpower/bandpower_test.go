package bandpower_test

import (
	"errors"
	"math"
	"testing"

	"github.com/joeydtaylor/ecgflow/pkg/internal/bandpower"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

var (
	lf = types.FrequencyBand{Low: 0.04, High: 0.15}
	hf = types.FrequencyBand{Low: 0.15, High: 0.4}
)

func tones(n int, fs float64, parts map[float64]float64) types.Signal {
	sig := make(types.Signal, n)
	for i := range sig {
		tt := float64(i) / fs
		for f, a := range parts {
			sig[i] += a * math.Sin(2*math.Pi*f*tt)
		}
	}
	return sig
}

func TestAnalyze_LowDominant(t *testing.T) {
	sig := tones(1000, 10, map[float64]float64{0.1: 1, 0.3: 0.1})
	res, err := bandpower.Analyze(sig, 10, lf, hf)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if res.Ratio <= 1 {
		t.Fatalf("expected LF dominant ratio > 1, got %g", res.Ratio)
	}
	if len(res.Frequencies) != 501 || len(res.Power) != 501 {
		t.Fatalf("expected 501 bins, got %d/%d", len(res.Frequencies), len(res.Power))
	}
	for _, f := range res.LowFrequency {
		if f < lf.Low || f > lf.High {
			t.Fatalf("low band frequency %g outside band", f)
		}
	}
	// Bin spacing is 0.01 Hz, so 0.15 Hz falls in both inclusive bands.
	if res.LowFrequency[len(res.LowFrequency)-1] != 0.15 || res.HighFrequency[0] != 0.15 {
		t.Fatalf("expected shared edge bin at 0.15 Hz, got %v / %v", res.LowFrequency, res.HighFrequency)
	}
	if got := res.MeanLowPower / res.MeanHighPower; got != res.Ratio {
		t.Fatalf("ratio %g does not match means %g", res.Ratio, got)
	}
}

func TestAnalyze_ScaleInvariant(t *testing.T) {
	sig := tones(600, 10, map[float64]float64{0.08: 0.5, 0.25: 0.7})
	scaled := make(types.Signal, len(sig))
	for i, v := range sig {
		scaled[i] = 3 * v
	}
	a, err := bandpower.Analyze(sig, 10, lf, hf)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	b, err := bandpower.Analyze(scaled, 10, lf, hf)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if math.Abs(a.Ratio-b.Ratio) > 1e-9*a.Ratio {
		t.Fatalf("ratio changed under scaling: %g vs %g", a.Ratio, b.Ratio)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	if _, err := bandpower.Analyze(make(types.Signal, 600), 10, lf, hf); !errors.Is(err, types.ErrZeroPower) {
		t.Fatalf("expected ErrZeroPower, got %v", err)
	}
	// Ten samples at 10 Hz give 1 Hz bins: nothing falls inside LF.
	if _, err := bandpower.Analyze(tones(10, 10, map[float64]float64{1: 1}), 10, lf, hf); !errors.Is(err, types.ErrEmptyBand) {
		t.Fatalf("expected ErrEmptyBand, got %v", err)
	}
	if _, err := bandpower.Analyze(nil, 10, lf, hf); !errors.Is(err, types.ErrEmptySignal) {
		t.Fatalf("expected ErrEmptySignal, got %v", err)
	}
	if _, err := bandpower.Analyze(types.Signal{1}, 0, lf, hf); !errors.Is(err, types.ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}
	bad := types.FrequencyBand{Low: 0.4, High: 0.1}
	if _, err := bandpower.Analyze(types.Signal{1, 2}, 10, bad, hf); !errors.Is(err, types.ErrInvalidBand) {
		t.Fatalf("expected ErrInvalidBand, got %v", err)
	}
}

func TestPeriodogram_PeakAtTone(t *testing.T) {
	freqs, power := bandpower.Periodogram(tones(200, 10, map[float64]float64{1: 1}), 10)
	best := 0
	for k := range power {
		if power[k] > power[best] {
			best = k
		}
	}
	if math.Abs(freqs[best]-1) > 1e-12 {
		t.Fatalf("expected peak at 1 Hz, got %g", freqs[best])
	}
}

func TestAnalyze_Welch(t *testing.T) {
	sig := tones(3000, 10, map[float64]float64{0.1: 1, 0.3: 0.1})
	res, err := bandpower.Analyze(sig, 10, lf, hf, bandpower.WithWelch(1000, 500))
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if res.Ratio <= 1 {
		t.Fatalf("expected LF dominant ratio > 1, got %g", res.Ratio)
	}
	if len(res.Frequencies) != len(res.Power) {
		t.Fatalf("frequency axis and power differ in length: %d/%d", len(res.Frequencies), len(res.Power))
	}
}
