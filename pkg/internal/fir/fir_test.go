package fir_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/joeydtaylor/ecgflow/pkg/internal/fir"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// gainAt evaluates |H(f)| of a symmetric (Type-I) filter.
func gainAt(h types.ImpulseResponse, f, fs float64) float64 {
	alpha := 0.5 * float64(len(h)-1)
	var re float64
	for i, v := range h {
		re += v * math.Cos(2*math.Pi*f/fs*(float64(i)-alpha))
	}
	return math.Abs(re)
}

func TestDesignBandPass_ShapeAndGain(t *testing.T) {
	h, err := fir.DesignBandPass(0.67, 40, 501, 500)
	if err != nil {
		t.Fatalf("DesignBandPass error: %v", err)
	}
	if len(h) != 501 {
		t.Fatalf("expected 501 taps, got %d", len(h))
	}
	for i := 0; i < len(h)/2; i++ {
		if math.Abs(h[i]-h[len(h)-1-i]) > 1e-12 {
			t.Fatalf("taps not symmetric at %d: %g vs %g", i, h[i], h[len(h)-1-i])
		}
	}
	if math.Abs(h[0]) > 1e-12 || math.Abs(h[len(h)-1]) > 1e-12 {
		t.Fatalf("Hann window should zero the end taps, got %g %g", h[0], h[len(h)-1])
	}
	if g := gainAt(h, (0.67+40)/2, 500); math.Abs(g-1) > 1e-9 {
		t.Fatalf("expected unit gain at band center, got %g", g)
	}
}

func TestDesignBandPass_RejectsOutOfBand(t *testing.T) {
	h, err := fir.DesignBandPass(50, 150, 101, 1000)
	if err != nil {
		t.Fatalf("DesignBandPass error: %v", err)
	}
	if g := gainAt(h, 0, 1000); g > 0.05 {
		t.Fatalf("expected DC rejected, gain %g", g)
	}
	if g := gainAt(h, 400, 1000); g > 0.05 {
		t.Fatalf("expected 400 Hz rejected, gain %g", g)
	}
	if g := gainAt(h, 100, 1000); math.Abs(g-1) > 0.01 {
		t.Fatalf("expected passband gain near 1, got %g", g)
	}
}

func TestDesignBandPass_Errors(t *testing.T) {
	cases := []struct {
		name    string
		low     float64
		high    float64
		taps    int
		fs      float64
		wantErr error
	}{
		{"even taps", 1, 40, 500, 500, types.ErrInvalidTaps},
		{"too few taps", 1, 40, 1, 500, types.ErrInvalidTaps},
		{"low above high", 40, 1, 501, 500, types.ErrInvalidBand},
		{"zero low", 0, 40, 501, 500, types.ErrInvalidBand},
		{"high at nyquist", 1, 250, 501, 500, types.ErrInvalidBand},
		{"bad fs", 1, 40, 501, 0, types.ErrInvalidSampleRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fir.DesignBandPass(tc.low, tc.high, tc.taps, tc.fs)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestApply_SameConvolution(t *testing.T) {
	cases := []struct {
		name string
		sig  types.Signal
		ir   types.ImpulseResponse
		want types.Signal
	}{
		{"identity", types.Signal{1, 2, 3, 4}, types.ImpulseResponse{1}, types.Signal{1, 2, 3, 4}},
		{"centered identity", types.Signal{1, 2, 3, 4}, types.ImpulseResponse{0, 1, 0}, types.Signal{1, 2, 3, 4}},
		{"shift", types.Signal{1, 2, 3, 4}, types.ImpulseResponse{1, 0, 0}, types.Signal{2, 3, 4, 0}},
		{"even taps", types.Signal{1, 2, 3}, types.ImpulseResponse{1, 1}, types.Signal{1, 3, 5}},
		{"taps longer than signal", types.Signal{1, 2}, types.ImpulseResponse{1, 1, 1}, types.Signal{3, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fir.Apply(tc.sig, tc.ir)
			if err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestApply_LengthInvariant(t *testing.T) {
	sig := make(types.Signal, 37)
	for i := range sig {
		sig[i] = math.Sin(float64(i))
	}
	for _, m := range []int{1, 2, 5, 36, 37, 80} {
		ir := make(types.ImpulseResponse, m)
		ir[0] = 1
		out, err := fir.Apply(sig, ir)
		if err != nil {
			t.Fatalf("Apply error: %v", err)
		}
		if len(out) != len(sig) {
			t.Fatalf("taps=%d: expected length %d, got %d", m, len(sig), len(out))
		}
	}
}

func TestApply_Errors(t *testing.T) {
	if _, err := fir.Apply(types.Signal{1}, nil); !errors.Is(err, types.ErrInvalidTaps) {
		t.Fatalf("expected ErrInvalidTaps, got %v", err)
	}
	if _, err := fir.Apply(nil, types.ImpulseResponse{1}); !errors.Is(err, types.ErrEmptySignal) {
		t.Fatalf("expected ErrEmptySignal, got %v", err)
	}
}

func TestApply_AttenuatesStopband(t *testing.T) {
	const fs = 1000.0
	h, err := fir.DesignBandPass(50, 150, 101, fs)
	if err != nil {
		t.Fatalf("DesignBandPass error: %v", err)
	}
	n := 4000
	pass := make(types.Signal, n)
	stop := make(types.Signal, n)
	for i := range pass {
		tt := float64(i) / fs
		pass[i] = math.Sin(2 * math.Pi * 100 * tt)
		stop[i] = math.Sin(2 * math.Pi * 400 * tt)
	}
	fp, _ := fir.Apply(pass, h)
	fsig, _ := fir.Apply(stop, h)

	rms := func(s types.Signal) float64 {
		var acc float64
		for _, v := range s[len(h) : len(s)-len(h)] {
			acc += v * v
		}
		return math.Sqrt(acc / float64(len(s)-2*len(h)))
	}
	if r := rms(fp); math.Abs(r-math.Sqrt2/2) > 0.02 {
		t.Fatalf("passband tone RMS %g, expected ~0.707", r)
	}
	if r := rms(fsig); r > 0.05 {
		t.Fatalf("stopband tone RMS %g, expected near zero", r)
	}
}

func TestResponse(t *testing.T) {
	resp, err := fir.Response(types.ImpulseResponse{1}, 500)
	if err != nil {
		t.Fatalf("Response error: %v", err)
	}
	if len(resp.Frequencies) != 1 || math.Abs(resp.Magnitude[0]-1) > 1e-12 {
		t.Fatalf("unexpected response for unit impulse: %+v", resp)
	}

	h, _ := fir.DesignBandPass(50, 150, 101, 1000)
	resp, err = fir.Response(h, 1000)
	if err != nil {
		t.Fatalf("Response error: %v", err)
	}
	if len(resp.Frequencies) != 51 || len(resp.Magnitude) != 51 {
		t.Fatalf("expected 51 bins, got %d/%d", len(resp.Frequencies), len(resp.Magnitude))
	}
	// 101 taps at 1 kHz: bin spacing is 1000/101 Hz, bin 10 is ~99 Hz.
	if math.Abs(resp.Magnitude[10]-1) > 0.02 {
		t.Fatalf("expected passband magnitude near 1, got %g", resp.Magnitude[10])
	}
	if resp.Magnitude[0] > 0.05 {
		t.Fatalf("expected DC rejected, got %g", resp.Magnitude[0])
	}

	if _, err := fir.Response(nil, 1000); !errors.Is(err, types.ErrInvalidTaps) {
		t.Fatalf("expected ErrInvalidTaps, got %v", err)
	}
}
