package hrv_test

import (
	"errors"
	"math"
	"testing"

	"github.com/joeydtaylor/ecgflow/pkg/internal/hrv"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCompute_RegularBeats(t *testing.T) {
	res, err := hrv.Compute(types.BeatIndexSet{100, 600, 1100}, 500)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if len(res.IBI) != 2 || res.IBI[0] != 1 || res.IBI[1] != 1 {
		t.Fatalf("expected IBI [1 1], got %v", res.IBI)
	}
	if res.HRV != 0 {
		t.Fatalf("expected HRV 0, got %g", res.HRV)
	}
	if !near(res.MeanHeartRate, 60) {
		t.Fatalf("expected 60 bpm, got %g", res.MeanHeartRate)
	}
	if !near(res.IBITimes[0], 1.2) || !near(res.IBITimes[1], 2.2) {
		t.Fatalf("unexpected IBI times %v", res.IBITimes)
	}
	if res.RMSSD != 0 {
		t.Fatalf("expected RMSSD 0, got %g", res.RMSSD)
	}
}

func TestCompute_EqualSpacingIsExactlyZero(t *testing.T) {
	cases := []struct {
		fs      float64
		spacing int
	}{
		{500, 375},
		{500, 250},
		{360, 270},
		{256, 192},
	}
	for _, tc := range cases {
		beats := types.BeatIndexSet{37}
		for i := 1; i < 5; i++ {
			beats = append(beats, 37+i*tc.spacing)
		}
		res, err := hrv.Compute(beats, tc.fs)
		if err != nil {
			t.Fatalf("fs=%g: Compute error: %v", tc.fs, err)
		}
		want := float64(tc.spacing) / tc.fs
		for i, v := range res.IBI {
			if v != want {
				t.Fatalf("fs=%g: IBI[%d]=%v, want %v", tc.fs, i, v, want)
			}
		}
		if res.HRV != 0 || res.RMSSD != 0 {
			t.Fatalf("fs=%g: expected exact zero, got hrv=%g rmssd=%g", tc.fs, res.HRV, res.RMSSD)
		}
	}
}

func TestCompute_PopulationStd(t *testing.T) {
	// IBIs 0.8 and 1.2 s: mean 1.0, population std 0.2.
	res, err := hrv.Compute(types.BeatIndexSet{0, 400, 1000}, 500)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if !near(res.HRV, 0.2) {
		t.Fatalf("expected population std 0.2, got %g", res.HRV)
	}
	if !near(res.MeanIBI, 1) {
		t.Fatalf("expected mean IBI 1, got %g", res.MeanIBI)
	}
	if !near(res.RMSSD, 0.4) {
		t.Fatalf("expected RMSSD 0.4, got %g", res.RMSSD)
	}
}

func TestCompute_SingleInterval(t *testing.T) {
	res, err := hrv.Compute(types.BeatIndexSet{10, 260}, 500)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if len(res.IBI) != 1 || !near(res.IBI[0], 0.5) || res.HRV != 0 || res.RMSSD != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCompute_Errors(t *testing.T) {
	if _, err := hrv.Compute(types.BeatIndexSet{5}, 500); !errors.Is(err, types.ErrInsufficientBeats) {
		t.Fatalf("expected ErrInsufficientBeats, got %v", err)
	}
	if _, err := hrv.Compute(nil, 500); !errors.Is(err, types.ErrInsufficientBeats) {
		t.Fatalf("expected ErrInsufficientBeats, got %v", err)
	}
	if _, err := hrv.Compute(types.BeatIndexSet{5, 5}, 500); !errors.Is(err, types.ErrUnsortedBeats) {
		t.Fatalf("expected ErrUnsortedBeats, got %v", err)
	}
	if _, err := hrv.Compute(types.BeatIndexSet{1, 2}, 0); !errors.Is(err, types.ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}
}
