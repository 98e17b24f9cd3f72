package pipeline_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/joeydtaylor/ecgflow/pkg/internal/meter"
	"github.com/joeydtaylor/ecgflow/pkg/internal/pipeline"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

type stubLogger struct {
	mu       sync.Mutex
	level    types.LogLevel
	messages map[types.LogLevel][]string
}

func newStubLogger(level types.LogLevel) *stubLogger {
	return &stubLogger{level: level, messages: make(map[types.LogLevel][]string)}
}

func (s *stubLogger) record(level types.LogLevel, msg string) {
	s.mu.Lock()
	s.messages[level] = append(s.messages[level], msg)
	s.mu.Unlock()
}

func (s *stubLogger) count(level types.LogLevel) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages[level])
}

func (s *stubLogger) GetLevel() types.LogLevel               { return s.level }
func (s *stubLogger) SetLevel(level types.LogLevel)          { s.level = level }
func (s *stubLogger) Debug(msg string, _ ...interface{})     { s.record(types.DebugLevel, msg) }
func (s *stubLogger) Info(msg string, _ ...interface{})      { s.record(types.InfoLevel, msg) }
func (s *stubLogger) Warn(msg string, _ ...interface{})      { s.record(types.WarnLevel, msg) }
func (s *stubLogger) Error(msg string, _ ...interface{})     { s.record(types.ErrorLevel, msg) }
func (s *stubLogger) DPanic(msg string, _ ...interface{})    { s.record(types.DPanicLevel, msg) }
func (s *stubLogger) Panic(msg string, _ ...interface{})     { s.record(types.PanicLevel, msg) }
func (s *stubLogger) Fatal(msg string, _ ...interface{})     { s.record(types.FatalLevel, msg) }
func (s *stubLogger) Flush() error                           { return nil }
func (s *stubLogger) AddSink(string, types.SinkConfig) error { return nil }
func (s *stubLogger) RemoveSink(string) error                { return nil }
func (s *stubLogger) ListSinks() ([]string, error)           { return nil, nil }

type captureSink struct {
	mu      sync.Mutex
	err     error
	reports []types.RecordingReport
}

func (c *captureSink) Name() string { return "capture" }

func (c *captureSink) Write(_ context.Context, reports []types.RecordingReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.reports = append(c.reports, reports...)
	return nil
}

const testFs = 500.0

// synthECG returns a zero-baseline trace in ADC counts with a Gaussian R wave at every
// programmed beat. The interval oscillates around meanIBI at 0.1 Hz.
func synthECG(seconds, meanIBI, swing float64) (types.Signal, []int) {
	n := int(seconds * testFs)
	sig := make(types.Signal, n)
	var beats []int
	for t := 0.5; t < seconds-0.5; t += meanIBI + swing*math.Sin(2*math.Pi*0.1*t) {
		beats = append(beats, int(math.Round(t*testFs)))
	}
	const sigma = 5.0
	for _, b := range beats {
		for i := b - 40; i <= b+40; i++ {
			if i < 0 || i >= n {
				continue
			}
			d := float64(i - b)
			sig[i] += 400 * math.Exp(-d*d/(2*sigma*sigma))
		}
	}
	return sig, beats
}

func testConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()
	cfg.SampleRate = testFs
	cfg.BeatFlipped = false
	cfg.BeatMinDistance = 0.3
	return cfg
}

func programmedHeartRate(beats []int) float64 {
	span := float64(beats[len(beats)-1]-beats[0]) / testFs
	return 60 / (span / float64(len(beats)-1))
}

func TestRun_SyntheticECG(t *testing.T) {
	fast, fastBeats := synthECG(60, 0.8, 0.05)
	slow, slowBeats := synthECG(60, 1.0, 0.05)
	fast[1200] = 5000

	m := meter.NewMeter(meter.WithHostStats(false))
	logger := newStubLogger(types.DebugLevel)
	p := pipeline.NewPipeline(
		pipeline.WithConfig(testConfig()),
		pipeline.WithMeter(m),
		pipeline.WithLogger(logger),
		pipeline.WithConcurrency(2),
	)

	res, err := p.Run(context.Background(), types.NamedSignalSet{"slow": slow, "fast": fast})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("expected a run ID")
	}
	if len(res.Filter) != testConfig().FilterTaps {
		t.Fatalf("expected %d taps, got %d", testConfig().FilterTaps, len(res.Filter))
	}
	if len(res.Reports) != 2 || res.Reports[0].Name != "fast" || res.Reports[1].Name != "slow" {
		t.Fatalf("expected reports sorted by name, got %+v", res.Reports)
	}

	for i, programmed := range [][]int{fastBeats, slowBeats} {
		rep := res.Reports[i]
		want := programmedHeartRate(programmed)
		if math.Abs(rep.MeanHeartRate-want) > 1 {
			t.Errorf("%s: expected heart rate %.2f, got %.2f", rep.Name, want, rep.MeanHeartRate)
		}
		if d := int(rep.Beats) - len(programmed); d < -1 || d > 1 {
			t.Errorf("%s: expected about %d beats, got %d", rep.Name, len(programmed), rep.Beats)
		}
		if rep.HRV < 0.02 || rep.HRV > 0.05 {
			t.Errorf("%s: HRV %.4f outside the programmed swing", rep.Name, rep.HRV)
		}
		if rep.LFHFRatio <= 1 {
			t.Errorf("%s: expected LF-dominant ratio, got %g", rep.Name, rep.LFHFRatio)
		}
		if rep.Samples != 30000 || rep.DurationSec != 60 {
			t.Errorf("%s: unexpected extent %d samples, %g s", rep.Name, rep.Samples, rep.DurationSec)
		}
	}

	fastRes := res.Recordings[0]
	if len(fastRes.SpikeIndex) != 1 || fastRes.SpikeIndex[0] != 1200 {
		t.Fatalf("expected spike at 1200, got %v", fastRes.SpikeIndex)
	}
	if fastRes.Despiked[1200] != 0 {
		t.Fatalf("expected spike replaced by neighbor mean, got %g", fastRes.Despiked[1200])
	}
	if len(fastRes.Filtered) != len(fastRes.Scaled) {
		t.Fatal("filtered length must match input length")
	}
	if len(fastRes.Markers) != len(fastRes.Beats) {
		t.Fatal("expected one marker per beat")
	}
	if fastRes.MeanBeat.Trials == 0 || len(fastRes.MeanBeat.Mean) != int(testFs) {
		t.Fatalf("expected a one-second mean beat, got %d samples from %d trials", len(fastRes.MeanBeat.Mean), fastRes.MeanBeat.Trials)
	}
	if fastRes.ResampleFs != 10 {
		t.Fatalf("expected 10 Hz resampling, got %g", fastRes.ResampleFs)
	}

	if got := m.GetMetricCount(types.MetricRecordingsProcessed); got != 2 {
		t.Fatalf("expected 2 processed, got %d", got)
	}
	if got := m.GetMetricCount(types.MetricSpikesCorrected); got != 1 {
		t.Fatalf("expected 1 spike counted, got %d", got)
	}
	if got := m.GetMetricCount(types.MetricSamplesProcessed); got != 60000 {
		t.Fatalf("expected 60000 samples, got %d", got)
	}
	if m.GetStageDuration(pipeline.StageFilter) <= 0 {
		t.Fatal("expected filter stage timing")
	}
	if res.Meter.Counts[types.MetricBeatsDetected] == 0 {
		t.Fatal("expected beat count in result snapshot")
	}
	if logger.count(types.InfoLevel) < 2 {
		t.Fatal("expected run start and completion to be logged")
	}
}

func TestRun_PersistsToSinks(t *testing.T) {
	sig, _ := synthECG(30, 0.8, 0.05)
	sink := &captureSink{}
	m := meter.NewMeter(meter.WithHostStats(false))
	p := pipeline.NewPipeline(
		pipeline.WithConfig(testConfig()),
		pipeline.WithSink(sink, nil),
		pipeline.WithMeter(m),
	)

	if _, err := p.Run(context.Background(), types.NamedSignalSet{"a": sig, "b": sig.Clone()}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.reports) != 2 || sink.reports[0].Name != "a" {
		t.Fatalf("expected two sorted reports in sink, got %+v", sink.reports)
	}
	if got := m.GetMetricCount(types.MetricReportsPersisted); got != 2 {
		t.Fatalf("expected 2 persisted, got %d", got)
	}
}

func TestRun_SinkErrorFailsRun(t *testing.T) {
	sig, _ := synthECG(30, 0.8, 0.05)
	boom := errors.New("boom")
	p := pipeline.NewPipeline(
		pipeline.WithConfig(testConfig()),
		pipeline.WithSink(&captureSink{err: boom}),
	)
	res, err := p.Run(context.Background(), types.NamedSignalSet{"a": sig})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if len(res.Reports) != 1 {
		t.Fatal("expected reports to be returned alongside the sink error")
	}
}

func TestRun_FailedRecordingFailsRun(t *testing.T) {
	sig, _ := synthECG(30, 0.8, 0.05)
	m := meter.NewMeter(meter.WithHostStats(false))
	logger := newStubLogger(types.InfoLevel)
	p := pipeline.NewPipeline(
		pipeline.WithConfig(testConfig()),
		pipeline.WithMeter(m),
		pipeline.WithLogger(logger),
		pipeline.WithConcurrency(1),
	)

	_, err := p.Run(context.Background(), types.NamedSignalSet{
		"good": sig,
		"flat": make(types.Signal, 15000),
	})
	if !errors.Is(err, types.ErrInsufficientBeats) {
		t.Fatalf("expected ErrInsufficientBeats, got %v", err)
	}
	if got := m.GetMetricCount(types.MetricRecordingsFailed); got != 1 {
		t.Fatalf("expected 1 failed recording, got %d", got)
	}
	if logger.count(types.ErrorLevel) == 0 {
		t.Fatal("expected failure to be logged")
	}
}

func TestRun_TruncateOverride(t *testing.T) {
	sig, _ := synthECG(60, 0.8, 0.05)
	cfg := testConfig()
	cfg.MaxDurationSec = 40
	cfg.Truncate = map[string]float64{"short": 20}
	p := pipeline.NewPipeline(pipeline.WithConfig(cfg))

	res, err := p.Run(context.Background(), types.NamedSignalSet{"short": sig, "long": sig.Clone()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reports[0].Name != "long" || res.Reports[0].DurationSec != 40 {
		t.Fatalf("expected long truncated to 40 s, got %+v", res.Reports[0])
	}
	if res.Reports[1].DurationSec != 20 {
		t.Fatalf("expected short truncated to 20 s, got %g", res.Reports[1].DurationSec)
	}
	if len(res.Recordings[1].Raw) != len(sig) {
		t.Fatal("raw series must be kept untruncated")
	}
}

func TestRun_Cancelled(t *testing.T) {
	sig, _ := synthECG(10, 0.8, 0.05)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := pipeline.NewPipeline(pipeline.WithConfig(testConfig()))
	if _, err := p.Run(ctx, types.NamedSignalSet{"a": sig}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_InvalidFilter(t *testing.T) {
	cfg := testConfig()
	cfg.FilterHigh = 300
	p := pipeline.NewPipeline(pipeline.WithConfig(cfg))
	if _, err := p.Run(context.Background(), types.NamedSignalSet{}); !errors.Is(err, types.ErrInvalidBand) {
		t.Fatalf("expected ErrInvalidBand, got %v", err)
	}
}

func TestRun_FreezesConfiguration(t *testing.T) {
	p := pipeline.NewPipeline(pipeline.WithConfig(testConfig()))
	if _, err := p.Run(context.Background(), types.NamedSignalSet{}); err != nil {
		t.Fatalf("Run on empty set: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected SetConfig after Run to panic")
		}
	}()
	p.SetConfig(types.DefaultPipelineConfig())
}

func TestOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Concurrency = 3
	p := pipeline.NewPipeline(
		nil,
		pipeline.WithConfig(cfg),
		pipeline.WithComponentMetadata("ecg", "id-1"),
	)

	meta := p.GetComponentMetadata()
	if meta.Name != "ecg" || meta.ID != "id-1" || meta.Type != "PIPELINE" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	got := p.GetConfig()
	if got.SampleRate != testFs || got.BeatFlipped {
		t.Fatalf("unexpected config %+v", got)
	}

	zero := pipeline.NewPipeline(pipeline.WithConfig(types.PipelineConfig{}))
	if zero.GetConfig().FilterTaps != types.DefaultPipelineConfig().FilterTaps {
		t.Fatal("expected zero fields to fall back to defaults")
	}
}

func TestWithConfig_ZeroValueSemantics(t *testing.T) {
	if !pipeline.NewPipeline().GetConfig().BeatFlipped {
		t.Fatal("expected the built-in config to detect flipped beats")
	}

	got := pipeline.NewPipeline(pipeline.WithConfig(types.PipelineConfig{})).GetConfig()
	d := types.DefaultPipelineConfig()
	if got.SpikeThreshold != d.SpikeThreshold || got.BeatHeight != d.BeatHeight {
		t.Fatalf("zero threshold and height should take defaults, got %g / %g", got.SpikeThreshold, got.BeatHeight)
	}
	if got.BeatFlipped {
		t.Fatal("BeatFlipped is a plain bool and must be taken as given")
	}

	cfg := types.DefaultPipelineConfig()
	cfg.SampleRate = 250
	if got := pipeline.NewPipeline(pipeline.WithConfig(cfg)).GetConfig(); !got.BeatFlipped || got.SampleRate != 250 {
		t.Fatalf("starting from DefaultPipelineConfig should keep flipping on, got %+v", got)
	}
}

func TestNotifyLoggers_RespectsLevel(t *testing.T) {
	logger := newStubLogger(types.WarnLevel)
	p := pipeline.NewPipeline(pipeline.WithLogger(logger, nil))

	p.NotifyLoggers(types.DebugLevel, "debug")
	p.NotifyLoggers(types.InfoLevel, "info")
	p.NotifyLoggers(types.WarnLevel, "warn")
	p.NotifyLoggers(types.ErrorLevel, "error")

	if logger.count(types.DebugLevel)+logger.count(types.InfoLevel) != 0 {
		t.Fatal("expected debug and info to be filtered")
	}
	if logger.count(types.WarnLevel) != 1 || logger.count(types.ErrorLevel) != 1 {
		t.Fatal("expected warn and error to pass")
	}
}
