package meter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

type stubLogger struct {
	level       types.LogLevel
	infoCount   int32
	debugCount  int32
	warnCount   int32
	errorCount  int32
	panicCount  int32
	mu          sync.Mutex
	lastMessage string
	lastFields  []interface{}
}

func (s *stubLogger) GetLevel() types.LogLevel {
	return s.level
}

func (s *stubLogger) SetLevel(level types.LogLevel) {
	s.level = level
}

func (s *stubLogger) Debug(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.debugCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Info(msg string, kv ...interface{}) {
	atomic.AddInt32(&s.infoCount, 1)
	s.mu.Lock()
	s.lastMessage = msg
	s.lastFields = kv
	s.mu.Unlock()
}

func (s *stubLogger) Warn(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.warnCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Error(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.errorCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) DPanic(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.panicCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Panic(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.panicCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Fatal(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.panicCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Flush() error { return nil }

func (s *stubLogger) AddSink(string, types.SinkConfig) error { return nil }

func (s *stubLogger) RemoveSink(string) error { return nil }

func (s *stubLogger) ListSinks() ([]string, error) { return nil, nil }

func TestCountsAndStages(t *testing.T) {
	m := NewMeter(WithHostStats(false))

	m.IncrementCount(types.MetricRecordingsSubmitted)
	m.AddCount(types.MetricBeatsDetected, 41)
	m.IncrementCount("custom_metric")

	if got := m.GetMetricCount(types.MetricRecordingsSubmitted); got != 1 {
		t.Fatalf("expected 1 submitted, got %d", got)
	}
	if got := m.GetMetricCount(types.MetricBeatsDetected); got != 41 {
		t.Fatalf("expected 41 beats, got %d", got)
	}
	if got := m.GetMetricCount("unknown"); got != 0 {
		t.Fatalf("expected 0 for unknown metric, got %d", got)
	}

	m.ObserveStage("filter", 2*time.Millisecond)
	m.ObserveStage("filter", 3*time.Millisecond)
	if got := m.GetStageDuration("filter"); got != 5*time.Millisecond {
		t.Fatalf("expected 5ms, got %s", got)
	}

	snap := m.Snapshot()
	if snap.Counts["custom_metric"] != 1 || snap.StageDurations["filter"] != 5*time.Millisecond {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if _, ok := snap.Counts[types.MetricReportsPersisted]; !ok {
		t.Fatal("expected default metrics to be registered")
	}
	if snap.CPUPercent != 0 || snap.RAMPercent != 0 {
		t.Fatalf("host stats disabled, got cpu=%.2f ram=%.2f", snap.CPUPercent, snap.RAMPercent)
	}

	m.ResetMetrics()
	if got := m.GetMetricCount(types.MetricBeatsDetected); got != 0 {
		t.Fatalf("expected count reset to 0, got %d", got)
	}
	if got := m.GetStageDuration("filter"); got != 0 {
		t.Fatalf("expected stage reset, got %s", got)
	}
}

func TestConcurrentCounts(t *testing.T) {
	m := NewMeter(WithHostStats(false))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.IncrementCount(types.MetricSamplesProcessed)
				m.ObserveStage("beats", time.Microsecond)
			}
		}()
	}
	wg.Wait()
	if got := m.GetMetricCount(types.MetricSamplesProcessed); got != 1600 {
		t.Fatalf("expected 1600, got %d", got)
	}
	if got := m.GetStageDuration("beats"); got != 1600*time.Microsecond {
		t.Fatalf("expected 1.6ms, got %s", got)
	}
}

func TestSnapshotHostStats(t *testing.T) {
	m := NewMeter()
	snap := m.Snapshot()
	if snap.CPUPercent < 0 || snap.CPUPercent > 100 || snap.RAMPercent < 0 || snap.RAMPercent > 100 {
		t.Fatalf("host stats out of range: cpu=%.2f ram=%.2f", snap.CPUPercent, snap.RAMPercent)
	}
	if snap.Elapsed < 0 || snap.StartTime.IsZero() {
		t.Fatalf("unexpected clock %+v", snap)
	}
}

func TestOptions(t *testing.T) {
	log := &stubLogger{level: types.InfoLevel}
	m := NewMeter(
		WithComponentMetadata("run-meter", "m-1"),
		WithInitialMetricCount(types.MetricRecordingsFailed, 2),
		WithLogger(log),
		WithCPUSampleInterval(0),
	)
	meta := m.GetComponentMetadata()
	if meta.Name != "run-meter" || meta.ID != "m-1" || meta.Type != "METER" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if got := m.GetMetricCount(types.MetricRecordingsFailed); got != 2 {
		t.Fatalf("expected 2 failed, got %d", got)
	}
}

func TestNotifyLoggers(t *testing.T) {
	m := NewMeter(WithHostStats(false))
	log := &stubLogger{level: types.InfoLevel}
	m.ConnectLogger(log)

	m.NotifyLoggers(types.InfoLevel, "hello", "key", "value")
	if atomic.LoadInt32(&log.infoCount) != 1 {
		t.Fatalf("expected info log")
	}
	if log.lastMessage != "hello" {
		t.Fatalf("unexpected log message: %q", log.lastMessage)
	}

	m.NotifyLoggers(types.DebugLevel, "debug")
	if atomic.LoadInt32(&log.debugCount) != 0 {
		t.Fatalf("expected debug log to be skipped")
	}
}

func TestLogSnapshotFields(t *testing.T) {
	m := NewMeter(WithHostStats(false))
	log := &stubLogger{level: types.InfoLevel}
	m.ConnectLogger(log)
	m.AddCount(types.MetricBeatsDetected, 7)

	m.LogSnapshot("MeterFinal")

	log.mu.Lock()
	defer log.mu.Unlock()
	fields := map[string]interface{}{}
	for i := 0; i+1 < len(log.lastFields); i += 2 {
		fields[log.lastFields[i].(string)] = log.lastFields[i+1]
	}
	if fields["event"] != "MeterFinal" {
		t.Fatalf("unexpected event field %v", fields["event"])
	}
	if fields[types.MetricBeatsDetected] != uint64(7) {
		t.Fatalf("expected beats field 7, got %v", fields[types.MetricBeatsDetected])
	}
}

func TestMonitorStopsOnCancel(t *testing.T) {
	m := NewMeter(WithHostStats(false))
	log := &stubLogger{level: types.InfoLevel}
	m.ConnectLogger(log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Monitor(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not exit on cancel")
	}
	if atomic.LoadInt32(&log.infoCount) < 2 {
		t.Fatalf("expected periodic and final snapshots, got %d", log.infoCount)
	}
}
