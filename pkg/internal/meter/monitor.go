package meter

import (
	"context"
	"sort"
	"time"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

const defaultUpdateInterval = 5 * time.Second

// Monitor logs a snapshot every interval until ctx is done, then logs a final one.
func (m *Meter) Monitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultUpdateInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.LogSnapshot("MeterFinal")
			return
		case <-ticker.C:
			m.LogSnapshot("MeterTick")
		}
	}
}

// LogSnapshot takes a snapshot and emits it at info level with one field per counter.
func (m *Meter) LogSnapshot(event string) types.MeterSnapshot {
	snap := m.Snapshot()

	names := make([]string, 0, len(snap.Counts))
	for name := range snap.Counts {
		names = append(names, name)
	}
	sort.Strings(names)

	kv := []interface{}{
		"component", m.componentMetadata,
		"event", event,
		"elapsed", snap.Elapsed,
		types.MetricCurrentCpuPercentage, snap.CPUPercent,
		types.MetricCurrentRamPercentage, snap.RAMPercent,
	}
	for _, name := range names {
		kv = append(kv, name, snap.Counts[name])
	}
	m.NotifyLoggers(types.InfoLevel, "Meter snapshot", kv...)
	return snap
}
