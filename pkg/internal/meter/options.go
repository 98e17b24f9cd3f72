package meter

import (
	"time"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// WithLogger adds loggers to the Meter for outputting logs.
func WithLogger(loggers ...types.Logger) types.Option[*Meter] {
	return func(m *Meter) {
		m.ConnectLogger(loggers...)
	}
}

// WithComponentMetadata sets the component metadata for the Meter.
func WithComponentMetadata(name string, id string) types.Option[*Meter] {
	return func(m *Meter) {
		m.SetComponentMetadata(name, id)
	}
}

// WithHostStats toggles CPU and RAM sampling in snapshots.
func WithHostStats(enabled bool) types.Option[*Meter] {
	return func(m *Meter) {
		m.hostStats = enabled
	}
}

// WithCPUSampleInterval sets the window cpu.Percent averages over. Zero compares against the
// previous call and never blocks.
func WithCPUSampleInterval(d time.Duration) types.Option[*Meter] {
	return func(m *Meter) {
		if d >= 0 {
			m.cpuInterval = d
		}
	}
}

// WithInitialMetricCount sets an initial count for a specific metric.
func WithInitialMetricCount(metricName string, count uint64) types.Option[*Meter] {
	return func(m *Meter) {
		m.AddCount(metricName, count)
	}
}
