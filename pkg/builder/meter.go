package builder

import (
	"time"

	"github.com/joeydtaylor/ecgflow/pkg/internal/meter"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

type Meter = meter.Meter

type MeterSnapshot = types.MeterSnapshot

// Metric names re-exported from the types package.
const (
	MetricRecordingsSubmitted  = types.MetricRecordingsSubmitted
	MetricRecordingsProcessed  = types.MetricRecordingsProcessed
	MetricRecordingsFailed     = types.MetricRecordingsFailed
	MetricSpikesCorrected      = types.MetricSpikesCorrected
	MetricBeatsDetected        = types.MetricBeatsDetected
	MetricSamplesProcessed     = types.MetricSamplesProcessed
	MetricReportsPersisted     = types.MetricReportsPersisted
	MetricCurrentCpuPercentage = types.MetricCurrentCpuPercentage
	MetricCurrentRamPercentage = types.MetricCurrentRamPercentage
)

// NewMeter creates a meter whose clock starts now.
func NewMeter(options ...types.Option[*meter.Meter]) *meter.Meter {
	return meter.NewMeter(options...)
}

// MeterWithLogger attaches loggers to the meter.
func MeterWithLogger(loggers ...types.Logger) types.Option[*meter.Meter] {
	return meter.WithLogger(loggers...)
}

// MeterWithComponentMetadata names the meter.
func MeterWithComponentMetadata(name string, id string) types.Option[*meter.Meter] {
	return meter.WithComponentMetadata(name, id)
}

// MeterWithHostStats toggles CPU and RAM sampling in snapshots.
func MeterWithHostStats(enabled bool) types.Option[*meter.Meter] {
	return meter.WithHostStats(enabled)
}

// MeterWithCPUSampleInterval sets how long each CPU sample blocks.
func MeterWithCPUSampleInterval(d time.Duration) types.Option[*meter.Meter] {
	return meter.WithCPUSampleInterval(d)
}

// MeterWithInitialMetricCount seeds a counter.
func MeterWithInitialMetricCount(metricName string, count uint64) types.Option[*meter.Meter] {
	return meter.WithInitialMetricCount(metricName, count)
}
