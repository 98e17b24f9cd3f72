package types

import "time"

const (
	MetricRecordingsSubmitted = "recordings_submitted_count"
	MetricRecordingsProcessed = "recordings_processed_count"
	MetricRecordingsFailed    = "recordings_failed_count"
	MetricSpikesCorrected     = "spikes_corrected_count"
	MetricBeatsDetected       = "beats_detected_count"
	MetricSamplesProcessed    = "samples_processed_count"
	MetricReportsPersisted    = "reports_persisted_count"

	MetricCurrentCpuPercentage = "current_cpu_percentage"
	MetricCurrentRamPercentage = "current_ram_percentage"
)

// MeterSnapshot is a point-in-time copy of a meter's state.
type MeterSnapshot struct {
	StartTime      time.Time
	Elapsed        time.Duration
	Counts         map[string]uint64
	StageDurations map[string]time.Duration
	CPUPercent     float64
	RAMPercent     float64
}

// Meter collects run counters and stage timings. Implementations are safe for concurrent use.
type Meter interface {
	IncrementCount(metric string)
	AddCount(metric string, n uint64)
	GetMetricCount(metric string) uint64
	ObserveStage(stage string, d time.Duration)
	GetStageDuration(stage string) time.Duration
	Snapshot() MeterSnapshot
	ConnectLogger(...Logger)
}
