package types

import "context"

// RecordingResult carries every intermediate series produced for one recording, so an
// external plotter can render any stage without recomputing it.
type RecordingResult struct {
	Name       string
	Raw        Signal
	Despiked   Signal
	Scaled     Signal
	Filtered   Signal
	SpikeIndex []int
	Beats      BeatIndexSet
	Markers    []Marker
	HRV        HRVResult
	Resampled  Signal
	ResampleFs float64
	Bands      BandPowerResult
	MeanBeat   EnsembleAverage
	Report     RecordingReport
}

// PipelineResult is the output of one pipeline run.
type PipelineResult struct {
	RunID      string
	Filter     ImpulseResponse
	Recordings []RecordingResult // sorted by name
	Reports    []RecordingReport // sorted by name
	Meter      MeterSnapshot
}

// Pipeline runs the ECG chain over a named signal set.
type Pipeline interface {
	ConnectLogger(...Logger)
	ConnectMeter(Meter)
	ConnectSink(...ReportSink)
	SetConfig(PipelineConfig)
	GetConfig() PipelineConfig
	SetConcurrency(n int)
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})
	Run(ctx context.Context, set NamedSignalSet) (PipelineResult, error)
}
