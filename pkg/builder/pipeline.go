package builder

import (
	"context"

	"github.com/joeydtaylor/ecgflow/pkg/internal/pipeline"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

type Pipeline = types.Pipeline

type PipelineConfig = types.PipelineConfig

type PipelineResult = types.PipelineResult

type RecordingResult = types.RecordingResult

type RecordingReport = types.RecordingReport

type ReportSink = types.ReportSink

// Stage names reported by the meter.
const (
	StageDesign    = pipeline.StageDesign
	StageDespike   = pipeline.StageDespike
	StageFilter    = pipeline.StageFilter
	StageBeats     = pipeline.StageBeats
	StageHRV       = pipeline.StageHRV
	StageResample  = pipeline.StageResample
	StageBandPower = pipeline.StageBandPower
	StageEpoch     = pipeline.StageEpoch
)

// DefaultPipelineConfig returns the parameters for 500 Hz chest-strap ECG.
func DefaultPipelineConfig() types.PipelineConfig {
	return types.DefaultPipelineConfig()
}

// NewPipeline creates a pipeline that processes recordings concurrently.
func NewPipeline(options ...types.Option[types.Pipeline]) types.Pipeline {
	return pipeline.NewPipeline(options...)
}

// PipelineWithLogger attaches loggers to the pipeline.
func PipelineWithLogger(l ...types.Logger) types.Option[types.Pipeline] {
	return pipeline.WithLogger(l...)
}

// PipelineWithMeter attaches a meter for counts and stage timings.
func PipelineWithMeter(m types.Meter) types.Option[types.Pipeline] {
	return pipeline.WithMeter(m)
}

// PipelineWithConfig replaces the pipeline parameters. Zero fields take defaults except
// BeatFlipped, which is used as given; start from DefaultPipelineConfig to keep flipping on.
func PipelineWithConfig(cfg types.PipelineConfig) types.Option[types.Pipeline] {
	return pipeline.WithConfig(cfg)
}

// PipelineWithConcurrency bounds parallel recordings.
func PipelineWithConcurrency(n int) types.Option[types.Pipeline] {
	return pipeline.WithConcurrency(n)
}

// PipelineWithSink adds report sinks.
func PipelineWithSink(s ...types.ReportSink) types.Option[types.Pipeline] {
	return pipeline.WithSink(s...)
}

// PipelineWithComponentMetadata names the pipeline.
func PipelineWithComponentMetadata(name string, id string) types.Option[types.Pipeline] {
	return pipeline.WithComponentMetadata(name, id)
}

// Analyze runs a one-off pipeline with cfg over set.
func Analyze(ctx context.Context, set types.NamedSignalSet, cfg types.PipelineConfig, options ...types.Option[types.Pipeline]) (types.PipelineResult, error) {
	options = append([]types.Option[types.Pipeline]{pipeline.WithConfig(cfg)}, options...)
	return pipeline.NewPipeline(options...).Run(ctx, set)
}
