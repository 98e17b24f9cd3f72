package pipeline

import "github.com/joeydtaylor/ecgflow/pkg/internal/types"

// WithLogger registers loggers for the pipeline.
func WithLogger(l ...types.Logger) types.Option[types.Pipeline] {
	return func(p types.Pipeline) {
		p.ConnectLogger(l...)
	}
}

// WithMeter attaches a meter that receives counts and stage timings.
func WithMeter(m types.Meter) types.Option[types.Pipeline] {
	return func(p types.Pipeline) {
		p.ConnectMeter(m)
	}
}

// WithConfig replaces the pipeline parameters. Zero numeric fields and empty policy strings
// fall back to DefaultPipelineConfig, so SpikeThreshold and BeatHeight cannot be set to 0.
// BeatFlipped is used as given: a literal PipelineConfig{} turns flipping off while the
// defaults turn it on. Start from DefaultPipelineConfig to keep it.
func WithConfig(cfg types.PipelineConfig) types.Option[types.Pipeline] {
	return func(p types.Pipeline) {
		p.SetConfig(cfg)
	}
}

// WithConcurrency bounds how many recordings are processed at once.
func WithConcurrency(n int) types.Option[types.Pipeline] {
	return func(p types.Pipeline) {
		p.SetConcurrency(n)
	}
}

// WithSink adds sinks that receive the reports after a successful run.
func WithSink(s ...types.ReportSink) types.Option[types.Pipeline] {
	return func(p types.Pipeline) {
		p.ConnectSink(s...)
	}
}

// WithComponentMetadata sets the pipeline name and ID.
func WithComponentMetadata(name string, id string) types.Option[types.Pipeline] {
	return func(p types.Pipeline) {
		p.SetComponentMetadata(name, id)
	}
}
