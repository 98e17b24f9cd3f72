// Package pipeline chains spike removal, band-pass filtering, beat detection, HRV, IBI
// resampling, LF/HF analysis and beat averaging over every recording of a set.
package pipeline

import (
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// Pipeline processes recordings concurrently. Configuration is frozen by the first Run.
type Pipeline struct {
	componentMetadata types.ComponentMetadata

	configLock  sync.Mutex
	cfg         types.PipelineConfig
	concurrency int
	meter       types.Meter
	sinks       []types.ReportSink

	loggers     []types.Logger
	loggersLock sync.Mutex

	frozen int32
}

// NewPipeline constructs a Pipeline with the default configuration and applies options.
func NewPipeline(options ...types.Option[types.Pipeline]) types.Pipeline {
	p := &Pipeline{
		cfg:         types.DefaultPipelineConfig(),
		concurrency: runtime.GOMAXPROCS(0),
		loggers:     make([]types.Logger, 0),
		componentMetadata: types.ComponentMetadata{
			Type: "PIPELINE",
			ID:   uuid.NewString(),
		},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}

	return p
}
