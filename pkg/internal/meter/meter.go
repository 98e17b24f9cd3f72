// Package meter counts pipeline events, accumulates stage timings and samples host load.
package meter

import (
	"sync"
	"time"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

type Meter struct {
	componentMetadata types.ComponentMetadata

	mu        sync.Mutex
	counts    map[string]*uint64
	stages    map[string]time.Duration
	startTime time.Time

	hostStats   bool
	cpuInterval time.Duration

	loggers   []types.Logger
	loggersMu sync.Mutex
}

// NewMeter returns a meter whose clock starts now.
func NewMeter(options ...types.Option[*Meter]) *Meter {
	m := &Meter{
		componentMetadata: types.ComponentMetadata{Type: "METER"},
		counts:            make(map[string]*uint64),
		stages:            make(map[string]time.Duration),
		startTime:         time.Now(),
		hostStats:         true,
	}
	m.initializeMetrics()

	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

var defaultMetricNames = []string{
	types.MetricRecordingsSubmitted,
	types.MetricRecordingsProcessed,
	types.MetricRecordingsFailed,
	types.MetricSpikesCorrected,
	types.MetricBeatsDetected,
	types.MetricSamplesProcessed,
	types.MetricReportsPersisted,
}

func (m *Meter) initializeMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range defaultMetricNames {
		if _, ok := m.counts[name]; !ok {
			m.counts[name] = new(uint64)
		}
	}
}

func (m *Meter) GetComponentMetadata() types.ComponentMetadata {
	return m.componentMetadata
}

func (m *Meter) SetComponentMetadata(name string, id string) {
	m.componentMetadata.Name = name
	m.componentMetadata.ID = id
}

var _ types.Meter = (*Meter)(nil)
