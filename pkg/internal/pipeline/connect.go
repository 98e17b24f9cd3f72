package pipeline

import (
	"runtime"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// ConnectLogger registers loggers. Loggers may be added after Freeze.
func (p *Pipeline) ConnectLogger(loggers ...types.Logger) {
	n := 0
	for _, l := range loggers {
		if l != nil {
			loggers[n] = l
			n++
		}
	}
	if n == 0 {
		return
	}

	p.loggersLock.Lock()
	p.loggers = append(p.loggers, loggers[:n]...)
	p.loggersLock.Unlock()
}

// ConnectMeter attaches the meter.
// Panics if called after Freeze.
func (p *Pipeline) ConnectMeter(m types.Meter) {
	p.requireNotFrozen("ConnectMeter")

	p.configLock.Lock()
	p.meter = m
	p.configLock.Unlock()
}

// ConnectSink registers report sinks.
// Panics if called after Freeze.
func (p *Pipeline) ConnectSink(sinks ...types.ReportSink) {
	p.requireNotFrozen("ConnectSink")

	p.configLock.Lock()
	defer p.configLock.Unlock()
	for _, s := range sinks {
		if s == nil {
			continue
		}
		p.sinks = append(p.sinks, s)
		p.NotifyLoggers(
			types.DebugLevel,
			"ConnectSink",
			"component", p.componentMetadata,
			"event", "ConnectSink",
			"sink", s.Name(),
		)
	}
}

// SetConfig replaces the parameters.
// Panics if called after Freeze.
func (p *Pipeline) SetConfig(cfg types.PipelineConfig) {
	p.requireNotFrozen("SetConfig")

	p.configLock.Lock()
	p.cfg = cfg
	if cfg.Concurrency > 0 {
		p.concurrency = cfg.Concurrency
	}
	p.configLock.Unlock()
}

// GetConfig returns the parameters with defaults filled in.
func (p *Pipeline) GetConfig() types.PipelineConfig {
	p.configLock.Lock()
	defer p.configLock.Unlock()
	return p.cfg.WithDefaults()
}

// SetConcurrency bounds parallel recordings; n <= 0 selects GOMAXPROCS.
// Panics if called after Freeze.
func (p *Pipeline) SetConcurrency(n int) {
	p.requireNotFrozen("SetConcurrency")

	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p.configLock.Lock()
	p.concurrency = n
	p.configLock.Unlock()
}

// GetComponentMetadata returns the pipeline metadata.
func (p *Pipeline) GetComponentMetadata() types.ComponentMetadata {
	return p.componentMetadata
}

// SetComponentMetadata updates the pipeline metadata.
// Panics if called after Freeze.
func (p *Pipeline) SetComponentMetadata(name string, id string) {
	p.requireNotFrozen("SetComponentMetadata")

	p.componentMetadata = types.ComponentMetadata{Name: name, ID: id, Type: p.componentMetadata.Type}
}
