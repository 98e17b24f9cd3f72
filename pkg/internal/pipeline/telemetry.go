package pipeline

import "github.com/joeydtaylor/ecgflow/pkg/internal/types"

// NotifyLoggers emits a log event to all configured loggers.
func (p *Pipeline) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range p.snapshotLoggers() {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}

func (p *Pipeline) snapshotLoggers() []types.Logger {
	p.loggersLock.Lock()
	loggers := append([]types.Logger(nil), p.loggers...)
	p.loggersLock.Unlock()
	return loggers
}

func (p *Pipeline) observe(stage string, fn func() error) error {
	m := p.currentMeter()
	if m == nil {
		return fn()
	}
	start := nowFunc()
	err := fn()
	m.ObserveStage(stage, nowFunc().Sub(start))
	return err
}

func (p *Pipeline) count(metric string, n int) {
	if m := p.currentMeter(); m != nil && n > 0 {
		m.AddCount(metric, uint64(n))
	}
}

func (p *Pipeline) currentMeter() types.Meter {
	p.configLock.Lock()
	defer p.configLock.Unlock()
	return p.meter
}
