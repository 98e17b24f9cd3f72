package internallogger

import (
	"io"
	"os"
	"sync"

	"github.com/joeydtaylor/ecgflow/pkg/logschema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOption mutates the logger configuration before the zap core is built.
type LoggerOption func(*loggerConfig)

type loggerConfig struct {
	level       zapcore.Level
	development bool
	callerDepth int
	fields      map[string]interface{}
	output      io.Writer
}

// ZapLoggerAdapter implements types.Logger on top of zap.
type ZapLoggerAdapter struct {
	mu          sync.Mutex
	logger      *zap.Logger
	atomicLevel zap.AtomicLevel
	encConfig   zapcore.EncoderConfig
	baseCore    zapcore.Core
	baseFields  []zap.Field
	callerDepth int
	callerOn    bool
	sinks       map[string]sinkEntry
}

// NewLogger builds a JSON logger writing to stdout unless LoggerWithWriter says otherwise.
func NewLogger(options ...LoggerOption) *ZapLoggerAdapter {
	cfg := &loggerConfig{
		level:       zapcore.InfoLevel,
		callerDepth: 2,
		fields:      map[string]interface{}{logschema.FieldSchema: logschema.SchemaID},
		output:      os.Stdout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	z := &ZapLoggerAdapter{
		atomicLevel: zap.NewAtomicLevelAt(cfg.level),
		encConfig:   standardEncoderConfig(),
		baseFields:  fieldsFromMap(cfg.fields),
		callerDepth: cfg.callerDepth,
		callerOn:    true,
		sinks:       make(map[string]sinkEntry),
	}
	if cfg.development {
		z.encConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	z.baseCore = zapcore.NewCore(zapcore.NewJSONEncoder(z.encConfig), zapcore.AddSync(cfg.output), z.atomicLevel)

	z.mu.Lock()
	z.rebuildLoggerLocked()
	z.mu.Unlock()
	return z
}

func (z *ZapLoggerAdapter) rebuildLoggerLocked() {
	cores := make([]zapcore.Core, 0, 1+len(z.sinks))
	cores = append(cores, z.baseCore)
	for _, entry := range z.sinks {
		cores = append(cores, entry.core)
	}
	opts := []zap.Option{zap.AddCallerSkip(z.callerDepth)}
	if z.callerOn {
		opts = append(opts, zap.AddCaller())
	}
	logger := zap.New(zapcore.NewTee(cores...), opts...)
	if len(z.baseFields) > 0 {
		logger = logger.With(z.baseFields...)
	}
	z.logger = logger
}
