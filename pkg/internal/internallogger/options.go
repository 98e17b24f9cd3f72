package internallogger

import (
	"io"

	"github.com/joeydtaylor/ecgflow/pkg/logschema"
)

// LoggerWithLevel sets the minimum level ("debug", "info", "warn", "error", ...).
// Unknown strings fall back to info.
func LoggerWithLevel(levelStr string) LoggerOption {
	return func(cfg *loggerConfig) {
		cfg.level = ConvertLevel(parseLogLevel(levelStr))
	}
}

// LoggerWithDevelopment switches to capitalized level names for human reading.
func LoggerWithDevelopment(dev bool) LoggerOption {
	return func(cfg *loggerConfig) {
		cfg.development = dev
	}
}

// LoggerWithFields attaches fields to every log line.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return func(cfg *loggerConfig) {
		for key, value := range fields {
			if key == "" {
				continue
			}
			cfg.fields[key] = value
		}
	}
}

// LoggerWithSchema overrides the log schema identifier field.
func LoggerWithSchema(schema string) LoggerOption {
	return func(cfg *loggerConfig) {
		cfg.fields[logschema.FieldSchema] = schema
	}
}

// LoggerWithCallerSkip adds frames to skip when reporting the caller.
func LoggerWithCallerSkip(skip int) LoggerOption {
	return func(cfg *loggerConfig) {
		cfg.callerDepth += skip
	}
}

// LoggerWithWriter replaces stdout as the base output.
func LoggerWithWriter(w io.Writer) LoggerOption {
	return func(cfg *loggerConfig) {
		if w != nil {
			cfg.output = w
		}
	}
}
