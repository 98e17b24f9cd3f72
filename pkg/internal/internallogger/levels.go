package internallogger

import (
	"strings"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"go.uber.org/zap/zapcore"
)

// zapLevels is indexed by types.LogLevel.
var zapLevels = [...]zapcore.Level{
	types.DebugLevel:  zapcore.DebugLevel,
	types.InfoLevel:   zapcore.InfoLevel,
	types.WarnLevel:   zapcore.WarnLevel,
	types.ErrorLevel:  zapcore.ErrorLevel,
	types.DPanicLevel: zapcore.DPanicLevel,
	types.PanicLevel:  zapcore.PanicLevel,
	types.FatalLevel:  zapcore.FatalLevel,
}

// parseLogLevel accepts zap level names in any case plus "warning". Unknown names are info.
func parseLogLevel(levelStr string) types.LogLevel {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	if s == "warning" {
		s = "warn"
	}
	zl, err := zapcore.ParseLevel(s)
	if err != nil {
		return types.InfoLevel
	}
	return convertZapLevel(zl)
}

// ConvertLevel converts a types.LogLevel to a zap level; out-of-range values are info.
func ConvertLevel(level types.LogLevel) zapcore.Level {
	if level < 0 || int(level) >= len(zapLevels) {
		return zapcore.InfoLevel
	}
	return zapLevels[level]
}

func convertZapLevel(level zapcore.Level) types.LogLevel {
	for l, zl := range zapLevels {
		if zl == level {
			return types.LogLevel(l)
		}
	}
	return types.InfoLevel
}
