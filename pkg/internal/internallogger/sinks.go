package internallogger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
	"go.uber.org/zap/zapcore"
)

type sinkEntry struct {
	core zapcore.Core
	stop func()
}

// AddSink adds an output identified by identifier. Supported types are file, stdout and stderr.
func (z *ZapLoggerAdapter) AddSink(identifier string, config types.SinkConfig) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	var (
		ws   zapcore.WriteSyncer
		stop func()
	)
	cfg := config.Config
	if cfg == nil {
		cfg = map[string]interface{}{}
	}

	switch types.SinkType(config.Type) {
	case types.FileSink:
		path, ok := cfg["path"].(string)
		if !ok || path == "" {
			return fmt.Errorf("file path configuration is missing or invalid")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", path, err)
		}
		stop = func() {
			_ = file.Close()
		}
		ws = zapcore.AddSync(file)
	case types.StdoutSink:
		ws = zapcore.Lock(os.Stdout)
	case types.StderrSink:
		ws = zapcore.Lock(os.Stderr)
	default:
		return fmt.Errorf("unsupported sink type: %s", config.Type)
	}

	if old, ok := z.sinks[identifier]; ok && old.stop != nil {
		old.stop()
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(z.encConfig), ws, z.atomicLevel)
	z.sinks[identifier] = sinkEntry{core: core, stop: stop}

	z.rebuildLoggerLocked()
	return nil
}

// RemoveSink removes a sink based on its identifier.
func (z *ZapLoggerAdapter) RemoveSink(identifier string) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	entry, ok := z.sinks[identifier]
	if !ok {
		return fmt.Errorf("sink not found: %s", identifier)
	}
	delete(z.sinks, identifier)
	if entry.stop != nil {
		entry.stop()
	}

	z.rebuildLoggerLocked()
	return nil
}

// ListSinks lists all configured sinks.
func (z *ZapLoggerAdapter) ListSinks() ([]string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	identifiers := make([]string, 0, len(z.sinks))
	for id := range z.sinks {
		identifiers = append(identifiers, id)
	}
	return identifiers, nil
}
