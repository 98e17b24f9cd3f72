package builder

import "github.com/joeydtaylor/ecgflow/pkg/internal/config"

type (
	Config       = config.Config
	InputConfig  = config.InputConfig
	OutputConfig = config.OutputConfig
	AWSConfig    = config.AWSConfig
	LogConfig    = config.LogConfig
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() config.Config {
	return config.Default()
}

// LoadConfig overlays the YAML file, the .env file and ECGFLOW_* variables on the defaults.
// Empty paths are skipped.
func LoadConfig(path, envFile string) (config.Config, error) {
	return config.Load(path, envFile)
}

// LoggerFromConfig builds a logger for the log section, adding a file sink when File is set.
func LoggerFromConfig(c config.LogConfig) (Logger, error) {
	l := NewLogger(LoggerWithLevel(c.Level), LoggerWithDevelopment(c.Development))
	if c.File != "" {
		if err := l.AddSink("file", SinkConfig{Type: string(FileSink), Config: map[string]interface{}{"path": c.File}}); err != nil {
			return nil, err
		}
	}
	return l, nil
}
