package types

// LogLevel is the severity of a log event.
type LogLevel int

// SinkType names where a logger writes.
type SinkType string

const (
	FileSink   SinkType = "file"
	StdoutSink SinkType = "stdout"
	StderrSink SinkType = "stderr"
)

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	DPanicLevel
	PanicLevel
	FatalLevel
)

// SinkConfig configures an additional log destination.
type SinkConfig struct {
	Type   string                 // "file", "stdout" or "stderr"
	Config map[string]interface{} // e.g. {"path": "/var/log/ecgflow.log"}
}

// Logger is the logging contract every component accepts. Key/value pairs follow the
// zap SugaredLogger convention.
type Logger interface {
	GetLevel() LogLevel
	SetLevel(LogLevel)
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	DPanic(msg string, keysAndValues ...interface{})
	Panic(msg string, keysAndValues ...interface{})
	Fatal(msg string, keysAndValues ...interface{})
	Flush() error
	AddSink(identifier string, config SinkConfig) error
	RemoveSink(identifier string) error
	ListSinks() ([]string, error)
}
