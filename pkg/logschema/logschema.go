package logschema

// Log schema constants for ecgflow structured logs.
const (
	SchemaID    = "ecgflow.log.v1"
	FieldSchema = "log_schema"

	FieldTimestamp = "ts"
	FieldLevel     = "level"
	FieldMessage   = "msg"
	FieldLogger    = "logger"
	FieldCaller    = "caller"
	FieldStack     = "stack"

	FieldComponent = "component"
	FieldEvent     = "event"
	FieldResult    = "result"
	FieldError     = "error"
	FieldRunID     = "run_id"
	FieldRecording = "recording"
	FieldStage     = "stage"
)

// LogRecord is a generic map representation of a log entry.
type LogRecord map[string]interface{}
