package logger

import "os"

// Level represents the minimum severity a log entry must have to be emitted.
type Level string

const (
	Debug   Level = "debug"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Config controls how the service logger is built.
type Config struct {
	// Level is the minimum log level. Defaults to info.
	Level Level

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string

	// EnableTracing controls whether trace/span ids are extracted from
	// the context and attached to log entries.
	EnableTracing bool
}

// NewConfig reads the logger configuration from environment variables.
func NewConfig() Config {
	level := Level(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = Info
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "algorec"
	}

	return Config{
		Level:         level,
		ServiceName:   service,
		EnableTracing: os.Getenv("LOG_ENABLE_TRACING") == "true",
	}
}
