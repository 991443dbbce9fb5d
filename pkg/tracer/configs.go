package tracer

import "os"

// Config controls OpenTelemetry tracing for the service.
type Config struct {
	// ServiceName identifies this service in exported traces.
	ServiceName string

	// AppEnv is the deployment environment, e.g. "production", "staging".
	AppEnv string

	// EnableExport turns on the OTLP HTTP exporter. The exporter endpoint
	// is taken from the standard OTEL_EXPORTER_OTLP_* environment variables.
	EnableExport bool
}

// NewConfig reads the tracer configuration from environment variables.
func NewConfig() Config {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "algorec"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	return Config{
		ServiceName:  service,
		AppEnv:       env,
		EnableExport: os.Getenv("TRACING_ENABLE_EXPORT") == "true",
	}
}
