package metrics

import "os"

// Config controls the Prometheus metrics endpoint.
type Config struct {
	// Address the /metrics HTTP server listens on. Defaults to ":9090".
	Address string

	// ServiceName is applied as a constant "service" label on all metrics.
	ServiceName string

	// EnableDefaultCollectors registers the Go, process, and build info
	// collectors in addition to the service's own instruments.
	EnableDefaultCollectors bool
}

// NewConfig reads the metrics configuration from environment variables.
func NewConfig() Config {
	addr := os.Getenv("METRICS_ADDRESS")
	if addr == "" {
		addr = ":9090"
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "algorec"
	}

	return Config{
		Address:                 addr,
		ServiceName:             service,
		EnableDefaultCollectors: os.Getenv("METRICS_DISABLE_DEFAULT_COLLECTORS") != "true",
	}
}
