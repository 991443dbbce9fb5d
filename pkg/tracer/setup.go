package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/nexus-evo/algorec/pkg/logger"
)

// Tracer wraps the OpenTelemetry TracerProvider for the service.
// It installs itself as the global tracer provider and text-map
// propagator, so instrumented libraries pick it up automatically.
type Tracer struct {
	provider *trace.TracerProvider
	logger   *logger.Logger
}

// NewClient builds the tracer provider.
//
// When export is enabled an OTLP HTTP exporter is attached (endpoint from
// the standard OTEL_EXPORTER_OTLP_* environment variables); otherwise
// spans are created but never exported, which keeps local development
// quiet without conditional instrumentation at call sites.
func NewClient(cfg Config, log *logger.Logger) *Tracer {
	var options []trace.TracerProviderOption

	if cfg.EnableExport {
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient())
		if err != nil {
			log.Fatal("cannot initiate trace exporter", err, nil)
			return nil
		}
		options = append(options, trace.WithBatcher(exporter))
	}

	options = append(options, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := trace.NewTracerProvider(options...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracer{provider: tp, logger: log}
}
