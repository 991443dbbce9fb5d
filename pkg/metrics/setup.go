package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus registry and the HTTP server exposing it,
// plus the service's built-in instruments.
//
// Each service instance maintains its own isolated registry so metric
// names cannot collide when multiple services share a process.
type Metrics struct {
	// Server exposes the /metrics endpoint for Prometheus scraping.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	Registry *prometheus.Registry

	recommendTotal    *prometheus.CounterVec
	recommendDuration *prometheus.HistogramVec
	ingestedTotal     *prometheus.CounterVec
	curatedTotal      *prometheus.CounterVec
	corpusSize        prometheus.Gauge
}

// NewMetrics builds the registry, registers the service instruments and
// (optionally) the default runtime collectors, and prepares the HTTP
// server for the /metrics endpoint.
//
// All metrics carry a constant service="<cfg.ServiceName>" label.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
		recommendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by outcome.",
		}, []string{"status"}),
		recommendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end latency of recommendation requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		ingestedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingested_entries_total",
			Help: "Ingested corpus entries by collection and outcome.",
		}, []string{"collection", "outcome"}),
		curatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "curated_examples_total",
			Help: "Training examples emitted by the curator, by provenance.",
		}, []string{"provenance"}),
		corpusSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "corpus_records",
			Help: "Number of algorithm records currently in the corpus store.",
		}),
	}

	wrapped.MustRegister(
		m.recommendTotal,
		m.recommendDuration,
		m.ingestedTotal,
		m.curatedTotal,
		m.corpusSize,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	return m
}
