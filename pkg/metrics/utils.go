package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncRecommend increments the recommendation counter for an outcome,
// e.g. "ok", "no_candidates", "low_confidence", "timeout", "error".
func (m *Metrics) IncRecommend(status string) {
	m.recommendTotal.WithLabelValues(status).Inc()
}

// ObserveRecommendDuration records how long a recommendation stage took.
// Example: defer metrics.ObserveRecommendDuration(time.Now(), "total")
func (m *Metrics) ObserveRecommendDuration(start time.Time, stage string) {
	m.recommendDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// IncIngested counts one ingested entry for a collection with an outcome,
// e.g. "upserted", "unchanged", "skipped", "failed".
func (m *Metrics) IncIngested(collection, outcome string) {
	m.ingestedTotal.WithLabelValues(collection, outcome).Inc()
}

// IncCurated counts one emitted training example by provenance.
func (m *Metrics) IncCurated(provenance string) {
	m.curatedTotal.WithLabelValues(provenance).Inc()
}

// SetCorpusSize publishes the current number of records in the store.
func (m *Metrics) SetCorpusSize(n int) {
	m.corpusSize.Set(float64(n))
}

// CreateCounter creates and registers an additional CounterVec metric.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates and registers an additional HistogramVec metric.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}, labels)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates and registers an additional GaugeVec metric.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	m.Registry.MustRegister(gauge)
	return gauge
}
