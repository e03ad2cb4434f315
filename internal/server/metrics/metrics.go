// Package metrics exports the server's Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gophdocs"

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	handledTotal     *prometheus.CounterVec
	handledSeconds   *prometheus.HistogramVec
	saveRetriesTotal prometheus.Counter
	documentBytes    prometheus.Histogram
}

func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	return &Metrics{
		registry: reg,
		handledTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "handled_total",
			Help:      "Total number of requests completed, regardless of success or failure.",
		}, []string{"transport", "method", "code"}),
		handledSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "handled_seconds",
			Help:      "Request handling time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"transport", "method"}),
		saveRetriesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "save_retries_total",
			Help:      "Saves retried because a concurrent writer moved last_modified first.",
		}),
		documentBytes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "stored_bytes",
			Help:      "Size of stored document ciphertext.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}),
	}, nil
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(transport, method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.handledTotal.WithLabelValues(transport, method, code).Inc()
	m.handledSeconds.WithLabelValues(transport, method).Observe(elapsed.Seconds())
}

func (m *Metrics) AddSaveRetry() {
	if m == nil {
		return
	}
	m.saveRetriesTotal.Inc()
}

func (m *Metrics) ObserveDocumentSize(n int) {
	if m == nil {
		return
	}
	m.documentBytes.Observe(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

