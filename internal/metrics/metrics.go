// Package metrics exposes Prometheus counters and histograms for the
// HTTP resources and the Query Gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "parking"

// Metrics owns a private registry so tests can create as many as they need.
type Metrics struct {
	Registry *prometheus.Registry

	requests      *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

// New registers the application collectors plus the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resource_requests_total",
			Help:      "Resource operations handled, by resource, operation and response status.",
		}, []string{"resource", "operation", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query Gateway statement latency, by driver and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"driver", "outcome"}),
	}

	reg.MustRegister(
		m.requests,
		m.queryDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRequest counts one handled resource operation.
func (m *Metrics) ObserveRequest(resource, operation string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, operation, strconv.Itoa(status)).Inc()
}

// ObserveQuery records one statement's latency.
func (m *Metrics) ObserveQuery(driver, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(driver, outcome).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
