package api

import (
	"net/http"

	"github.com/banachtech/sdepricer/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	runTime  *prometheus.HistogramVec
	paths    prometheus.Counter
	failures *prometheus.CounterVec
}

// NewMetrics registers the pricer collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sdepricer",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route and status",
		}, []string{"route", "code"}),
		runTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sdepricer",
			Name:      "run_duration_seconds",
			Help:      "Simulation wall time by scheme",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"scheme"}),
		paths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdepricer",
			Name:      "simulated_paths_total",
			Help:      "Total simulated paths",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sdepricer",
			Name:      "run_failures_total",
			Help:      "Failed pricing runs by payoff",
		}, []string{"payoff"}),
	}
	m.registry.MustRegister(m.requests, m.runTime, m.paths, m.failures)
	return m
}

func (m *Metrics) observeRun(res report.Result) {
	m.runTime.WithLabelValues(res.Scheme).Observe(res.Elapsed.Seconds())
	m.paths.Add(float64(res.Paths))
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
