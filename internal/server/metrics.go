package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the advisor.
type Metrics struct {
	registry *prometheus.Registry

	Recommendations *prometheus.CounterVec
	InvalidInputs   *prometheus.CounterVec
	AnalysisLatency prometheus.Histogram
	SummaryRequests *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Recommendations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_recommendations_total",
				Help: "Recommendations produced, by signal",
			},
			[]string{"signal"},
		),

		InvalidInputs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_invalid_inputs_total",
				Help: "Analysis requests rejected, by field and reason",
			},
			[]string{"field", "reason"},
		),

		AnalysisLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advisor_analysis_duration_seconds",
				Help:    "Time spent parsing and scoring one analysis request",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
			},
		),

		SummaryRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_summary_requests_total",
				Help: "Market summary refreshes, by result",
			},
			[]string{"result"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_http_requests_total",
				Help: "HTTP requests, by route and status code",
			},
			[]string{"route", "code"},
		),
	}

	m.registry.MustRegister(
		m.Recommendations,
		m.InvalidInputs,
		m.AnalysisLatency,
		m.SummaryRequests,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
