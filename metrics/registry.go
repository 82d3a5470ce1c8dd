// ABOUTME: Prometheus collectors for plan acquisition, stream reading, playback and HTTP traffic.
// ABOUTME: Each Registry owns its own prometheus.Registry so tests and servers don't share state.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every LifeLine collector. A nil *Registry is valid and records nothing.
type Registry struct {
	registry *prometheus.Registry

	PlanAcquisitions        *prometheus.CounterVec
	PlanAcquisitionDuration *prometheus.HistogramVec
	SSEDiscardedLines       *prometheus.CounterVec
	PlaybackEvents          *prometheus.CounterVec
	Playbacks               *prometheus.CounterVec
	ActivePlaybacks         prometheus.Gauge
	HTTPRequestsTotal       *prometheus.CounterVec
	HTTPRequestDuration     *prometheus.HistogramVec
}

// NewRegistry creates a registry with all collectors registered, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(r.registry)

	r.PlanAcquisitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeline_plan_acquisitions_total",
			Help: "Plan acquisition attempts by outcome and failure reason",
		},
		[]string{"outcome", "reason"},
	)
	r.PlanAcquisitionDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifeline_plan_acquisition_duration_seconds",
			Help:    "Time from request to usable plan",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"outcome"},
	)
	r.SSEDiscardedLines = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeline_sse_discarded_lines_total",
			Help: "Streamed lines that carried no content",
		},
		[]string{"reason"},
	)
	r.PlaybackEvents = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeline_playback_events_total",
			Help: "Events emitted by playback engines",
		},
		[]string{"kind"},
	)
	r.Playbacks = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeline_playbacks_total",
			Help: "Playbacks by terminal state",
		},
		[]string{"state"},
	)
	r.ActivePlaybacks = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "lifeline_playbacks_active",
			Help: "Playbacks currently running",
		},
	)
	r.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeline_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)
	r.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifeline_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
