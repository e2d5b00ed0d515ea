// Package metrics exposes Prometheus collectors for the estimator.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/roi-estimator/internal/roi"
)

// Option applies a configuration option to the Collector.
type Option func(*Collector)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(c *Collector) {
		if namespace != "" {
			c.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for the request duration histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(c *Collector) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}

// WithRuntimeCollectors registers the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(c *Collector) { c.runtime = true }
}

// Collector owns a registry and the service metrics registered on it.
type Collector struct {
	namespace string
	buckets   []float64
	runtime   bool
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	evaluations         *prometheus.CounterVec
	inputAdjustments    *prometheus.CounterVec
}

// New creates a Collector on a fresh registry.
func New(opts ...Option) *Collector {
	c := &Collector{
		namespace: "roi",
		buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.runtime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(c.registry)
	c.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	c.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   c.buckets,
	}, []string{"route", "method"})

	c.evaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "model",
		Name:      "evaluations_total",
		Help:      "Model evaluations by whether ROI is defined and payback reachable",
	}, []string{"roi_defined", "payback_reachable"})

	c.inputAdjustments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "form",
		Name:      "input_adjustments_total",
		Help:      "Input values clamped into range, by field",
	}, []string{"field"})

	return c
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveEvaluation counts one model evaluation.
func (c *Collector) ObserveEvaluation(res roi.Result) {
	c.evaluations.WithLabelValues(
		strconv.FormatBool(res.ROI.Defined()),
		strconv.FormatBool(res.Payback.Reachable()),
	).Inc()
}

// ObserveAdjustment counts one clamped input field.
func (c *Collector) ObserveAdjustment(field string) {
	c.inputAdjustments.WithLabelValues(field).Inc()
}

// Middleware records request count and duration, labelled by the matched chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		durationMs := float64(time.Since(start).Microseconds()) / 1000

		c.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		c.httpRequestDuration.WithLabelValues(route, r.Method).Observe(durationMs)
	})
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
