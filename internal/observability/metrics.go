package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DriftCollector bundles Prometheus metrics for the drift API and the
// simulation engine, and provides helpers to wire them into the HTTP router.
type DriftCollector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	SimulationRuns      *prometheus.CounterVec
	SimulationDurations *prometheus.HistogramVec
	SimulationParticles prometheus.Histogram
	StrandedParticles   prometheus.Counter
	DataFallbacks       *prometheus.CounterVec
}

// NewDriftCollector registers drift metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewDriftCollector(reg prometheus.Registerer) (*DriftCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drift_http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by route, method, and status code.",
	}, []string{"route", "method", "code"})
	requests, err := registerCounterVec(reg, requests, "drift_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "drift_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"route", "method"})
	durations, err = registerHistogramVec(reg, durations, "drift_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drift_simulation_runs_total",
		Help: "Completed Monte Carlo runs, labeled by object category and data outcome (ok or degraded).",
	}, []string{"category", "outcome"})
	runs, err = registerCounterVec(reg, runs, "drift_simulation_runs_total")
	if err != nil {
		return nil, err
	}

	runDurations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "drift_simulation_duration_seconds",
		Help:    "Monte Carlo run duration in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"category"})
	runDurations, err = registerHistogramVec(reg, runDurations, "drift_simulation_duration_seconds")
	if err != nil {
		return nil, err
	}

	particles, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "drift_simulation_particles",
		Help:    "Ensemble size per run.",
		Buckets: []float64{100, 200, 500, 1000, 2000, 5000},
	}), "drift_simulation_particles")
	if err != nil {
		return nil, err
	}

	stranded, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "drift_stranded_particles_total",
		Help: "Particles frozen on the land boundary across all runs.",
	}), "drift_stranded_particles_total")
	if err != nil {
		return nil, err
	}

	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drift_data_fallbacks_total",
		Help: "Environmental queries answered with fallback forcing, labeled by product.",
	}, []string{"product"})
	fallbacks, err = registerCounterVec(reg, fallbacks, "drift_data_fallbacks_total")
	if err != nil {
		return nil, err
	}

	return &DriftCollector{
		gatherer:            gatherer,
		HTTPRequests:        requests,
		HTTPDurations:       durations,
		SimulationRuns:      runs,
		SimulationDurations: runDurations,
		SimulationParticles: particles,
		StrandedParticles:   stranded,
		DataFallbacks:       fallbacks,
	}, nil
}

// statusRecorder captures the response code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and durations per route template. It is
// shaped as a mux.MiddlewareFunc so the router applies it to every handler.
func (c *DriftCollector) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

			next.ServeHTTP(rec, r)

			if c == nil {
				return
			}
			route := RouteTemplate(r)
			if c.HTTPRequests != nil {
				c.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.code)).Inc()
			}
			if c.HTTPDurations != nil {
				c.HTTPDurations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
			}
		})
	}
}

// RecordRun feeds one completed simulation into the run metrics.
func (c *DriftCollector) RecordRun(category string, degraded bool, duration time.Duration, particles, stranded int) {
	if c == nil {
		return
	}
	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	if c.SimulationRuns != nil {
		c.SimulationRuns.WithLabelValues(category, outcome).Inc()
	}
	if c.SimulationDurations != nil {
		c.SimulationDurations.WithLabelValues(category).Observe(duration.Seconds())
	}
	if c.SimulationParticles != nil {
		c.SimulationParticles.Observe(float64(particles))
	}
	if c.StrandedParticles != nil && stranded > 0 {
		c.StrandedParticles.Add(float64(stranded))
	}
}

// RecordDataFallback counts one fallback answer for a product ("currents" or
// "wind").
func (c *DriftCollector) RecordDataFallback(product string) {
	if c == nil || c.DataFallbacks == nil {
		return
	}
	c.DataFallbacks.WithLabelValues(product).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *DriftCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RouteTemplate resolves the mux route template for a request, falling back
// to the raw path when the request was not dispatched through the router.
func RouteTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil && tmpl != "" {
			return tmpl
		}
	}
	if r.URL != nil && r.URL.Path != "" {
		return r.URL.Path
	}
	return "unknown"
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
