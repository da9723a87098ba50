package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics carries the api-process metric families on a private
// registry, so test instances never collide on the default one.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	generationTotal    *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	retrievalHits      *prometheus.HistogramVec
	factCheckTotal     *prometheus.CounterVec
	corrections        *prometheus.HistogramVec
	indexPublishTotal  *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizforge",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quizforge",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "quizforge",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	generationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizforge",
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Total backend generation calls by provider and outcome.",
		},
		[]string{"service", "provider", "outcome"},
	)
	generationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quizforge",
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Backend generation call duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"service", "provider"},
	)
	retrievalHits := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quizforge",
			Subsystem: "retrieval",
			Name:      "hits",
			Help:      "Distribution of similar questions retrieved per generation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		},
		[]string{"service"},
	)
	factCheckTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizforge",
			Subsystem: "factcheck",
			Name:      "passes_total",
			Help:      "Total completed fact-checking passes.",
		},
		[]string{"service"},
	)
	corrections := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quizforge",
			Subsystem: "factcheck",
			Name:      "corrections",
			Help:      "Distribution of corrections applied per fact-checking pass.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		},
		[]string{"service"},
	)
	indexPublishTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizforge",
			Subsystem: "indexing",
			Name:      "publish_total",
			Help:      "Total index job publishes by status.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		generationTotal,
		generationDuration,
		retrievalHits,
		factCheckTotal,
		corrections,
		indexPublishTotal,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		generationTotal:    generationTotal,
		generationDuration: generationDuration,
		retrievalHits:      retrievalHits,
		factCheckTotal:     factCheckTotal,
		corrections:        corrections,
		indexPublishTotal:  indexPublishTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Observer adapts the metric families to the generation pipeline's
// observation interface, binding the service label once.
func (m *HTTPServerMetrics) Observer(service string) *GenerationMetricsObserver {
	return &GenerationMetricsObserver{metrics: m, service: service}
}

type GenerationMetricsObserver struct {
	metrics *HTTPServerMetrics
	service string
}

func (o *GenerationMetricsObserver) ObserveGeneration(provider, outcome string, duration time.Duration) {
	o.metrics.generationTotal.WithLabelValues(o.service, provider, outcome).Inc()
	o.metrics.generationDuration.WithLabelValues(o.service, provider).Observe(duration.Seconds())
}

func (o *GenerationMetricsObserver) ObserveRetrieval(hits int) {
	o.metrics.retrievalHits.WithLabelValues(o.service).Observe(float64(hits))
}

func (o *GenerationMetricsObserver) ObserveFactCheck(corrections int) {
	o.metrics.factCheckTotal.WithLabelValues(o.service).Inc()
	o.metrics.corrections.WithLabelValues(o.service).Observe(float64(corrections))
}

func (o *GenerationMetricsObserver) ObserveIndexPublish(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	o.metrics.indexPublishTotal.WithLabelValues(o.service, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
