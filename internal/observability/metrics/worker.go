package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	jobTotal    *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	jobInFlight prometheus.Gauge
	writeTotal  *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	jobTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizforge",
			Subsystem: "worker",
			Name:      "index_jobs_total",
			Help:      "Total processed index jobs by status.",
		},
		[]string{"service", "status"},
	)
	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quizforge",
			Subsystem: "worker",
			Name:      "index_job_duration_seconds",
			Help:      "Index job processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	jobInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "quizforge",
			Subsystem: "worker",
			Name:      "index_jobs_in_flight",
			Help:      "Number of in-flight index jobs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	writeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizforge",
			Subsystem: "worker",
			Name:      "index_writes_total",
			Help:      "Total per-question store writes by outcome.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(jobTotal, jobDuration, jobInFlight, writeTotal)

	return &WorkerMetrics{
		registry:    registry,
		jobTotal:    jobTotal,
		jobDuration: jobDuration,
		jobInFlight: jobInFlight,
		writeTotal:  writeTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartJob() {
	m.jobInFlight.Inc()
}

func (m *WorkerMetrics) FinishJob(service string, duration time.Duration, err error) {
	m.jobInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.jobTotal.WithLabelValues(service, status).Inc()
	m.jobDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

// Observer binds the service label for the index writer's observation hook.
func (m *WorkerMetrics) Observer(service string) *IndexMetricsObserver {
	return &IndexMetricsObserver{metrics: m, service: service}
}

type IndexMetricsObserver struct {
	metrics *WorkerMetrics
	service string
}

func (o *IndexMetricsObserver) ObserveIndexWrite(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	o.metrics.writeTotal.WithLabelValues(o.service, outcome).Inc()
}
