// Package metrics exposes Prometheus instrumentation for the quality pipeline.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/quality-service/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quality"

type Metrics struct {
	registry *prometheus.Registry

	sessionsStarted *prometheus.CounterVec
	sessionsActive  prometheus.Gauge
	submissions     *prometheus.CounterVec
	flags           *prometheus.CounterVec
	score           prometheus.Histogram
	activeSeconds   prometheus.Histogram
	publishFailures prometheus.Counter
}

// New creates the collectors on a private registry so tests can build as
// many instances as they need.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		sessionsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Task sessions started, split by whether a checkpoint was resumed.",
		}, []string{"resumed"}),
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Task sessions with a live active-time tracker.",
		}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Evaluated submissions by outcome and rejection reason.",
		}, []string{"passed", "reason"}),
		flags: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flags_total",
			Help:      "Quality flags raised on evaluated submissions.",
		}, []string{"flag"}),
		score: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_score",
			Help:      "Composite quality score of evaluated submissions.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		activeSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_active_seconds",
			Help:      "Foreground seconds spent on a task before submitting.",
			Buckets:   []float64{5, 10, 20, 30, 60, 120, 300, 600, 1800},
		}),
		publishFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Submission envelopes that could not be forwarded for re-validation.",
		}),
	}
}

func (m *Metrics) SessionStarted(resumed bool) {
	m.sessionsStarted.WithLabelValues(strconv.FormatBool(resumed)).Inc()
	m.sessionsActive.Inc()
}

func (m *Metrics) SessionEnded() {
	m.sessionsActive.Dec()
}

// SubmissionEvaluated records a verdict and the time gate reading it was based on.
func (m *Metrics) SubmissionEvaluated(result models.QualityResult, snapshot models.TimeGateSnapshot) {
	reason := result.Reason
	if reason == "" {
		reason = "none"
	}
	m.submissions.WithLabelValues(strconv.FormatBool(result.Passed), reason).Inc()
	for _, flag := range result.Flags {
		m.flags.WithLabelValues(flag).Inc()
	}
	m.score.Observe(result.Score)
	m.activeSeconds.Observe(float64(snapshot.ActiveSeconds))
}

func (m *Metrics) PublishFailed() {
	m.publishFailures.Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
