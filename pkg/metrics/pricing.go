package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics records outcomes of price evaluations.
type EvaluationMetrics struct {
	duration  *prometheus.HistogramVec
	applied   *prometheus.CounterVec
	noRule    prometheus.Counter
	warnings  prometheus.Counter
	rejected  prometheus.Counter
}

// NewEvaluationMetrics registers the evaluation metrics on the provided registerer.
func NewEvaluationMetrics(reg prometheus.Registerer) *EvaluationMetrics {
	if reg == nil {
		return &EvaluationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "price_evaluation_duration_seconds",
		Help:    "Duration of price evaluations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_evaluation_rule_applied_total",
		Help: "Evaluations that selected a winning rule, by rule type.",
	}, []string{"rule_type"})
	noRule := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "price_evaluation_no_rule_total",
		Help: "Evaluations where no rule applied and the base price was returned.",
	})
	warnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "price_evaluation_integrity_warnings_total",
		Help: "Rules excluded from evaluation because of data-integrity issues.",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "price_evaluation_rejected_total",
		Help: "Evaluation requests rejected for contract violations.",
	})
	reg.MustRegister(duration, applied, noRule, warnings, rejected)
	return &EvaluationMetrics{
		duration: duration,
		applied:  applied,
		noRule:   noRule,
		warnings: warnings,
		rejected: rejected,
	}
}

// ObserveDuration records how long an evaluation took, labeled single or batch.
func (m *EvaluationMetrics) ObserveDuration(mode string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

// IncApplied increments the applied counter for the winning rule type.
func (m *EvaluationMetrics) IncApplied(ruleType string) {
	if m == nil || m.applied == nil {
		return
	}
	m.applied.WithLabelValues(normalizeLabel(ruleType)).Inc()
}

// IncNoRule increments the counter for evaluations without a winner.
func (m *EvaluationMetrics) IncNoRule() {
	if m == nil || m.noRule == nil {
		return
	}
	m.noRule.Inc()
}

// AddWarnings adds the number of integrity warnings surfaced by an evaluation.
func (m *EvaluationMetrics) AddWarnings(count int) {
	if m == nil || m.warnings == nil || count <= 0 {
		return
	}
	m.warnings.Add(float64(count))
}

// IncRejected increments the counter for rejected requests.
func (m *EvaluationMetrics) IncRejected() {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
