// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termsheet_validations_total",
			Help: "Total number of term-sheet validation runs by status",
		},
		[]string{"status"},
	)

	OverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "termsheet_overall_score",
			Help:    "Distribution of overall validation scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	FieldVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termsheet_field_verdicts_total",
			Help: "Per-field validation verdicts",
		},
		[]string{"field", "valid"},
	)

	IntakeCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termsheet_intake_cache_lookups_total",
			Help: "Extracted-text cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordVerdict counts a single field verdict.
func RecordVerdict(field string, valid bool) {
	FieldVerdicts.WithLabelValues(field, strconv.FormatBool(valid)).Inc()
}
