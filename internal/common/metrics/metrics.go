package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"iaq-workers/internal/common/errors"
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
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
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

	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iaq_assessments_total",
			Help: "Completed IAQ assessments by profile and risk tier",
		},
		[]string{"profile", "tier"},
	)

	AssessmentScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iaq_assessment_score",
			Help:    "Distribution of IAQ total risk scores",
			Buckets: prometheus.LinearBuckets(0, 1, 15),
		},
		[]string{"profile"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iaq_notifications_total",
			Help: "Assessment notifications by channel and outcome",
		},
		[]string{"channel", "status"},
	)
)

// RecordJob records the outcome and duration of one job.
func RecordJob(taskType string, start time.Time, err error) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	if err != nil {
		WorkerJobsFailed.WithLabelValues(taskType, string(errors.Normalize(err).Code)).Inc()
		return
	}
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
}

// RecordAssessment records a scored assessment.
func RecordAssessment(profile, tier string, score int) {
	AssessmentsTotal.WithLabelValues(profile, tier).Inc()
	AssessmentScore.WithLabelValues(profile).Observe(float64(score))
}
