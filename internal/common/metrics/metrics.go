// internal/common/metrics/metrics.go
package metrics

import (
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

	EssayAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "essay_analyses_total",
			Help: "Total number of completed essay analyses",
		},
		[]string{"archetype", "tier"},
	)

	EssayReadinessScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "essay_readiness_score",
			Help:    "Distribution of readiness scores",
			Buckets: prometheus.LinearBuckets(35, 5, 13),
		},
	)

	EssayGuardRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "essay_guard_rejections_total",
			Help: "Submissions rejected before analysis",
		},
		[]string{"reason"},
	)

	EssayRunsAbandoned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "essay_runs_abandoned_total",
			Help: "Analysis runs whose result was discarded after a reset",
		},
	)

	EssayCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "essay_cache_lookups_total",
			Help: "Feedback cache lookups by result",
		},
		[]string{"result"},
	)
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
