// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rooms_worker"

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_failed_total",
			Help:      "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of job processing in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_active",
			Help:      "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ListingCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_cache_requests_total",
			Help:      "Listing snapshot cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// RecordCompleted counts a successfully completed job.
func RecordCompleted(taskType string) {
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
}

// RecordFailed counts a job that was failed or thrown with code.
func RecordFailed(taskType, code string) {
	WorkerJobsFailed.WithLabelValues(taskType, code).Inc()
}

// TrackJob marks a job active and returns a func that observes its
// duration and marks it done.
func TrackJob(taskType string) func() time.Duration {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return func() time.Duration {
		elapsed := time.Since(start)
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		return elapsed
	}
}
