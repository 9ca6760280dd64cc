// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StagesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stages_completed_total",
			Help: "Total number of stage executions that produced valid output",
		},
		[]string{"stage"},
	)

	StagesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stages_failed_total",
			Help: "Total number of stage executions that failed production",
		},
		[]string{"stage", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of stage execution in seconds",
		},
		[]string{"stage"},
	)

	VerificationRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_verification_retries_total",
			Help: "Regenerations triggered by a failed faithfulness verification",
		},
		[]string{"stage"},
	)

	VerificationSoftFails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_verification_soft_fails_total",
			Help: "Runs that kept the last output after exhausting verification retries",
		},
		[]string{"stage"},
	)

	RunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_completed_total",
			Help: "Total number of pipeline runs by final status",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "End-to-end duration of a pipeline run in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)
