// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_status_transitions_total",
			Help: "Total number of application status transitions",
		},
		[]string{"from", "to"},
	)

	RuleExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_rule_executions_total",
			Help: "Total number of workflow rule executions by outcome",
		},
		[]string{"rule_id", "status"},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "workflow_sweep_duration_seconds",
			Help: "Duration of a full ProcessAllWorkflows sweep in seconds",
		},
	)

	SweepApplications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "workflow_sweep_applications",
			Help: "Number of active applications seen by the last sweep",
		},
	)

	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_notifications_dispatched_total",
			Help: "Total notifications dispatched by type and status",
		},
		[]string{"type", "status"},
	)
)
