package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LeaveTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrcore_leave_transitions_total",
			Help: "Total number of applied leave state transitions by action",
		},
		[]string{"action"},
	)

	QuotaDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrcore_leave_quota_denials_total",
			Help: "Total number of submissions rejected for exceeding the leave quota",
		},
		[]string{"leave_type"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrcore_notifications_total",
			Help: "Total number of dispatched notifications by outcome",
		},
		[]string{"outcome"},
	)

	OrphanAttachmentsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hrcore_orphan_attachments_swept_total",
			Help: "Total number of orphaned attachment references garbage-collected",
		},
	)
)
