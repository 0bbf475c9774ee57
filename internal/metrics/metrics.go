// Package metrics exposes prometheus counters for ledger activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AllocationsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_allocations_applied_total",
		Help: "Expense allocations applied to buckets.",
	}, []string{"bucket"})

	AllocationsReversed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_allocations_reversed_total",
		Help: "Expense allocations reversed on unlink or delete.",
	}, []string{"bucket"})

	PaymentsMarked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fintrack_bill_payments_marked_total",
		Help: "Bill participant payments marked as paid.",
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_notifications_total",
		Help: "Notification triggers fired, by kind.",
	}, []string{"kind"})
)

const (
	BucketBudget      = "budget"
	BucketSavingsGoal = "savings_goal"
)
