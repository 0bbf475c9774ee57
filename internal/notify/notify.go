// Package notify defines the trigger contract between the ledger engines
// and the notification delivery system. Delivery itself lives elsewhere;
// the engines only fire triggers and never wait on or fail with them.
package notify

import (
	"context"

	"fintrack-go/internal/metrics"
	"fintrack-go/pkg/logger"
)

type Kind string

const (
	KindBillPaid             Kind = "bill_paid"
	KindBillPartiallyPaid    Kind = "bill_partially_paid"
	KindBudgetAlert          Kind = "budget_alert"
	KindBudgetExceeded       Kind = "budget_exceeded"
	KindSavingsGoalAchieved  Kind = "savings_goal_achieved"
	KindSavingsGoalMilestone Kind = "savings_goal_milestone"
	KindPaymentRequest       Kind = "payment_request"
)

// Notifier is fire-and-forget: implementations swallow and log their own
// failures. A trigger must never block or roll back the mutation that
// produced it.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind Kind, payload map[string]any)
}

// LogNotifier records triggers to the structured log and the notification
// counter. It stands in for real delivery, which is out of scope here.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, userID string, kind Kind, payload map[string]any) {
	metrics.NotificationsTotal.WithLabelValues(string(kind)).Inc()
	n.log.Info("notify: trigger fired", "user_id", userID, "kind", string(kind), "payload", payload)
}

// Nop discards every trigger.
type Nop struct{}

func (Nop) Notify(context.Context, string, Kind, map[string]any) {}
