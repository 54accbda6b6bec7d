package noop

import (
	"context"

	"hotelpms/internal/logger"
	"hotelpms/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op AlertSender that only logs the alert.
func NewNoopSender() port.AlertSender {
	return &noopSender{}
}

func (s *noopSender) SendReconciliationAlert(ctx context.Context, to []string, alert port.ReconciliationAlert) error {
	logger.FromContext(ctx).Info("noop email: reconciliation alert",
		"to", to,
		"tenant_id", alert.TenantID,
		"unmatched", alert.Unmatched,
		"unmatched_amount", alert.UnmatchedAmount.String(),
	)
	return nil
}
