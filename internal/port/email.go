package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hotelpms/internal/money"
)

// ReconciliationAlert describes a run that left settlement records unmatched.
type ReconciliationAlert struct {
	TenantID        uuid.UUID
	ImportID        *uuid.UUID
	WindowFrom      time.Time
	WindowTo        time.Time
	Considered      int
	Matched         int
	Unmatched       int
	UnmatchedAmount money.Amount
}

// AlertSender defines the contract for sending finance alert emails.
type AlertSender interface {
	SendReconciliationAlert(ctx context.Context, to []string, alert ReconciliationAlert) error
}
