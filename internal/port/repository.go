package port

import (
	"context"

	"github.com/google/uuid"

	"hotelpms/internal/domain"
)

// FinancialConfigRepository defines the contract for tenant tax configuration persistence.
type FinancialConfigRepository interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*domain.FinancialConfig, error)
	Upsert(ctx context.Context, cfg *domain.FinancialConfig) error
}

// PaymentRepository reads internally recorded payments.
// All query methods include tenantID to enforce tenant isolation at the data layer.
type PaymentRepository interface {
	GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error)
	// ListByWindow returns payments created inside the window, oldest first.
	// With excludeLinked, payments already linked to a settlement record are skipped.
	ListByWindow(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow, excludeLinked bool) ([]domain.Payment, error)
}

// SettlementRepository defines the contract for settlement imports and records.
type SettlementRepository interface {
	// CreateImport stores the import row and all of its records atomically.
	CreateImport(ctx context.Context, imp *domain.SettlementImport, records []domain.SettlementRecord) error
	GetImport(ctx context.Context, tenantID, importID uuid.UUID) (*domain.SettlementImport, error)
	ListImports(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.SettlementImport, int, error)
	// ClaimQueued moves up to limit queued imports to processing and returns them.
	ClaimQueued(ctx context.Context, limit int) ([]domain.SettlementImport, error)
	UpdateImportStatus(ctx context.Context, imp *domain.SettlementImport) error

	GetRecord(ctx context.Context, tenantID, recordID uuid.UUID) (*domain.SettlementRecord, error)
	ListUnmatchedByWindow(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) ([]domain.SettlementRecord, error)
	ListUnmatchedByImport(ctx context.Context, tenantID, importID uuid.UUID) ([]domain.SettlementRecord, error)
	// ListReconciliation returns every record in the window joined with its match, if any.
	ListReconciliation(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) ([]domain.ReconciliationRecord, error)
}

// MatchRepository defines the contract for settlement-to-payment links.
// At most one link exists per settlement record.
type MatchRepository interface {
	// Create returns domain.ErrSettlementAlreadyMatched when the settlement is already linked.
	Create(ctx context.Context, m *domain.ReconciliationMatch) error
	// CreateIfAbsent inserts m unless the settlement is already linked and
	// reports whether a row was written.
	CreateIfAbsent(ctx context.Context, m *domain.ReconciliationMatch) (bool, error)
	GetBySettlement(ctx context.Context, tenantID, settlementID uuid.UUID) (*domain.ReconciliationMatch, error)
	DeleteBySettlement(ctx context.Context, tenantID, settlementID uuid.UUID) error
}
