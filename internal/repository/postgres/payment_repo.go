package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hotelpms/internal/domain"
	"hotelpms/internal/port"
)

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new PostgreSQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM payments WHERE id = $1 AND tenant_id = $2", paymentID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *paymentRepo) ListByWindow(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow, excludeLinked bool) ([]domain.Payment, error) {
	query := `SELECT p.* FROM payments p
		WHERE p.tenant_id = $1 AND p.created_at >= $2 AND p.created_at <= $3`
	if excludeLinked {
		query += ` AND NOT EXISTS (
			SELECT 1 FROM reconciliation_matches m
			WHERE m.tenant_id = p.tenant_id AND m.payment_id = p.id)`
	}
	query += " ORDER BY p.created_at, p.id"

	var payments []domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, tenantID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByWindow: %w", err)
	}
	return payments, nil
}
