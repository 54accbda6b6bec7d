package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hotelpms/internal/domain"
	"hotelpms/internal/port"
)

const matchColumns = `id, tenant_id, settlement_id, payment_id, match_type,
	score, confidence, reasons, notes, matched_by, created_at`

type matchRepo struct {
	db *sqlx.DB
}

// NewMatchRepo creates a new PostgreSQL-backed MatchRepository.
func NewMatchRepo(db *sqlx.DB) port.MatchRepository {
	return &matchRepo{db: db}
}

func (r *matchRepo) Create(ctx context.Context, m *domain.ReconciliationMatch) error {
	prepareMatch(m)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reconciliation_matches (`+matchColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		matchArgs(m)...)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrSettlementAlreadyMatched
		}
		return fmt.Errorf("matchRepo.Create: %w", err)
	}
	return nil
}

func (r *matchRepo) CreateIfAbsent(ctx context.Context, m *domain.ReconciliationMatch) (bool, error) {
	prepareMatch(m)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reconciliation_matches (`+matchColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (tenant_id, settlement_id) DO NOTHING`,
		matchArgs(m)...)
	if err != nil {
		return false, fmt.Errorf("matchRepo.CreateIfAbsent: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *matchRepo) GetBySettlement(ctx context.Context, tenantID, settlementID uuid.UUID) (*domain.ReconciliationMatch, error) {
	var m domain.ReconciliationMatch
	err := r.db.GetContext(ctx, &m,
		"SELECT "+matchColumns+" FROM reconciliation_matches WHERE tenant_id = $1 AND settlement_id = $2",
		tenantID, settlementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, fmt.Errorf("matchRepo.GetBySettlement: %w", err)
	}
	return &m, nil
}

func (r *matchRepo) DeleteBySettlement(ctx context.Context, tenantID, settlementID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM reconciliation_matches WHERE tenant_id = $1 AND settlement_id = $2",
		tenantID, settlementID)
	if err != nil {
		return fmt.Errorf("matchRepo.DeleteBySettlement: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}

func prepareMatch(m *domain.ReconciliationMatch) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if len(m.Reasons) == 0 {
		m.Reasons = []byte("[]")
	}
	m.CreatedAt = time.Now().UTC()
}

func matchArgs(m *domain.ReconciliationMatch) []interface{} {
	return []interface{}{
		m.ID, m.TenantID, m.SettlementID, m.PaymentID, m.MatchType,
		m.Score, m.Confidence, string(m.Reasons), m.Notes, m.MatchedBy, m.CreatedAt,
	}
}
