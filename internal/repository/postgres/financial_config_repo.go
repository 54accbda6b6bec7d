package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hotelpms/internal/domain"
	"hotelpms/internal/port"
)

type financialConfigRepo struct {
	db *sqlx.DB
}

// NewFinancialConfigRepo creates a new PostgreSQL-backed FinancialConfigRepository.
func NewFinancialConfigRepo(db *sqlx.DB) port.FinancialConfigRepository {
	return &financialConfigRepo{db: db}
}

func (r *financialConfigRepo) Get(ctx context.Context, tenantID uuid.UUID) (*domain.FinancialConfig, error) {
	var cfg domain.FinancialConfig
	err := r.db.GetContext(ctx, &cfg,
		"SELECT * FROM tenant_financial_configs WHERE tenant_id = $1", tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFinancialConfigNotFound
		}
		return nil, fmt.Errorf("financialConfigRepo.Get: %w", err)
	}
	return &cfg, nil
}

func (r *financialConfigRepo) Upsert(ctx context.Context, cfg *domain.FinancialConfig) error {
	now := time.Now().UTC()
	cfg.UpdatedAt = now

	query := `INSERT INTO tenant_financial_configs (
		tenant_id, currency, vat_rate, vat_inclusive,
		service_charge_rate, service_charge_inclusive,
		vat_applied_on, rounding_policy, updated_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	ON CONFLICT (tenant_id) DO UPDATE SET
		currency = EXCLUDED.currency,
		vat_rate = EXCLUDED.vat_rate,
		vat_inclusive = EXCLUDED.vat_inclusive,
		service_charge_rate = EXCLUDED.service_charge_rate,
		service_charge_inclusive = EXCLUDED.service_charge_inclusive,
		vat_applied_on = EXCLUDED.vat_applied_on,
		rounding_policy = EXCLUDED.rounding_policy,
		updated_by = EXCLUDED.updated_by,
		updated_at = EXCLUDED.updated_at
	RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		cfg.TenantID, cfg.Currency, cfg.VATRate, cfg.VATInclusive,
		cfg.ServiceChargeRate, cfg.ServiceChargeInclusive,
		cfg.VATAppliedOn, cfg.RoundingPolicy, cfg.UpdatedBy, now,
	).Scan(&cfg.CreatedAt)
	if err != nil {
		return fmt.Errorf("financialConfigRepo.Upsert: %w", err)
	}
	return nil
}
