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

// recordInsertBatch keeps multi-row inserts well under the 65535 bind parameter limit.
const recordInsertBatch = 1000

type settlementRepo struct {
	db *sqlx.DB
}

// NewSettlementRepo creates a new PostgreSQL-backed SettlementRepository.
func NewSettlementRepo(db *sqlx.DB) port.SettlementRepository {
	return &settlementRepo{db: db}
}

func (r *settlementRepo) CreateImport(ctx context.Context, imp *domain.SettlementImport, records []domain.SettlementRecord) error {
	now := time.Now().UTC()
	imp.CreatedAt = now
	imp.UpdatedAt = now
	imp.RowCount = len(records)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("settlementRepo.CreateImport begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO settlement_imports (
		id, tenant_id, file_name, format, s3_bucket, s3_key,
		status, attempts, row_count, window_start, window_end, error,
		created_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		imp.ID, imp.TenantID, imp.FileName, imp.Format, imp.S3Bucket, imp.S3Key,
		imp.Status, imp.Attempts, imp.RowCount, imp.WindowStart, imp.WindowEnd, imp.Error,
		imp.CreatedBy, imp.CreatedAt, imp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("settlementRepo.CreateImport import: %w", err)
	}

	for i := range records {
		records[i].TenantID = imp.TenantID
		records[i].ImportID = imp.ID
		records[i].CreatedAt = now
	}
	for start := 0; start < len(records); start += recordInsertBatch {
		end := min(start+recordInsertBatch, len(records))
		_, err = tx.NamedExecContext(ctx, `INSERT INTO settlement_records (
			id, tenant_id, import_id, row_number, reference, amount,
			transaction_date, transaction_at, provider_name, created_at
		) VALUES (
			:id, :tenant_id, :import_id, :row_number, :reference, :amount,
			:transaction_date, :transaction_at, :provider_name, :created_at
		)`, records[start:end])
		if err != nil {
			return fmt.Errorf("settlementRepo.CreateImport records: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("settlementRepo.CreateImport commit: %w", err)
	}
	return nil
}

func (r *settlementRepo) GetImport(ctx context.Context, tenantID, importID uuid.UUID) (*domain.SettlementImport, error) {
	var imp domain.SettlementImport
	err := r.db.GetContext(ctx, &imp,
		"SELECT * FROM settlement_imports WHERE id = $1 AND tenant_id = $2", importID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("settlementRepo.GetImport: %w", err)
	}
	return &imp, nil
}

func (r *settlementRepo) ListImports(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.SettlementImport, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM settlement_imports WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("settlementRepo.ListImports count: %w", err)
	}

	var imports []domain.SettlementImport
	err = r.db.SelectContext(ctx, &imports,
		`SELECT * FROM settlement_imports WHERE tenant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("settlementRepo.ListImports: %w", err)
	}
	return imports, total, nil
}

// ClaimQueued uses SKIP LOCKED so several workers can poll the same table.
func (r *settlementRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.SettlementImport, error) {
	var imports []domain.SettlementImport
	err := r.db.SelectContext(ctx, &imports,
		`UPDATE settlement_imports
		 SET status = $1, attempts = attempts + 1, updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM settlement_imports
			WHERE status = $2
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.ImportStatusProcessing, domain.ImportStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("settlementRepo.ClaimQueued: %w", err)
	}
	return imports, nil
}

func (r *settlementRepo) UpdateImportStatus(ctx context.Context, imp *domain.SettlementImport) error {
	imp.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE settlement_imports SET status = $1, error = $2, updated_at = $3
		 WHERE id = $4 AND tenant_id = $5`,
		imp.Status, imp.Error, imp.UpdatedAt, imp.ID, imp.TenantID)
	if err != nil {
		return fmt.Errorf("settlementRepo.UpdateImportStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *settlementRepo) GetRecord(ctx context.Context, tenantID, recordID uuid.UUID) (*domain.SettlementRecord, error) {
	var rec domain.SettlementRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM settlement_records WHERE id = $1 AND tenant_id = $2", recordID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, fmt.Errorf("settlementRepo.GetRecord: %w", err)
	}
	return &rec, nil
}

func (r *settlementRepo) ListUnmatchedByWindow(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) ([]domain.SettlementRecord, error) {
	var records []domain.SettlementRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT s.* FROM settlement_records s
		 WHERE s.tenant_id = $1
		   AND COALESCE(s.transaction_at, s.created_at) BETWEEN $2 AND $3
		   AND NOT EXISTS (
			SELECT 1 FROM reconciliation_matches m
			WHERE m.tenant_id = s.tenant_id AND m.settlement_id = s.id)
		 ORDER BY s.import_id, s.row_number`,
		tenantID, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("settlementRepo.ListUnmatchedByWindow: %w", err)
	}
	return records, nil
}

func (r *settlementRepo) ListUnmatchedByImport(ctx context.Context, tenantID, importID uuid.UUID) ([]domain.SettlementRecord, error) {
	var records []domain.SettlementRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT s.* FROM settlement_records s
		 WHERE s.tenant_id = $1 AND s.import_id = $2
		   AND NOT EXISTS (
			SELECT 1 FROM reconciliation_matches m
			WHERE m.tenant_id = s.tenant_id AND m.settlement_id = s.id)
		 ORDER BY s.row_number`,
		tenantID, importID)
	if err != nil {
		return nil, fmt.Errorf("settlementRepo.ListUnmatchedByImport: %w", err)
	}
	return records, nil
}

func (r *settlementRepo) ListReconciliation(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) ([]domain.ReconciliationRecord, error) {
	var records []domain.ReconciliationRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT s.id AS settlement_id, s.reference, s.amount, s.transaction_date,
		        s.provider_name, s.created_at,
		        m.payment_id, p.amount AS payment_amount, m.match_type, m.score
		 FROM settlement_records s
		 LEFT JOIN reconciliation_matches m ON m.tenant_id = s.tenant_id AND m.settlement_id = s.id
		 LEFT JOIN payments p ON p.id = m.payment_id AND p.tenant_id = s.tenant_id
		 WHERE s.tenant_id = $1
		   AND COALESCE(s.transaction_at, s.created_at) BETWEEN $2 AND $3
		 ORDER BY COALESCE(s.transaction_at, s.created_at), s.row_number`,
		tenantID, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("settlementRepo.ListReconciliation: %w", err)
	}
	return records, nil
}
