// Command backfill fills settlement_records.transaction_at for rows whose raw
// transaction_date could not be parsed at import time, e.g. after a new date
// layout was added to the feed parser.
// Usage: go run ./cmd/backfill
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"hotelpms/internal/config"
	"hotelpms/internal/domain"
	"hotelpms/internal/repository/postgres"
	"hotelpms/internal/reconciliation"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	after := uuid.Nil
	updated, unparseable := 0, 0

	for {
		var records []domain.SettlementRecord
		err := db.SelectContext(ctx, &records,
			`SELECT id, tenant_id, import_id, row_number, reference, amount,
				transaction_date, transaction_at, provider_name, created_at
			 FROM settlement_records
			 WHERE transaction_at IS NULL AND id > $1
			 ORDER BY id
			 LIMIT $2`, after, batchSize)
		if err != nil {
			return fmt.Errorf("querying settlement records after %s: %w", after, err)
		}
		if len(records) == 0 {
			break
		}

		for i := range records {
			rec := &records[i]
			at, ok := reconciliation.ParseTransactionDate(rec.TransactionDate)
			if !ok {
				unparseable++
				continue
			}
			if _, err := db.ExecContext(ctx,
				`UPDATE settlement_records SET transaction_at = $1 WHERE id = $2 AND tenant_id = $3`,
				at, rec.ID, rec.TenantID); err != nil {
				log.Printf("WARN: failed to update settlement record %s: %v", rec.ID, err)
				continue
			}
			updated++
		}

		after = records[len(records)-1].ID
		if updated > 0 && updated%batchSize == 0 {
			log.Printf("Progress: %d settlement records updated", updated)
		}
	}

	log.Printf("Backfill complete: %d settlement records updated, %d still unparseable", updated, unparseable)
	return nil
}
