// Command seedpayments converts a PMS payments export (XLSX) into a SQL seed
// for the payments table, so reconciliation can be exercised against a copy of
// production folio data.
// Usage: go run ./cmd/seedpayments <tenant-id> <payments.xlsx> [out.sql]
// Output defaults to db/seeds/payments.sql
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"hotelpms/internal/money"
	"hotelpms/internal/reconciliation"
)

const batchSize = 500

type paymentEntry struct {
	id                uuid.UUID
	bookingID         string // empty = NULL
	transactionRef    string
	providerReference string
	amount            money.Amount
	methodProvider    string
	createdAt         time.Time
}

// columns maps a normalized header to its index. Missing optional headers are -1.
type columns struct {
	id, booking, ref, providerRef, amount, provider, created int
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: seedpayments <tenant-id> <payments.xlsx> [out.sql]")
	}
	tenantID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}
	xlsxPath := args[1]
	outPath := "db/seeds/payments.sql"
	if len(args) > 2 {
		outPath = args[2]
	}

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("read first sheet: %w", err)
	}
	entries, skipped, err := parsePaymentRows(rows)
	if err != nil {
		return err
	}
	log.Printf("payments sheet: %d entries, %d rows skipped", len(entries), skipped)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create seeds dir: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Payments seed generated from a PMS export.",
		fmt.Sprintf("-- %d payments for tenant %s in batches of %d.", len(entries), tenantID, batchSize),
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	var b strings.Builder
	for i := 0; i < len(entries); i += batchSize {
		end := min(i+batchSize, len(entries))
		b.Reset()
		writeBatch(&b, tenantID, entries[i:end])
		if _, err := out.WriteString(b.String()); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}

	log.Printf("Generated %d payments (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

func locateColumns(header []string) (columns, error) {
	cols := columns{-1, -1, -1, -1, -1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.Join(strings.Fields(h), " ")) {
		case "payment id", "id":
			cols.id = i
		case "booking id", "booking":
			cols.booking = i
		case "transaction ref", "transaction reference", "reference":
			cols.ref = i
		case "provider reference", "provider ref":
			cols.providerRef = i
		case "amount":
			cols.amount = i
		case "provider", "method provider", "payment provider":
			cols.provider = i
		case "created at", "date", "paid at":
			cols.created = i
		}
	}
	if cols.amount < 0 || cols.created < 0 {
		return cols, fmt.Errorf("export must have amount and created at columns")
	}
	if cols.ref < 0 && cols.providerRef < 0 {
		return cols, fmt.Errorf("export must have a transaction ref or provider reference column")
	}
	return cols, nil
}

// parsePaymentRows reads the header row and converts every data row. Rows
// with an unparseable amount or date are skipped and counted.
func parsePaymentRows(rows [][]string) ([]paymentEntry, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("payments sheet is empty")
	}
	cols, err := locateColumns(rows[0])
	if err != nil {
		return nil, 0, err
	}

	var entries []paymentEntry
	skipped := 0
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		amount, aerr := money.ParseMajor(cellVal(row, cols.amount))
		created, ok := reconciliation.ParseTransactionDate(cellVal(row, cols.created))
		if aerr != nil || !ok {
			skipped++
			continue
		}

		id := uuid.New()
		if raw := cellVal(row, cols.id); raw != "" {
			if parsed, perr := uuid.Parse(raw); perr == nil {
				id = parsed
			}
		}
		booking := ""
		if raw := cellVal(row, cols.booking); raw != "" {
			if _, perr := uuid.Parse(raw); perr == nil {
				booking = raw
			}
		}

		entries = append(entries, paymentEntry{
			id:                id,
			bookingID:         booking,
			transactionRef:    cellVal(row, cols.ref),
			providerReference: cellVal(row, cols.providerRef),
			amount:            amount,
			methodProvider:    cellVal(row, cols.provider),
			createdAt:         created,
		})
	}
	return entries, skipped, nil
}

func writeBatch(b *strings.Builder, tenantID uuid.UUID, batch []paymentEntry) {
	if len(batch) == 0 {
		return
	}

	b.WriteString("INSERT INTO payments (id, tenant_id, booking_id, transaction_ref, provider_reference, amount, method_provider, created_at) VALUES\n")

	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}

		bookingVal := "NULL"
		if e.bookingID != "" {
			bookingVal = fmt.Sprintf("'%s'", e.bookingID)
		}

		fmt.Fprintf(b, "  ('%s', '%s', %s, '%s', '%s', %d, '%s', '%s')",
			e.id, tenantID, bookingVal,
			escapeSQL(e.transactionRef), escapeSQL(e.providerReference),
			e.amount.Minor(), escapeSQL(e.methodProvider),
			e.createdAt.UTC().Format(time.RFC3339))
	}

	b.WriteString("\nON CONFLICT (id) DO NOTHING;\n")
}

func cellVal(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
