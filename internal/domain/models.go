package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hotelpms/internal/money"
)

// FinancialConfig is a tenant's tax and charge configuration.
// Rates are percentages in the range 0–100.
type FinancialConfig struct {
	TenantID               uuid.UUID            `db:"tenant_id" json:"tenant_id"`
	Currency               string               `db:"currency" json:"currency"`
	VATRate                decimal.Decimal      `db:"vat_rate" json:"vat_rate"`
	VATInclusive           bool                 `db:"vat_inclusive" json:"vat_inclusive"`
	ServiceChargeRate      decimal.Decimal      `db:"service_charge_rate" json:"service_charge_rate"`
	ServiceChargeInclusive bool                 `db:"service_charge_inclusive" json:"service_charge_inclusive"`
	VATAppliedOn           VATBase              `db:"vat_applied_on" json:"vat_applied_on"`
	RoundingPolicy         money.RoundingPolicy `db:"rounding_policy" json:"rounding_policy"`
	UpdatedBy              *uuid.UUID           `db:"updated_by" json:"updated_by"`
	CreatedAt              time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time            `db:"updated_at" json:"updated_at"`
}

// Payment is an internally recorded payment against a folio or booking.
// Payments are written by the folio module; this service only reads them.
type Payment struct {
	ID                uuid.UUID    `db:"id" json:"id"`
	TenantID          uuid.UUID    `db:"tenant_id" json:"tenant_id"`
	BookingID         *uuid.UUID   `db:"booking_id" json:"booking_id"`
	TransactionRef    string       `db:"transaction_ref" json:"transaction_ref"`
	ProviderReference string       `db:"provider_reference" json:"provider_reference"`
	Amount            money.Amount `db:"amount" json:"amount"`
	MethodProvider    string       `db:"method_provider" json:"method_provider"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
}

// SettlementImport tracks one uploaded settlement feed file.
type SettlementImport struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	TenantID    uuid.UUID    `db:"tenant_id" json:"tenant_id"`
	FileName    string       `db:"file_name" json:"file_name"`
	Format      FeedFormat   `db:"format" json:"format"`
	S3Bucket    string       `db:"s3_bucket" json:"s3_bucket"`
	S3Key       string       `db:"s3_key" json:"s3_key"`
	Status      ImportStatus `db:"status" json:"status"`
	Attempts    int          `db:"attempts" json:"attempts"`
	RowCount    int          `db:"row_count" json:"row_count"`
	WindowStart time.Time    `db:"window_start" json:"window_start"`
	WindowEnd   time.Time    `db:"window_end" json:"window_end"`
	Error       string       `db:"error" json:"error"`
	CreatedBy   uuid.UUID    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// SettlementRecord is one externally reported transaction from a settlement feed.
// TransactionDate is kept exactly as reported; it may be empty or malformed.
// TransactionAt is its parsed form, nil when it could not be parsed.
type SettlementRecord struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	TenantID        uuid.UUID    `db:"tenant_id" json:"tenant_id"`
	ImportID        uuid.UUID    `db:"import_id" json:"import_id"`
	RowNumber       int          `db:"row_number" json:"row_number"`
	Reference       string       `db:"reference" json:"reference"`
	Amount          money.Amount `db:"amount" json:"amount"`
	TransactionDate string       `db:"transaction_date" json:"transaction_date"`
	TransactionAt   *time.Time   `db:"transaction_at" json:"transaction_at"`
	ProviderName    string       `db:"provider_name" json:"provider_name"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

// ReconciliationMatch links one settlement record to one payment.
// At most one match exists per settlement record.
type ReconciliationMatch struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	TenantID     uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	SettlementID uuid.UUID       `db:"settlement_id" json:"settlement_id"`
	PaymentID    uuid.UUID       `db:"payment_id" json:"payment_id"`
	MatchType    MatchType       `db:"match_type" json:"match_type"`
	Score        *int            `db:"score" json:"score"`
	Confidence   *string         `db:"confidence" json:"confidence"`
	Reasons      json.RawMessage `db:"reasons" json:"reasons"`
	Notes        string          `db:"notes" json:"notes"`
	MatchedBy    *uuid.UUID      `db:"matched_by" json:"matched_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// ReconciliationRecord is a settlement record joined with its match, if any.
// Status is derived in the service layer and never stored.
type ReconciliationRecord struct {
	SettlementID    uuid.UUID            `db:"settlement_id" json:"settlement_id"`
	Reference       string               `db:"reference" json:"reference"`
	Amount          money.Amount         `db:"amount" json:"amount"`
	TransactionDate string               `db:"transaction_date" json:"transaction_date"`
	ProviderName    string               `db:"provider_name" json:"provider_name"`
	PaymentID       *uuid.UUID           `db:"payment_id" json:"payment_id"`
	PaymentAmount   *money.Amount        `db:"payment_amount" json:"payment_amount"`
	MatchType       *MatchType           `db:"match_type" json:"match_type"`
	Score           *int                 `db:"score" json:"score"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
	Status          ReconciliationStatus `db:"-" json:"status"`
}

// ReconciliationWindow bounds the settlement records and payments considered by a run.
type ReconciliationWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Valid reports whether the window is non-empty and ordered.
func (w ReconciliationWindow) Valid() bool {
	return !w.From.IsZero() && !w.To.IsZero() && !w.To.Before(w.From)
}

// MatchRunStats reports what an automatic matching run did.
type MatchRunStats struct {
	Considered      int `json:"considered"`
	Proposed        int `json:"proposed"`
	Persisted       int `json:"persisted"`
	SkippedExisting int `json:"skipped_existing"`
	Unmatched       int `json:"unmatched"`
}
