package domain

// UserRole defines the role hierarchy within a tenant.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleFinance   UserRole = "finance"
	RoleFrontDesk UserRole = "front_desk"
	RoleViewer    UserRole = "viewer"
)

// VATBase selects what the second charge in the tax chain is computed on.
type VATBase string

const (
	// VATAppliedOnBase computes VAT and service charge independently on the base amount.
	// With exclusive VAT the service charge is therefore not charged on VAT; choose
	// VATAppliedOnSubtotal for the chained base+VAT service-charge base.
	VATAppliedOnBase VATBase = "base"
	// VATAppliedOnSubtotal chains the charges: service charge is computed on base plus VAT.
	VATAppliedOnSubtotal VATBase = "subtotal"
)

// Valid reports whether b is a known VAT base.
func (b VATBase) Valid() bool {
	return b == VATAppliedOnBase || b == VATAppliedOnSubtotal
}

// AddonChargeType controls how an add-on quantity scales with a stay.
type AddonChargeType string

const (
	ChargePerNight AddonChargeType = "per_night"
	ChargeOneTime  AddonChargeType = "one_time"
)

// ReconciliationStatus classifies a settlement record after matching.
type ReconciliationStatus string

const (
	ReconciliationMatched   ReconciliationStatus = "matched"
	ReconciliationUnmatched ReconciliationStatus = "unmatched"
	ReconciliationPartial   ReconciliationStatus = "partial"
	ReconciliationOverpaid  ReconciliationStatus = "overpaid"
)

// MatchType records how a settlement-to-payment link was created.
type MatchType string

const (
	MatchTypeAuto   MatchType = "auto"
	MatchTypeManual MatchType = "manual"
)

// ImportStatus represents the lifecycle of an imported settlement feed.
type ImportStatus string

const (
	ImportStatusQueued     ImportStatus = "queued"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// FeedFormat is the file format of a settlement feed.
type FeedFormat string

const (
	FeedFormatCSV  FeedFormat = "csv"
	FeedFormatXLSX FeedFormat = "xlsx"
)

// AllowedFeedContentTypes maps feed formats to their MIME content type.
var AllowedFeedContentTypes = map[FeedFormat]string{
	FeedFormatCSV:  "text/csv",
	FeedFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}
