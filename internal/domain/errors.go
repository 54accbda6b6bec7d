package domain

import "errors"

var (
	ErrNotFound                 = errors.New("resource not found")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrForbidden                = errors.New("forbidden")
	ErrInvalidRate              = errors.New("rate must be between 0 and 100")
	ErrInvalidVATBase           = errors.New("vat_applied_on must be base or subtotal")
	ErrInvalidRoundingPolicy    = errors.New("rounding_policy must be round, floor or ceil")
	ErrInvalidAmount            = errors.New("invalid monetary amount")
	ErrInvalidStay              = errors.New("nights and room_count must be positive")
	ErrUnknownAddon             = errors.New("unknown add-on")
	ErrFinancialConfigNotFound  = errors.New("financial configuration not set for tenant")
	ErrSettlementNotFound       = errors.New("settlement record not found")
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrSettlementAlreadyMatched = errors.New("settlement record is already matched")
	ErrMatchNotFound            = errors.New("settlement record has no match")
	ErrUnsupportedFeedFormat    = errors.New("unsupported settlement feed format")
	ErrInvalidFeed              = errors.New("settlement feed could not be parsed")
	ErrEmptyFeed                = errors.New("settlement feed contains no rows")
	ErrInvalidWindow            = errors.New("invalid reconciliation window")
	ErrUploadFailed             = errors.New("file upload to storage failed")
	ErrFileTooLarge             = errors.New("file exceeds the maximum upload size")
	ErrRateLimited              = errors.New("too many requests")
)
