package handler

import (
	"hotelpms/internal/reconciliation"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// UpdateFinancialConfigRequest represents the financial configuration request body.
type UpdateFinancialConfigRequest struct {
	Currency               string `json:"currency" example:"NGN"`
	VATRate                string `json:"vat_rate" example:"7.5"`
	VATInclusive           bool   `json:"vat_inclusive" example:"false"`
	ServiceChargeRate      string `json:"service_charge_rate" example:"10"`
	ServiceChargeInclusive bool   `json:"service_charge_inclusive" example:"false"`
	VATAppliedOn           string `json:"vat_applied_on" binding:"required" example:"subtotal" enums:"base,subtotal"`
	RoundingPolicy         string `json:"rounding_policy" binding:"required" example:"round" enums:"round,floor,ceil"`
}

// AmountRequest carries a single amount in major currency units.
type AmountRequest struct {
	Amount string `json:"amount" example:"10000.00"`
}

// BalanceDueRequest represents the balance due request body.
type BalanceDueRequest struct {
	Total       string `json:"total" example:"11825.00"`
	DepositPaid string `json:"deposit_paid" example:"5000.00"`
}

// BookingQuoteRequest represents the group booking quote request body.
type BookingQuoteRequest struct {
	RoomRate    string   `json:"room_rate" example:"20000.00"`
	Nights      int      `json:"nights" example:"2"`
	RoomCount   int      `json:"room_count" example:"2"`
	AddonIDs    []string `json:"addon_ids" example:"breakfast,airport_pickup"`
	DepositPaid string   `json:"deposit_paid" example:"50000.00"`
}

// RunWindowRequest bounds an automatic matching run.
type RunWindowRequest struct {
	From string `json:"from" example:"2026-10-01"`
	To   string `json:"to" example:"2026-10-15T23:59:59Z"`
}

// ScoreRequest represents the ad-hoc scoring request body.
type ScoreRequest struct {
	External reconciliation.ExternalTransaction `json:"external" binding:"required"`
	Payments []reconciliation.InternalPayment   `json:"payments"`
}

// ManualMatchRequest represents the manual match request body.
type ManualMatchRequest struct {
	SettlementID string `json:"settlement_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	PaymentID    string `json:"payment_id" binding:"required" example:"660e8400-e29b-41d4-a716-446655440001"`
	Notes        string `json:"notes" example:"Guest paid twice, second transfer refunded"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// BalanceDueResponse represents the balance due response.
type BalanceDueResponse struct {
	BalanceDue string `json:"balance_due" example:"6825.00"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
