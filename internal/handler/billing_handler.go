package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotelpms/internal/domain"
	"hotelpms/internal/money"
	"hotelpms/internal/service"
	"hotelpms/internal/tax"
)

// BillingHandler handles tax configuration and quote endpoints.
type BillingHandler struct {
	billingService service.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

type updateFinancialConfigRequest struct {
	Currency               string               `json:"currency"`
	VATRate                decimal.Decimal      `json:"vat_rate"`
	VATInclusive           bool                 `json:"vat_inclusive"`
	ServiceChargeRate      decimal.Decimal      `json:"service_charge_rate"`
	ServiceChargeInclusive bool                 `json:"service_charge_inclusive"`
	VATAppliedOn           domain.VATBase       `json:"vat_applied_on" binding:"required"`
	RoundingPolicy         money.RoundingPolicy `json:"rounding_policy" binding:"required"`
}

type amountRequest struct {
	Amount money.Amount `json:"amount"`
}

type balanceDueRequest struct {
	Total       money.Amount `json:"total"`
	DepositPaid money.Amount `json:"deposit_paid"`
}

type bookingQuoteRequest struct {
	RoomRate    money.Amount `json:"room_rate"`
	Nights      int          `json:"nights"`
	RoomCount   int          `json:"room_count"`
	AddonIDs    []string     `json:"addon_ids"`
	DepositPaid money.Amount `json:"deposit_paid"`
}

// GetConfig handles GET /api/v1/billing/config
// @Summary Get financial configuration
// @Description Get the hotel's VAT, service charge and rounding settings
// @Tags billing
// @Produce json
// @Success 200 {object} Response{data=domain.FinancialConfig} "Financial configuration"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Configuration not set"
// @Security BearerAuth
// @Router /billing/config [get]
func (h *BillingHandler) GetConfig(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	cfg, err := h.billingService.GetConfig(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, cfg)
}

// UpdateConfig handles PUT /api/v1/billing/config
// @Summary Update financial configuration
// @Description Replace the hotel's VAT, service charge and rounding settings (admin or finance)
// @Tags billing
// @Accept json
// @Produce json
// @Param request body UpdateFinancialConfigRequest true "Financial configuration"
// @Success 200 {object} Response{data=domain.FinancialConfig} "Configuration updated"
// @Failure 400 {object} ErrorResponseBody "Invalid rate, VAT base or rounding policy"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Security BearerAuth
// @Router /billing/config [put]
func (h *BillingHandler) UpdateConfig(c *gin.Context) {
	tenantID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req updateFinancialConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, err := h.billingService.UpdateConfig(c.Request.Context(), &service.UpdateFinancialConfigInput{
		TenantID:               tenantID,
		UpdatedBy:              userID,
		Currency:               req.Currency,
		VATRate:                req.VATRate,
		VATInclusive:           req.VATInclusive,
		ServiceChargeRate:      req.ServiceChargeRate,
		ServiceChargeInclusive: req.ServiceChargeInclusive,
		VATAppliedOn:           req.VATAppliedOn,
		RoundingPolicy:         req.RoundingPolicy,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, cfg)
}

// TaxQuote handles POST /api/v1/billing/tax-quote
// @Summary Quote tax on a base amount
// @Description Apply the hotel's VAT and service charge to a base amount
// @Tags billing
// @Accept json
// @Produce json
// @Param request body AmountRequest true "Base amount in major units"
// @Success 200 {object} Response{data=tax.Breakdown} "Tax breakdown"
// @Failure 400 {object} ErrorResponseBody "Invalid amount"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Configuration not set"
// @Security BearerAuth
// @Router /billing/tax-quote [post]
func (h *BillingHandler) TaxQuote(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	breakdown, err := h.billingService.QuoteTax(c.Request.Context(), tenantID, req.Amount)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, breakdown)
}

// InclusiveQuote handles POST /api/v1/billing/inclusive-quote
// @Summary Split a VAT-inclusive total
// @Description Preview the base and VAT portions of a total that already includes VAT
// @Tags billing
// @Accept json
// @Produce json
// @Param request body AmountRequest true "Inclusive total in major units"
// @Success 200 {object} Response{data=tax.InclusiveBreakdown} "Inclusive breakdown"
// @Failure 400 {object} ErrorResponseBody "Invalid amount"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Configuration not set"
// @Security BearerAuth
// @Router /billing/inclusive-quote [post]
func (h *BillingHandler) InclusiveQuote(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	preview, err := h.billingService.QuoteInclusive(c.Request.Context(), tenantID, req.Amount)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, preview)
}

// BookingQuote handles POST /api/v1/billing/booking-quote
// @Summary Quote a group booking
// @Description Price rooms, nights and add-ons, apply taxes and subtract the deposit
// @Tags billing
// @Accept json
// @Produce json
// @Param request body BookingQuoteRequest true "Booking parameters"
// @Success 200 {object} Response{data=tax.BookingCalculationResult} "Booking quote"
// @Failure 400 {object} ErrorResponseBody "Invalid stay, amount or unknown add-on"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Configuration not set"
// @Security BearerAuth
// @Router /billing/booking-quote [post]
func (h *BillingHandler) BookingQuote(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req bookingQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.billingService.QuoteBooking(c.Request.Context(), tenantID, tax.BookingParams{
		RoomRate:    req.RoomRate,
		Nights:      req.Nights,
		RoomCount:   req.RoomCount,
		AddonIDs:    req.AddonIDs,
		DepositPaid: req.DepositPaid,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// BalanceDue handles POST /api/v1/billing/balance-due
// @Summary Compute the outstanding balance
// @Description Total minus deposit, floored at zero
// @Tags billing
// @Accept json
// @Produce json
// @Param request body BalanceDueRequest true "Total and deposit"
// @Success 200 {object} Response{data=BalanceDueResponse} "Balance due"
// @Failure 400 {object} ErrorResponseBody "Invalid amount"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /billing/balance-due [post]
func (h *BillingHandler) BalanceDue(c *gin.Context) {
	if _, _, ok := extractAuthContext(c); !ok {
		return
	}

	var req balanceDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	due, err := h.billingService.BalanceDue(req.Total, req.DepositPaid)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"balance_due": due})
}

// ListAddons handles GET /api/v1/billing/addons
// @Summary List booking add-ons
// @Description List the add-ons that can be attached to a booking quote
// @Tags billing
// @Produce json
// @Success 200 {object} Response{data=[]tax.AddonDefinition} "Add-on catalog"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /billing/addons [get]
func (h *BillingHandler) ListAddons(c *gin.Context) {
	RespondOK(c, h.billingService.ListAddons())
}
