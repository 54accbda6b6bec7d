package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hotelpms/internal/domain"
	"hotelpms/internal/feed"
	"hotelpms/internal/logger"
	"hotelpms/internal/middleware"
	"hotelpms/internal/money"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidRate):
		return http.StatusBadRequest, "INVALID_RATE", "rates must be between 0 and 100"
	case errors.Is(err, domain.ErrInvalidVATBase):
		return http.StatusBadRequest, "INVALID_VAT_BASE", "vat_applied_on must be base or subtotal"
	case errors.Is(err, domain.ErrInvalidRoundingPolicy):
		return http.StatusBadRequest, "INVALID_ROUNDING_POLICY", "rounding_policy must be round, floor or ceil"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, money.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT", "amounts must be non-negative with at most two decimal places"
	case errors.Is(err, domain.ErrInvalidStay):
		return http.StatusBadRequest, "INVALID_STAY", "nights and room_count must be at least 1"
	case errors.Is(err, domain.ErrUnknownAddon):
		return http.StatusBadRequest, "UNKNOWN_ADDON", err.Error()
	case errors.Is(err, domain.ErrFinancialConfigNotFound):
		return http.StatusNotFound, "FINANCIAL_CONFIG_NOT_FOUND", "financial configuration has not been set for this hotel"
	case errors.Is(err, domain.ErrSettlementNotFound):
		return http.StatusNotFound, "SETTLEMENT_NOT_FOUND", "settlement record not found"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, "PAYMENT_NOT_FOUND", "payment not found"
	case errors.Is(err, domain.ErrSettlementAlreadyMatched):
		return http.StatusConflict, "SETTLEMENT_ALREADY_MATCHED", "settlement record is already matched; unmatch it first"
	case errors.Is(err, domain.ErrMatchNotFound):
		return http.StatusNotFound, "MATCH_NOT_FOUND", "settlement record has no match"
	case errors.Is(err, domain.ErrUnsupportedFeedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FEED_FORMAT", "unsupported settlement feed; allowed: csv, xlsx"
	case errors.Is(err, feed.ErrInvalidFeedRow):
		return http.StatusBadRequest, "INVALID_FEED_ROW", err.Error()
	case errors.Is(err, domain.ErrInvalidFeed):
		return http.StatusBadRequest, "INVALID_FEED", err.Error()
	case errors.Is(err, domain.ErrEmptyFeed):
		return http.StatusBadRequest, "EMPTY_FEED", "settlement feed contains no rows"
	case errors.Is(err, domain.ErrInvalidWindow):
		return http.StatusBadRequest, "INVALID_WINDOW", "from must be before to"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", "too many requests; slow down"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts tenant ID and user ID from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (tenantID, userID uuid.UUID, ok bool) {
	var err error
	tenantID, err = middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, userID, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logger.FromContext(c.Request.Context()).Error("internal error", "error", err)
	}
	RespondError(c, status, code, msg)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
