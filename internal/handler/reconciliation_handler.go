package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hotelpms/internal/csvexport"
	"hotelpms/internal/domain"
	"hotelpms/internal/reconciliation"
	"hotelpms/internal/service"
)

const (
	defaultCandidateLimit = 5
	maxCandidateLimit     = 50
	dateOnlyLayout        = "2006-01-02"
)

// ReconciliationHandler handles settlement import, matching and reporting endpoints.
type ReconciliationHandler struct {
	reconService service.ReconciliationService
	now          func() time.Time
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconService: reconService,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type runWindowRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type scoreRequest struct {
	External reconciliation.ExternalTransaction `json:"external" binding:"required"`
	Payments []reconciliation.InternalPayment   `json:"payments"`
}

type manualMatchRequest struct {
	SettlementID string `json:"settlement_id" binding:"required"`
	PaymentID    string `json:"payment_id" binding:"required"`
	Notes        string `json:"notes"`
}

// parseWindowBound accepts RFC3339 timestamps or plain dates. A plain date
// used as the upper bound covers the whole day.
func parseWindowBound(s string, upper bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}

// resolveWindow turns optional from/to strings into a window. Both empty
// selects the default lookback window.
func (h *ReconciliationHandler) resolveWindow(from, to string) (domain.ReconciliationWindow, error) {
	if from == "" && to == "" {
		return h.reconService.DefaultWindow(h.now()), nil
	}
	if from == "" || to == "" {
		return domain.ReconciliationWindow{}, domain.ErrInvalidWindow
	}
	f, ok := parseWindowBound(from, false)
	if !ok {
		return domain.ReconciliationWindow{}, domain.ErrInvalidWindow
	}
	t, ok := parseWindowBound(to, true)
	if !ok {
		return domain.ReconciliationWindow{}, domain.ErrInvalidWindow
	}
	w := domain.ReconciliationWindow{From: f, To: t}
	if !w.Valid() {
		return domain.ReconciliationWindow{}, domain.ErrInvalidWindow
	}
	return w, nil
}

func (h *ReconciliationHandler) windowFromQuery(c *gin.Context) (domain.ReconciliationWindow, bool) {
	w, err := h.resolveWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		HandleError(c, err)
		return domain.ReconciliationWindow{}, false
	}
	return w, true
}

// UploadFeed handles POST /api/v1/reconciliation/imports
// @Summary Upload a settlement feed
// @Description Upload a payment provider settlement file (CSV or XLSX). Rows are stored and queued for auto-matching.
// @Tags reconciliation
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Settlement feed (CSV or XLSX)"
// @Success 201 {object} Response{data=domain.SettlementImport} "Feed accepted"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported format or malformed rows"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /reconciliation/imports [post]
func (h *ReconciliationHandler) UploadFeed(c *gin.Context) {
	tenantID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	imp, err := h.reconService.ImportFeed(c.Request.Context(), &service.ImportFeedInput{
		TenantID:   tenantID,
		UploadedBy: userID,
		FileName:   header.Filename,
		Size:       header.Size,
		Body:       file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, imp)
}

// ListImports handles GET /api/v1/reconciliation/imports
// @Summary List settlement imports
// @Description List uploaded settlement feeds, newest first
// @Tags reconciliation
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(20)
// @Success 200 {object} Response{data=[]domain.SettlementImport} "Imports"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /reconciliation/imports [get]
func (h *ReconciliationHandler) ListImports(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	imports, total, err := h.reconService.ListImports(c.Request.Context(), tenantID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, imports, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetImport handles GET /api/v1/reconciliation/imports/:id
// @Summary Get a settlement import
// @Description Get an import with its processing status and a short-lived download link to the raw file
// @Tags reconciliation
// @Produce json
// @Param id path string true "Import ID"
// @Success 200 {object} Response{data=service.ImportDetails} "Import details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Import not found"
// @Security BearerAuth
// @Router /reconciliation/imports/{id} [get]
func (h *ReconciliationHandler) GetImport(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	importID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid import ID")
		return
	}

	details, err := h.reconService.GetImport(c.Request.Context(), tenantID, importID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, details)
}

// RunAutoMatch handles POST /api/v1/reconciliation/runs
// @Summary Run automatic matching
// @Description Match unmatched settlement records in the window against payments. An empty body uses the default lookback window.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body RunWindowRequest false "Window (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} Response{data=domain.MatchRunStats} "Run statistics"
// @Failure 400 {object} ErrorResponseBody "Invalid window"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Security BearerAuth
// @Router /reconciliation/runs [post]
func (h *ReconciliationHandler) RunAutoMatch(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req runWindowRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	window, err := h.resolveWindow(req.From, req.To)
	if err != nil {
		HandleError(c, err)
		return
	}

	stats, err := h.reconService.RunAutoMatch(c.Request.Context(), tenantID, window)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}

// Score handles POST /api/v1/reconciliation/score
// @Summary Score a transaction against payments
// @Description Score one external transaction against the given payments without persisting anything
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body ScoreRequest true "Transaction and candidate payments"
// @Success 200 {object} Response{data=[]reconciliation.TransactionMatch} "Candidates, best first"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /reconciliation/score [post]
func (h *ReconciliationHandler) Score(c *gin.Context) {
	if _, _, ok := extractAuthContext(c); !ok {
		return
	}

	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	matches := h.reconService.Score(&req.External, req.Payments)
	if matches == nil {
		matches = []reconciliation.TransactionMatch{}
	}
	RespondOK(c, matches)
}

// Candidates handles GET /api/v1/reconciliation/settlements/:id/candidates
// @Summary Suggest payments for a settlement record
// @Description Score payments created around the record's transaction date, best first
// @Tags reconciliation
// @Produce json
// @Param id path string true "Settlement record ID"
// @Param limit query int false "Maximum candidates, capped at 50" default(5)
// @Success 200 {object} Response{data=[]reconciliation.TransactionMatch} "Candidates"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Settlement record not found"
// @Security BearerAuth
// @Router /reconciliation/settlements/{id}/candidates [get]
func (h *ReconciliationHandler) Candidates(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid settlement ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultCandidateLimit)))
	if limit <= 0 {
		limit = defaultCandidateLimit
	}
	if limit > maxCandidateLimit {
		limit = maxCandidateLimit
	}

	matches, err := h.reconService.Candidates(c.Request.Context(), tenantID, settlementID, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	if matches == nil {
		matches = []reconciliation.TransactionMatch{}
	}

	RespondOK(c, matches)
}

// ManualMatch handles POST /api/v1/reconciliation/matches
// @Summary Match a settlement record by hand
// @Description Link a settlement record to a payment with optional notes
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body ManualMatchRequest true "Settlement and payment IDs"
// @Success 201 {object} Response{data=domain.ReconciliationMatch} "Match created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Failure 404 {object} ErrorResponseBody "Settlement record or payment not found"
// @Failure 409 {object} ErrorResponseBody "Settlement record already matched"
// @Security BearerAuth
// @Router /reconciliation/matches [post]
func (h *ReconciliationHandler) ManualMatch(c *gin.Context) {
	tenantID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req manualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	settlementID, err := uuid.Parse(req.SettlementID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid settlement ID")
		return
	}
	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid payment ID")
		return
	}

	match, err := h.reconService.ManualMatch(c.Request.Context(), &service.ManualMatchInput{
		TenantID:     tenantID,
		UserID:       userID,
		SettlementID: settlementID,
		PaymentID:    paymentID,
		Notes:        req.Notes,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, match)
}

// Unmatch handles DELETE /api/v1/reconciliation/matches/:settlement_id
// @Summary Remove a match
// @Description Unlink a settlement record from its payment
// @Tags reconciliation
// @Produce json
// @Param settlement_id path string true "Settlement record ID"
// @Success 200 {object} Response{data=MessageResponse} "Match removed"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Failure 404 {object} ErrorResponseBody "No match for the settlement record"
// @Security BearerAuth
// @Router /reconciliation/matches/{settlement_id} [delete]
func (h *ReconciliationHandler) Unmatch(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	settlementID, err := uuid.Parse(c.Param("settlement_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid settlement ID")
		return
	}

	if err := h.reconService.Unmatch(c.Request.Context(), tenantID, settlementID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "match removed"})
}

// ListRecords handles GET /api/v1/reconciliation/records
// @Summary List reconciliation records
// @Description List settlement records in the window with their match and status
// @Tags reconciliation
// @Produce json
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} Response{data=[]domain.ReconciliationRecord} "Records"
// @Failure 400 {object} ErrorResponseBody "Invalid window"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /reconciliation/records [get]
func (h *ReconciliationHandler) ListRecords(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	window, ok := h.windowFromQuery(c)
	if !ok {
		return
	}

	records, err := h.reconService.ListRecords(c.Request.Context(), tenantID, window)
	if err != nil {
		HandleError(c, err)
		return
	}
	if records == nil {
		records = []domain.ReconciliationRecord{}
	}

	RespondOK(c, records)
}

// Summary handles GET /api/v1/reconciliation/summary
// @Summary Reconciliation summary
// @Description Counts and totals per reconciliation status for the window
// @Tags reconciliation
// @Produce json
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} Response{data=reconciliation.Summary} "Summary"
// @Failure 400 {object} ErrorResponseBody "Invalid window"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /reconciliation/summary [get]
func (h *ReconciliationHandler) Summary(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	window, ok := h.windowFromQuery(c)
	if !ok {
		return
	}

	summary, err := h.reconService.Summary(c.Request.Context(), tenantID, window)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// Export handles GET /api/v1/reconciliation/export
// @Summary Export reconciliation records as CSV
// @Description Download the window's reconciliation records as an Excel-friendly CSV
// @Tags reconciliation
// @Produce text/csv
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponseBody "Invalid window"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /reconciliation/export [get]
func (h *ReconciliationHandler) Export(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	window, ok := h.windowFromQuery(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reconService.ExportCSV(c.Request.Context(), tenantID, window, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("reconciliation", window)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
