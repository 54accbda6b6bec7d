package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"hotelpms/internal/csvexport"
	"hotelpms/internal/domain"
	"hotelpms/internal/feed"
	"hotelpms/internal/logger"
	"hotelpms/internal/money"
	"hotelpms/internal/port"
	"hotelpms/internal/reconciliation"
)

const maxNotesLength = 1000

// ReconciliationSettings holds matcher and run settings for the reconciliation service.
type ReconciliationSettings struct {
	MatchThreshold      int
	ExclusiveAssignment bool
	DefaultWindow       time.Duration
	PaymentSlack        time.Duration
	AlertRecipients     []string
	Bucket              string
	MaxFileSizeMB       int64
	PresignExpiry       int64
}

// ImportFeedInput is the DTO for uploading a settlement feed.
type ImportFeedInput struct {
	TenantID   uuid.UUID
	UploadedBy uuid.UUID
	FileName   string
	Size       int64
	Body       io.Reader
}

// ManualMatchInput is the DTO for linking a settlement record to a payment by hand.
type ManualMatchInput struct {
	TenantID     uuid.UUID
	UserID       uuid.UUID
	SettlementID uuid.UUID
	PaymentID    uuid.UUID
	Notes        string
}

// ImportDetails is an import together with a short-lived link to the raw file.
type ImportDetails struct {
	domain.SettlementImport
	DownloadURL string `json:"download_url,omitempty"`
}

// ReconciliationService defines the settlement reconciliation contract.
type ReconciliationService interface {
	ImportFeed(ctx context.Context, input *ImportFeedInput) (*domain.SettlementImport, error)
	GetImport(ctx context.Context, tenantID, importID uuid.UUID) (*ImportDetails, error)
	ListImports(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.SettlementImport, int, error)
	// ProcessImport auto-matches the records of a claimed import and records the outcome.
	ProcessImport(ctx context.Context, imp *domain.SettlementImport, maxAttempts int)
	RunAutoMatch(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) (*domain.MatchRunStats, error)
	Score(external *reconciliation.ExternalTransaction, payments []reconciliation.InternalPayment) []reconciliation.TransactionMatch
	Candidates(ctx context.Context, tenantID, settlementID uuid.UUID, limit int) ([]reconciliation.TransactionMatch, error)
	ManualMatch(ctx context.Context, input *ManualMatchInput) (*domain.ReconciliationMatch, error)
	Unmatch(ctx context.Context, tenantID, settlementID uuid.UUID) error
	ListRecords(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) ([]domain.ReconciliationRecord, error)
	Summary(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) (*reconciliation.Summary, error)
	ExportCSV(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow, w io.Writer) error
	// DefaultWindow is the lookback window ending at now.
	DefaultWindow(now time.Time) domain.ReconciliationWindow
}

type reconciliationService struct {
	settlementRepo port.SettlementRepository
	paymentRepo    port.PaymentRepository
	matchRepo      port.MatchRepository
	storage        port.ObjectStorage
	alerts         port.AlertSender
	matcher        *reconciliation.Matcher
	sanitizer      *bluemonday.Policy
	cfg            ReconciliationSettings
	now            func() time.Time
}

// NewReconciliationService creates a new ReconciliationService implementation.
func NewReconciliationService(
	settlementRepo port.SettlementRepository,
	paymentRepo port.PaymentRepository,
	matchRepo port.MatchRepository,
	storage port.ObjectStorage,
	alerts port.AlertSender,
	cfg ReconciliationSettings,
) ReconciliationService {
	return &reconciliationService{
		settlementRepo: settlementRepo,
		paymentRepo:    paymentRepo,
		matchRepo:      matchRepo,
		storage:        storage,
		alerts:         alerts,
		matcher:        reconciliation.NewMatcher(cfg.MatchThreshold),
		sanitizer:      bluemonday.StrictPolicy(),
		cfg:            cfg,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *reconciliationService) ImportFeed(ctx context.Context, input *ImportFeedInput) (*domain.SettlementImport, error) {
	log := logger.FromContext(ctx)

	format, err := feed.DetectFormat(input.FileName)
	if err != nil {
		return nil, err
	}
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	var buf bytes.Buffer
	reader := input.Body
	if maxBytes > 0 {
		reader = io.LimitReader(input.Body, maxBytes+1)
	}
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, fmt.Errorf("reading settlement feed: %w", err)
	}
	if maxBytes > 0 && int64(buf.Len()) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	raw := buf.Bytes()

	records, err := feed.Parse(format, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	importID := uuid.New()
	now := s.now()
	for i := range records {
		records[i].ID = uuid.New()
		if at, ok := reconciliation.ParseTransactionDate(records[i].TransactionDate); ok {
			at = at.UTC()
			records[i].TransactionAt = &at
		}
	}
	windowStart, windowEnd := recordSpan(records, now, s.cfg.DefaultWindow)

	imp := &domain.SettlementImport{
		ID:          importID,
		TenantID:    input.TenantID,
		FileName:    input.FileName,
		Format:      format,
		S3Bucket:    s.cfg.Bucket,
		S3Key:       fmt.Sprintf("tenants/%s/settlements/%s/%s", input.TenantID, importID, input.FileName),
		Status:      domain.ImportStatusQueued,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		CreatedBy:   input.UploadedBy,
	}

	log.Info("reconciliationService.ImportFeed: archiving settlement feed",
		"import_id", importID, "file_name", input.FileName, "format", format,
		"bytes", len(raw), "rows", len(records))

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      imp.S3Bucket,
		Key:         imp.S3Key,
		Body:        bytes.NewReader(raw),
		ContentType: domain.AllowedFeedContentTypes[format],
		Size:        int64(len(raw)),
	})
	if err != nil {
		log.Error("reconciliationService.ImportFeed: S3 upload failed", "import_id", importID, "error", err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.settlementRepo.CreateImport(ctx, imp, records); err != nil {
		if delErr := s.storage.Delete(ctx, imp.S3Bucket, imp.S3Key); delErr != nil {
			log.Warn("reconciliationService.ImportFeed: failed to remove orphaned object",
				"key", imp.S3Key, "error", delErr)
		}
		return nil, fmt.Errorf("saving settlement import: %w", err)
	}
	return imp, nil
}

// recordSpan returns the earliest and latest parsed transaction time. Feeds
// without any parseable date fall back to the lookback window ending at now.
func recordSpan(records []domain.SettlementRecord, now time.Time, lookback time.Duration) (start, end time.Time) {
	for i := range records {
		at := records[i].TransactionAt
		if at == nil {
			continue
		}
		if start.IsZero() || at.Before(start) {
			start = *at
		}
		if end.IsZero() || at.After(end) {
			end = *at
		}
	}
	if start.IsZero() {
		return now.Add(-lookback), now
	}
	return start, end
}

func (s *reconciliationService) GetImport(ctx context.Context, tenantID, importID uuid.UUID) (*ImportDetails, error) {
	imp, err := s.settlementRepo.GetImport(ctx, tenantID, importID)
	if err != nil {
		return nil, err
	}
	details := &ImportDetails{SettlementImport: *imp}
	url, err := s.storage.GetPresignedURL(ctx, imp.S3Bucket, imp.S3Key, s.cfg.PresignExpiry)
	if err != nil {
		logger.FromContext(ctx).Warn("reconciliationService.GetImport: presign failed",
			"import_id", importID, "error", err)
		return details, nil
	}
	details.DownloadURL = url
	return details, nil
}

func (s *reconciliationService) ListImports(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.SettlementImport, int, error) {
	return s.settlementRepo.ListImports(ctx, tenantID, offset, limit)
}

func (s *reconciliationService) ProcessImport(ctx context.Context, imp *domain.SettlementImport, maxAttempts int) {
	log := logger.FromContext(ctx).With("import_id", imp.ID, "tenant_id", imp.TenantID, "attempt", imp.Attempts)

	records, err := s.settlementRepo.ListUnmatchedByImport(ctx, imp.TenantID, imp.ID)
	if err == nil {
		window := domain.ReconciliationWindow{From: imp.WindowStart, To: imp.WindowEnd}
		var stats *domain.MatchRunStats
		stats, err = s.matchRecords(ctx, imp.TenantID, &imp.ID, records, window)
		if err == nil {
			imp.Status = domain.ImportStatusCompleted
			imp.Error = ""
			if uerr := s.settlementRepo.UpdateImportStatus(ctx, imp); uerr != nil {
				log.Error("reconciliationService.ProcessImport: failed to mark completed", "error", uerr)
				return
			}
			log.Info("reconciliationService.ProcessImport: import reconciled",
				"considered", stats.Considered, "persisted", stats.Persisted,
				"skipped_existing", stats.SkippedExisting, "unmatched", stats.Unmatched)
			return
		}
	}

	imp.Error = err.Error()
	if imp.Attempts < maxAttempts {
		imp.Status = domain.ImportStatusQueued
		log.Warn("reconciliationService.ProcessImport: run failed, requeueing", "error", err)
	} else {
		imp.Status = domain.ImportStatusFailed
		log.Error("reconciliationService.ProcessImport: run failed permanently", "error", err)
	}
	if uerr := s.settlementRepo.UpdateImportStatus(ctx, imp); uerr != nil {
		log.Error("reconciliationService.ProcessImport: failed to record failure", "error", uerr)
	}
}

func (s *reconciliationService) RunAutoMatch(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) (*domain.MatchRunStats, error) {
	if !window.Valid() {
		return nil, domain.ErrInvalidWindow
	}
	records, err := s.settlementRepo.ListUnmatchedByWindow(ctx, tenantID, window)
	if err != nil {
		return nil, fmt.Errorf("loading unmatched settlements: %w", err)
	}
	return s.matchRecords(ctx, tenantID, nil, records, window)
}

// matchRecords scores records against the payments created within the
// window widened by the payment slack and stores every proposal that does
// not collide with an existing link.
func (s *reconciliationService) matchRecords(
	ctx context.Context,
	tenantID uuid.UUID,
	importID *uuid.UUID,
	records []domain.SettlementRecord,
	window domain.ReconciliationWindow,
) (*domain.MatchRunStats, error) {
	stats := &domain.MatchRunStats{Considered: len(records)}
	if len(records) == 0 {
		return stats, nil
	}

	paymentWindow := domain.ReconciliationWindow{
		From: window.From.Add(-s.cfg.PaymentSlack),
		To:   window.To.Add(s.cfg.PaymentSlack),
	}
	payments, err := s.paymentRepo.ListByWindow(ctx, tenantID, paymentWindow, s.cfg.ExclusiveAssignment)
	if err != nil {
		return nil, fmt.Errorf("loading candidate payments: %w", err)
	}

	externals := make([]reconciliation.ExternalTransaction, len(records))
	amounts := make(map[uuid.UUID]money.Amount, len(records))
	for i := range records {
		externals[i] = toExternal(&records[i])
		amounts[records[i].ID] = records[i].Amount
	}
	candidates := make([]reconciliation.InternalPayment, len(payments))
	for i := range payments {
		candidates[i] = toInternal(&payments[i])
	}

	var results []reconciliation.BulkMatchResult
	if s.cfg.ExclusiveAssignment {
		results = s.matcher.AssignExclusive(externals, candidates)
	} else {
		results = s.matcher.BulkMatch(externals, candidates)
	}

	var unmatchedAmount money.Amount
	for _, r := range results {
		if r.Match == nil {
			stats.Unmatched++
			unmatchedAmount += amounts[r.ExternalID]
			continue
		}
		stats.Proposed++

		m, err := autoMatch(tenantID, r.Match)
		if err != nil {
			return nil, err
		}
		created, err := s.matchRepo.CreateIfAbsent(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("saving match for settlement %s: %w", r.ExternalID, err)
		}
		if created {
			stats.Persisted++
		} else {
			stats.SkippedExisting++
		}
	}

	if stats.Unmatched > 0 && len(s.cfg.AlertRecipients) > 0 {
		alert := port.ReconciliationAlert{
			TenantID:        tenantID,
			ImportID:        importID,
			WindowFrom:      window.From,
			WindowTo:        window.To,
			Considered:      stats.Considered,
			Matched:         stats.Persisted + stats.SkippedExisting,
			Unmatched:       stats.Unmatched,
			UnmatchedAmount: unmatchedAmount,
		}
		if err := s.alerts.SendReconciliationAlert(ctx, s.cfg.AlertRecipients, alert); err != nil {
			logger.FromContext(ctx).Warn("reconciliationService: failed to send exception alert",
				"tenant_id", tenantID, "error", err)
		}
	}
	return stats, nil
}

func autoMatch(tenantID uuid.UUID, tm *reconciliation.TransactionMatch) (*domain.ReconciliationMatch, error) {
	reasons, err := json.Marshal(tm.Reasons)
	if err != nil {
		return nil, fmt.Errorf("encoding match reasons: %w", err)
	}
	score := tm.Score
	confidence := string(tm.Confidence)
	return &domain.ReconciliationMatch{
		TenantID:     tenantID,
		SettlementID: tm.External.ID,
		PaymentID:    tm.Payment.ID,
		MatchType:    domain.MatchTypeAuto,
		Score:        &score,
		Confidence:   &confidence,
		Reasons:      reasons,
	}, nil
}

func toExternal(r *domain.SettlementRecord) reconciliation.ExternalTransaction {
	return reconciliation.ExternalTransaction{
		ID:           r.ID,
		Reference:    r.Reference,
		Amount:       r.Amount,
		Date:         r.TransactionDate,
		ProviderName: r.ProviderName,
	}
}

func toInternal(p *domain.Payment) reconciliation.InternalPayment {
	return reconciliation.InternalPayment{
		ID:                p.ID,
		TransactionRef:    p.TransactionRef,
		ProviderReference: p.ProviderReference,
		Amount:            p.Amount,
		CreatedAt:         p.CreatedAt,
		MethodProvider:    p.MethodProvider,
	}
}

// Score returns every candidate scored against external, best first. Scores
// below the match threshold are included so reviewers can see near misses.
func (s *reconciliationService) Score(external *reconciliation.ExternalTransaction, payments []reconciliation.InternalPayment) []reconciliation.TransactionMatch {
	scored := s.matcher.ScoreAll(external, payments)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func (s *reconciliationService) Candidates(ctx context.Context, tenantID, settlementID uuid.UUID, limit int) ([]reconciliation.TransactionMatch, error) {
	rec, err := s.settlementRepo.GetRecord(ctx, tenantID, settlementID)
	if err != nil {
		return nil, err
	}
	anchor := rec.CreatedAt
	if rec.TransactionAt != nil {
		anchor = *rec.TransactionAt
	}
	window := domain.ReconciliationWindow{
		From: anchor.Add(-s.cfg.PaymentSlack),
		To:   anchor.Add(s.cfg.PaymentSlack),
	}
	payments, err := s.paymentRepo.ListByWindow(ctx, tenantID, window, false)
	if err != nil {
		return nil, fmt.Errorf("loading candidate payments: %w", err)
	}

	external := toExternal(rec)
	candidates := make([]reconciliation.InternalPayment, len(payments))
	for i := range payments {
		candidates[i] = toInternal(&payments[i])
	}
	scored := s.Score(&external, candidates)
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (s *reconciliationService) ManualMatch(ctx context.Context, input *ManualMatchInput) (*domain.ReconciliationMatch, error) {
	if _, err := s.settlementRepo.GetRecord(ctx, input.TenantID, input.SettlementID); err != nil {
		return nil, err
	}
	if _, err := s.paymentRepo.GetByID(ctx, input.TenantID, input.PaymentID); err != nil {
		return nil, err
	}

	notes := s.sanitizer.Sanitize(input.Notes)
	if r := []rune(notes); len(r) > maxNotesLength {
		notes = string(r[:maxNotesLength])
	}
	userID := input.UserID
	m := &domain.ReconciliationMatch{
		TenantID:     input.TenantID,
		SettlementID: input.SettlementID,
		PaymentID:    input.PaymentID,
		MatchType:    domain.MatchTypeManual,
		Notes:        notes,
		MatchedBy:    &userID,
	}
	if err := s.matchRepo.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrSettlementAlreadyMatched) {
			return nil, err
		}
		return nil, fmt.Errorf("saving manual match: %w", err)
	}

	logger.FromContext(ctx).Info("reconciliationService.ManualMatch: settlement linked",
		"tenant_id", input.TenantID, "settlement_id", input.SettlementID,
		"payment_id", input.PaymentID, "user_id", input.UserID)
	return m, nil
}

func (s *reconciliationService) Unmatch(ctx context.Context, tenantID, settlementID uuid.UUID) error {
	if err := s.matchRepo.DeleteBySettlement(ctx, tenantID, settlementID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("reconciliationService.Unmatch: settlement unlinked",
		"tenant_id", tenantID, "settlement_id", settlementID)
	return nil
}

func (s *reconciliationService) ListRecords(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) ([]domain.ReconciliationRecord, error) {
	if !window.Valid() {
		return nil, domain.ErrInvalidWindow
	}
	records, err := s.settlementRepo.ListReconciliation(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Status = reconciliation.Classify(records[i].Amount, records[i].PaymentAmount)
	}
	return records, nil
}

func (s *reconciliationService) Summary(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) (*reconciliation.Summary, error) {
	records, err := s.ListRecords(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}
	rows := make([]reconciliation.SummaryRecord, len(records))
	for i := range records {
		rows[i] = reconciliation.SummaryRecord{Status: records[i].Status, Amount: records[i].Amount}
	}
	summary := reconciliation.GenerateReconciliationSummary(rows)
	return &summary, nil
}

func (s *reconciliationService) ExportCSV(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow, w io.Writer) error {
	records, err := s.ListRecords(ctx, tenantID, window)
	if err != nil {
		return err
	}
	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := cw.WriteRecords(records); err != nil {
		return fmt.Errorf("writing CSV rows: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func (s *reconciliationService) DefaultWindow(now time.Time) domain.ReconciliationWindow {
	return domain.ReconciliationWindow{From: now.Add(-s.cfg.DefaultWindow), To: now}
}
