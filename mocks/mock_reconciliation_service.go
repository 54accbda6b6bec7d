package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hotelpms/internal/domain"
	"hotelpms/internal/reconciliation"
	"hotelpms/internal/service"
)

// MockReconciliationService is a mock implementation of service.ReconciliationService.
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ImportFeed(ctx context.Context, input *service.ImportFeedInput) (*domain.SettlementImport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementImport), args.Error(1)
}

func (m *MockReconciliationService) GetImport(ctx context.Context, tenantID, importID uuid.UUID) (*service.ImportDetails, error) {
	args := m.Called(ctx, tenantID, importID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportDetails), args.Error(1)
}

func (m *MockReconciliationService) ListImports(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.SettlementImport, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SettlementImport), args.Int(1), args.Error(2)
}

func (m *MockReconciliationService) ProcessImport(ctx context.Context, imp *domain.SettlementImport, maxAttempts int) {
	m.Called(ctx, imp, maxAttempts)
}

func (m *MockReconciliationService) RunAutoMatch(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) (*domain.MatchRunStats, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchRunStats), args.Error(1)
}

func (m *MockReconciliationService) Score(external *reconciliation.ExternalTransaction, payments []reconciliation.InternalPayment) []reconciliation.TransactionMatch {
	args := m.Called(external, payments)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]reconciliation.TransactionMatch)
}

func (m *MockReconciliationService) Candidates(ctx context.Context, tenantID, settlementID uuid.UUID, limit int) ([]reconciliation.TransactionMatch, error) {
	args := m.Called(ctx, tenantID, settlementID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reconciliation.TransactionMatch), args.Error(1)
}

func (m *MockReconciliationService) ManualMatch(ctx context.Context, input *service.ManualMatchInput) (*domain.ReconciliationMatch, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationMatch), args.Error(1)
}

func (m *MockReconciliationService) Unmatch(ctx context.Context, tenantID, settlementID uuid.UUID) error {
	args := m.Called(ctx, tenantID, settlementID)
	return args.Error(0)
}

func (m *MockReconciliationService) ListRecords(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) ([]domain.ReconciliationRecord, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationRecord), args.Error(1)
}

func (m *MockReconciliationService) Summary(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) (*reconciliation.Summary, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Summary), args.Error(1)
}

func (m *MockReconciliationService) ExportCSV(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow, w io.Writer) error {
	args := m.Called(ctx, tenantID, window, w)
	return args.Error(0)
}

func (m *MockReconciliationService) DefaultWindow(now time.Time) domain.ReconciliationWindow {
	args := m.Called(now)
	return args.Get(0).(domain.ReconciliationWindow)
}
