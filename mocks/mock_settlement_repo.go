package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hotelpms/internal/domain"
)

// MockSettlementRepo is a mock implementation of port.SettlementRepository.
type MockSettlementRepo struct {
	mock.Mock
}

func (m *MockSettlementRepo) CreateImport(ctx context.Context, imp *domain.SettlementImport, records []domain.SettlementRecord) error {
	args := m.Called(ctx, imp, records)
	return args.Error(0)
}

func (m *MockSettlementRepo) GetImport(ctx context.Context, tenantID, importID uuid.UUID) (*domain.SettlementImport, error) {
	args := m.Called(ctx, tenantID, importID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementImport), args.Error(1)
}

func (m *MockSettlementRepo) ListImports(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.SettlementImport, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SettlementImport), args.Int(1), args.Error(2)
}

func (m *MockSettlementRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.SettlementImport, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SettlementImport), args.Error(1)
}

func (m *MockSettlementRepo) UpdateImportStatus(ctx context.Context, imp *domain.SettlementImport) error {
	args := m.Called(ctx, imp)
	return args.Error(0)
}

func (m *MockSettlementRepo) GetRecord(ctx context.Context, tenantID, recordID uuid.UUID) (*domain.SettlementRecord, error) {
	args := m.Called(ctx, tenantID, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementRecord), args.Error(1)
}

func (m *MockSettlementRepo) ListUnmatchedByWindow(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) ([]domain.SettlementRecord, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SettlementRecord), args.Error(1)
}

func (m *MockSettlementRepo) ListUnmatchedByImport(ctx context.Context, tenantID, importID uuid.UUID) ([]domain.SettlementRecord, error) {
	args := m.Called(ctx, tenantID, importID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SettlementRecord), args.Error(1)
}

func (m *MockSettlementRepo) ListReconciliation(ctx context.Context, tenantID uuid.UUID, window domain.ReconciliationWindow) ([]domain.ReconciliationRecord, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationRecord), args.Error(1)
}
