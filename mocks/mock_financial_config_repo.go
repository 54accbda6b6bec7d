package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hotelpms/internal/domain"
)

// MockFinancialConfigRepo is a mock implementation of port.FinancialConfigRepository.
type MockFinancialConfigRepo struct {
	mock.Mock
}

func (m *MockFinancialConfigRepo) Get(ctx context.Context, tenantID uuid.UUID) (*domain.FinancialConfig, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialConfig), args.Error(1)
}

func (m *MockFinancialConfigRepo) Upsert(ctx context.Context, cfg *domain.FinancialConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}
