package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hotelpms/internal/domain"
)

// MockMatchRepo is a mock implementation of port.MatchRepository.
type MockMatchRepo struct {
	mock.Mock
}

func (m *MockMatchRepo) Create(ctx context.Context, match *domain.ReconciliationMatch) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepo) CreateIfAbsent(ctx context.Context, match *domain.ReconciliationMatch) (bool, error) {
	args := m.Called(ctx, match)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatchRepo) GetBySettlement(ctx context.Context, tenantID, settlementID uuid.UUID) (*domain.ReconciliationMatch, error) {
	args := m.Called(ctx, tenantID, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationMatch), args.Error(1)
}

func (m *MockMatchRepo) DeleteBySettlement(ctx context.Context, tenantID, settlementID uuid.UUID) error {
	args := m.Called(ctx, tenantID, settlementID)
	return args.Error(0)
}
