package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hotelpms/internal/domain"
	"hotelpms/internal/money"
	"hotelpms/internal/service"
	"hotelpms/internal/tax"
)

// MockBillingService is a mock implementation of service.BillingService.
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) GetConfig(ctx context.Context, tenantID uuid.UUID) (*domain.FinancialConfig, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialConfig), args.Error(1)
}

func (m *MockBillingService) UpdateConfig(ctx context.Context, input *service.UpdateFinancialConfigInput) (*domain.FinancialConfig, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialConfig), args.Error(1)
}

func (m *MockBillingService) QuoteTax(ctx context.Context, tenantID uuid.UUID, base money.Amount) (*tax.Breakdown, error) {
	args := m.Called(ctx, tenantID, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.Breakdown), args.Error(1)
}

func (m *MockBillingService) QuoteInclusive(ctx context.Context, tenantID uuid.UUID, total money.Amount) (*tax.InclusiveBreakdown, error) {
	args := m.Called(ctx, tenantID, total)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.InclusiveBreakdown), args.Error(1)
}

func (m *MockBillingService) QuoteBooking(ctx context.Context, tenantID uuid.UUID, params tax.BookingParams) (*tax.BookingCalculationResult, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.BookingCalculationResult), args.Error(1)
}

func (m *MockBillingService) BalanceDue(total, deposit money.Amount) (money.Amount, error) {
	args := m.Called(total, deposit)
	return args.Get(0).(money.Amount), args.Error(1)
}

func (m *MockBillingService) ListAddons() []tax.AddonDefinition {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]tax.AddonDefinition)
}
