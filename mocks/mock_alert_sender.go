package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hotelpms/internal/port"
)

// MockAlertSender is a mock implementation of port.AlertSender.
type MockAlertSender struct {
	mock.Mock
}

func (m *MockAlertSender) SendReconciliationAlert(ctx context.Context, to []string, alert port.ReconciliationAlert) error {
	args := m.Called(ctx, to, alert)
	return args.Error(0)
}
