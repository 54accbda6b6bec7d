package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hotelpms/internal/domain"
	"hotelpms/internal/service"
	"hotelpms/mocks"
)

func TestReconcileQueueWorker_PollsAndDispatches(t *testing.T) {
	repo := new(mocks.MockSettlementRepo)
	svc := new(mocks.MockReconciliationService)

	imp := domain.SettlementImport{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Attempts: 1,
		Status:   domain.ImportStatusProcessing,
	}

	// First poll returns one import, subsequent polls return empty
	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.SettlementImport{imp}, nil).Once()
	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.SettlementImport{}, nil).Maybe()

	svc.On("ProcessImport", mock.Anything, mock.AnythingOfType("*domain.SettlementImport"), 5).
		Return().Maybe()

	worker := service.NewReconcileQueueWorker(repo, svc, service.ReconcileQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   5,
		Concurrency:  2,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	repo.AssertCalled(t, "ClaimQueued", mock.Anything, mock.AnythingOfType("int"))
	svc.AssertCalled(t, "ProcessImport", mock.Anything, mock.MatchedBy(func(got *domain.SettlementImport) bool {
		return got.ID == imp.ID
	}), 5)
}

func TestReconcileQueueWorker_RespectsConcurrencyCap(t *testing.T) {
	repo := new(mocks.MockSettlementRepo)
	svc := new(mocks.MockReconciliationService)

	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.SettlementImport{}, nil).Maybe()

	worker := service.NewReconcileQueueWorker(repo, svc, service.ReconcileQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   5,
		Concurrency:  3,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()
	<-done

	// No runs in flight, so every poll asks for the full concurrency.
	repo.AssertCalled(t, "ClaimQueued", mock.Anything, 3)
	svc.AssertNotCalled(t, "ProcessImport", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileQueueWorker_StopsWithoutPolling(t *testing.T) {
	repo := new(mocks.MockSettlementRepo)
	svc := new(mocks.MockReconciliationService)

	worker := service.NewReconcileQueueWorker(repo, svc, service.ReconcileQueueConfig{
		PollInterval: time.Hour,
		MaxRetries:   5,
		Concurrency:  1,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	worker.Start(ctx)

	repo.AssertNotCalled(t, "ClaimQueued", mock.Anything, mock.Anything)
}
