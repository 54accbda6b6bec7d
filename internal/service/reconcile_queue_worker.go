package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hotelpms/internal/logger"
	"hotelpms/internal/port"
)

// ReconcileQueueConfig holds settings for the reconcile queue worker.
type ReconcileQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	RunTimeout   time.Duration
}

// ReconcileQueueWorker polls for queued settlement imports and auto-matches them.
type ReconcileQueueWorker struct {
	settlementRepo port.SettlementRepository
	reconService   ReconciliationService
	cfg            ReconcileQueueConfig
	log            *slog.Logger
	wg             sync.WaitGroup
}

// NewReconcileQueueWorker creates a new ReconcileQueueWorker.
func NewReconcileQueueWorker(
	settlementRepo port.SettlementRepository,
	reconService ReconciliationService,
	cfg ReconcileQueueConfig,
	log *slog.Logger,
) *ReconcileQueueWorker {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReconcileQueueWorker{
		settlementRepo: settlementRepo,
		reconService:   reconService,
		cfg:            cfg,
		log:            log.With("component", "reconcileQueueWorker"),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight runs have finished.
func (w *ReconcileQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	w.log.Info("started",
		"poll", w.cfg.PollInterval, "concurrency", w.cfg.Concurrency, "max_retries", w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("shutting down, waiting for in-flight runs")
			w.wg.Wait()
			w.log.Info("shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

func (w *ReconcileQueueWorker) poll(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}

	imports, err := w.settlementRepo.ClaimQueued(ctx, available)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.log.Error("ClaimQueued failed", "error", err)
		return
	}

	for i := range imports {
		imp := imports[i]

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()

			// Fresh context so in-flight runs complete during shutdown.
			runCtx, cancel := context.WithTimeout(context.Background(), w.cfg.RunTimeout)
			defer cancel()
			runCtx = logger.ToContext(runCtx, w.log)

			w.log.Info("dispatching import", "import_id", imp.ID, "attempt", imp.Attempts)
			w.reconService.ProcessImport(runCtx, &imp, w.cfg.MaxRetries)
		}()
	}
}
