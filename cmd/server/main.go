// @title Hotel PMS Finance API
// @version 1.0
// @description Tax quotes, booking totals and payment settlement reconciliation.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/config"
	"hotelpms/internal/email/noop"
	"hotelpms/internal/email/ses"
	"hotelpms/internal/handler"
	"hotelpms/internal/logger"
	"hotelpms/internal/middleware"
	"hotelpms/internal/port"
	"hotelpms/internal/repository/postgres"
	"hotelpms/internal/router"
	"hotelpms/internal/service"
	s3storage "hotelpms/internal/storage/s3"
	"hotelpms/internal/tax"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	configRepo := postgres.NewFinancialConfigRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	settlementRepo := postgres.NewSettlementRepo(db)
	matchRepo := postgres.NewMatchRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	alerts, err := newAlertSender(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	billingSvc := service.NewBillingService(configRepo, tax.DefaultAddonCatalog(), service.BillingCacheConfig{
		TTL:             cfg.Cache.FinancialConfigTTL,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})
	reconSvc := service.NewReconciliationService(settlementRepo, paymentRepo, matchRepo, s3Client, alerts,
		service.ReconciliationSettings{
			MatchThreshold:      cfg.Reconciliation.MatchThreshold,
			ExclusiveAssignment: cfg.Reconciliation.ExclusiveAssignment,
			DefaultWindow:       cfg.Reconciliation.DefaultWindow,
			PaymentSlack:        cfg.Reconciliation.PaymentSlack,
			AlertRecipients:     cfg.Reconciliation.AlertRecipients,
			Bucket:              cfg.S3.Bucket,
			MaxFileSizeMB:       cfg.S3.MaxFileSizeMB,
			PresignExpiry:       cfg.S3.PresignExpiry,
		})

	// Initialize handlers
	billingH := handler.NewBillingHandler(billingSvc)
	reconH := handler.NewReconciliationHandler(reconSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(authSvc, billingH, reconH, healthH, router.Options{
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimiter:    middleware.NewTenantRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		EnableSwagger:  cfg.Server.Environment != "production",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := service.NewReconcileQueueWorker(settlementRepo, reconSvc, service.ReconcileQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	}, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	<-workerDone
	return nil
}

func newAlertSender(cfg *config.EmailConfig) (port.AlertSender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
	default:
		return noop.NewNoopSender(), nil
	}
}
