package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "hotelpms/docs" // registers the OpenAPI document
	"hotelpms/internal/domain"
	"hotelpms/internal/handler"
	"hotelpms/internal/middleware"
	"hotelpms/internal/service"
)

// Options holds the cross-cutting settings the router needs.
type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RateLimiter    *middleware.TenantRateLimiter
	EnableSwagger  bool
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	billingH *handler.BillingHandler,
	reconH *handler.ReconciliationHandler,
	healthH *handler.HealthHandler,
	opts Options,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limiter := opts.RateLimiter
	if limiter == nil {
		limiter = middleware.NewTenantRateLimiter(0, 0)
	}

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc), middleware.TenantGuard())

	managers := middleware.RequireRole(domain.RoleAdmin, domain.RoleFinance)
	staff := middleware.RequireRole(domain.RoleAdmin, domain.RoleFinance, domain.RoleFrontDesk)

	// Billing
	billing := protected.Group("/billing")
	billing.GET("/config", billingH.GetConfig)
	billing.PUT("/config", managers, billingH.UpdateConfig)
	billing.GET("/addons", billingH.ListAddons)
	quotes := billing.Group("", staff, middleware.RateLimit(limiter))
	quotes.POST("/tax-quote", billingH.TaxQuote)
	quotes.POST("/inclusive-quote", billingH.InclusiveQuote)
	quotes.POST("/booking-quote", billingH.BookingQuote)
	quotes.POST("/balance-due", billingH.BalanceDue)

	// Reconciliation
	recon := protected.Group("/reconciliation")
	recon.GET("/imports", reconH.ListImports)
	recon.GET("/imports/:id", reconH.GetImport)
	recon.GET("/records", reconH.ListRecords)
	recon.GET("/summary", reconH.Summary)
	recon.GET("/export", managers, reconH.Export)
	recon.GET("/settlements/:id/candidates", managers, reconH.Candidates)
	recon.POST("/imports", managers, reconH.UploadFeed)
	recon.POST("/runs", managers, reconH.RunAutoMatch)
	recon.POST("/score", managers, middleware.RateLimit(limiter), reconH.Score)
	recon.POST("/matches", managers, reconH.ManualMatch)
	recon.DELETE("/matches/:settlement_id", managers, reconH.Unmatch)

	return r
}
