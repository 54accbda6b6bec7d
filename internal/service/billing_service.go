package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"hotelpms/internal/domain"
	"hotelpms/internal/logger"
	"hotelpms/internal/money"
	"hotelpms/internal/port"
	"hotelpms/internal/tax"
)

var hundred = decimal.NewFromInt(100)

// UpdateFinancialConfigInput is the DTO for replacing a tenant's tax configuration.
type UpdateFinancialConfigInput struct {
	TenantID               uuid.UUID
	UpdatedBy              uuid.UUID
	Currency               string
	VATRate                decimal.Decimal
	VATInclusive           bool
	ServiceChargeRate      decimal.Decimal
	ServiceChargeInclusive bool
	VATAppliedOn           domain.VATBase
	RoundingPolicy         money.RoundingPolicy
}

// BillingService defines the tax, charge and booking quote contract.
type BillingService interface {
	GetConfig(ctx context.Context, tenantID uuid.UUID) (*domain.FinancialConfig, error)
	UpdateConfig(ctx context.Context, input *UpdateFinancialConfigInput) (*domain.FinancialConfig, error)
	QuoteTax(ctx context.Context, tenantID uuid.UUID, base money.Amount) (*tax.Breakdown, error)
	// QuoteInclusive splits a VAT-inclusive total using the tenant's VAT rate.
	QuoteInclusive(ctx context.Context, tenantID uuid.UUID, total money.Amount) (*tax.InclusiveBreakdown, error)
	QuoteBooking(ctx context.Context, tenantID uuid.UUID, params tax.BookingParams) (*tax.BookingCalculationResult, error)
	BalanceDue(total, deposit money.Amount) (money.Amount, error)
	ListAddons() []tax.AddonDefinition
}

// BillingCacheConfig holds cache settings for tenant financial configs.
type BillingCacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type billingService struct {
	configRepo port.FinancialConfigRepository
	catalog    *tax.AddonCatalog
	cache      *gocache.Cache
}

// NewBillingService creates a new BillingService implementation.
func NewBillingService(
	configRepo port.FinancialConfigRepository,
	catalog *tax.AddonCatalog,
	cacheCfg BillingCacheConfig,
) BillingService {
	if catalog == nil {
		catalog = tax.DefaultAddonCatalog()
	}
	return &billingService{
		configRepo: configRepo,
		catalog:    catalog,
		cache:      gocache.New(cacheCfg.TTL, cacheCfg.CleanupInterval),
	}
}

func (s *billingService) GetConfig(ctx context.Context, tenantID uuid.UUID) (*domain.FinancialConfig, error) {
	key := tenantID.String()
	if cached, ok := s.cache.Get(key); ok {
		cfg := *cached.(*domain.FinancialConfig)
		return &cfg, nil
	}

	cfg, err := s.configRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	stored := *cfg
	s.cache.SetDefault(key, &stored)
	return cfg, nil
}

func (s *billingService) UpdateConfig(ctx context.Context, input *UpdateFinancialConfigInput) (*domain.FinancialConfig, error) {
	if err := validateRate(input.VATRate); err != nil {
		return nil, err
	}
	if err := validateRate(input.ServiceChargeRate); err != nil {
		return nil, err
	}
	if !input.VATAppliedOn.Valid() {
		return nil, domain.ErrInvalidVATBase
	}
	if !input.RoundingPolicy.Valid() {
		return nil, domain.ErrInvalidRoundingPolicy
	}

	currency := input.Currency
	if currency == "" {
		currency = "NGN"
	}
	updatedBy := input.UpdatedBy
	cfg := &domain.FinancialConfig{
		TenantID:               input.TenantID,
		Currency:               currency,
		VATRate:                input.VATRate,
		VATInclusive:           input.VATInclusive,
		ServiceChargeRate:      input.ServiceChargeRate,
		ServiceChargeInclusive: input.ServiceChargeInclusive,
		VATAppliedOn:           input.VATAppliedOn,
		RoundingPolicy:         input.RoundingPolicy,
		UpdatedBy:              &updatedBy,
	}
	if err := s.configRepo.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("saving financial config: %w", err)
	}
	s.cache.Delete(input.TenantID.String())

	logger.FromContext(ctx).Info("billingService.UpdateConfig: financial config updated",
		"tenant_id", input.TenantID,
		"vat_rate", cfg.VATRate.String(),
		"service_charge_rate", cfg.ServiceChargeRate.String(),
		"vat_applied_on", cfg.VATAppliedOn,
		"rounding_policy", cfg.RoundingPolicy)
	return cfg, nil
}

func (s *billingService) QuoteTax(ctx context.Context, tenantID uuid.UUID, base money.Amount) (*tax.Breakdown, error) {
	if base < 0 {
		return nil, domain.ErrInvalidAmount
	}
	cfg, err := s.GetConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	breakdown := tax.ComputeTax(base, tax.ConfigFrom(cfg))
	return &breakdown, nil
}

func (s *billingService) QuoteInclusive(ctx context.Context, tenantID uuid.UUID, total money.Amount) (*tax.InclusiveBreakdown, error) {
	if total < 0 {
		return nil, domain.ErrInvalidAmount
	}
	cfg, err := s.GetConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	preview := tax.ExtractInclusive(total, cfg.VATRate, cfg.RoundingPolicy)
	return &preview, nil
}

func (s *billingService) QuoteBooking(ctx context.Context, tenantID uuid.UUID, params tax.BookingParams) (*tax.BookingCalculationResult, error) {
	if params.Nights < 1 || params.RoomCount < 1 {
		return nil, domain.ErrInvalidStay
	}
	if params.RoomRate < 0 || params.DepositPaid < 0 {
		return nil, domain.ErrInvalidAmount
	}
	cfg, err := s.GetConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return tax.CalculateGroupBookingTotal(params, s.catalog, tax.ConfigFrom(cfg))
}

func (s *billingService) BalanceDue(total, deposit money.Amount) (money.Amount, error) {
	if total < 0 || deposit < 0 {
		return 0, domain.ErrInvalidAmount
	}
	return tax.CalculateBalanceDue(total, deposit), nil
}

func (s *billingService) ListAddons() []tax.AddonDefinition {
	return s.catalog.All()
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return domain.ErrInvalidRate
	}
	return nil
}
