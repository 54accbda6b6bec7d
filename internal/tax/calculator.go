// Package tax derives VAT, service charge and totals for folio charges and
// booking quotes. Every function here is pure: no I/O, no shared state, and
// identical inputs always produce identical outputs.
//
// Rates are percentages. Range validation (0–100) is the caller's job; the
// calculator computes whatever the inputs define.
package tax

import (
	"github.com/shopspring/decimal"

	"hotelpms/internal/domain"
	"hotelpms/internal/money"
)

var hundred = decimal.NewFromInt(100)

// Config is the subset of a tenant's financial configuration the calculator reads.
type Config struct {
	VATRate                decimal.Decimal
	VATInclusive           bool
	ServiceChargeRate      decimal.Decimal
	ServiceChargeInclusive bool
	VATAppliedOn           domain.VATBase
	RoundingPolicy         money.RoundingPolicy
}

// ConfigFrom projects a stored financial configuration onto a calculator Config.
func ConfigFrom(fc *domain.FinancialConfig) Config {
	return Config{
		VATRate:                fc.VATRate,
		VATInclusive:           fc.VATInclusive,
		ServiceChargeRate:      fc.ServiceChargeRate,
		ServiceChargeInclusive: fc.ServiceChargeInclusive,
		VATAppliedOn:           fc.VATAppliedOn,
		RoundingPolicy:         fc.RoundingPolicy,
	}
}

// Breakdown is the result of a tax computation.
//
// BaseAmount echoes the input. NetAmount is what remains of TotalAmount once
// VAT and service charge are taken out, so
// NetAmount + VATAmount + ServiceChargeAmount == TotalAmount always holds. For
// fully exclusive pricing NetAmount equals BaseAmount.
type Breakdown struct {
	BaseAmount          money.Amount `json:"base_amount"`
	NetAmount           money.Amount `json:"net_amount"`
	VATAmount           money.Amount `json:"vat_amount"`
	ServiceChargeAmount money.Amount `json:"service_charge_amount"`
	TotalAmount         money.Amount `json:"total_amount"`
}

// ComputeTax derives VAT, service charge and total for a base amount.
//
// VAT is extracted from base when VAT is inclusive and added on top otherwise.
// The service charge base is the base amount, except under
// domain.VATAppliedOnSubtotal with exclusive VAT where it is base plus VAT.
// Each derived amount is rounded once, at minor-unit precision, with the
// configured policy.
func ComputeTax(base money.Amount, cfg Config) Breakdown {
	if cfg.VATRate.IsZero() && cfg.ServiceChargeRate.IsZero() {
		return Breakdown{BaseAmount: base, NetAmount: base, TotalAmount: base}
	}

	total := base

	vat := charge(base, cfg.VATRate, cfg.VATInclusive, cfg.RoundingPolicy)
	if !cfg.VATInclusive {
		total += vat
	}

	scBase := base
	if cfg.VATAppliedOn == domain.VATAppliedOnSubtotal && !cfg.VATInclusive {
		scBase = base + vat
	}
	sc := charge(scBase, cfg.ServiceChargeRate, cfg.ServiceChargeInclusive, cfg.RoundingPolicy)
	if !cfg.ServiceChargeInclusive {
		total += sc
	}

	return Breakdown{
		BaseAmount:          base,
		NetAmount:           total - vat - sc,
		VATAmount:           vat,
		ServiceChargeAmount: sc,
		TotalAmount:         total,
	}
}

// charge computes one rate against an amount, either extracting it from an
// inclusive amount or adding it to an exclusive one.
func charge(amount money.Amount, rate decimal.Decimal, inclusive bool, policy money.RoundingPolicy) money.Amount {
	if rate.IsZero() {
		return money.Zero
	}
	minor := amount.MinorDecimal().Mul(rate)
	if inclusive {
		return policy.Apply(minor.Div(hundred.Add(rate)))
	}
	return policy.Apply(minor.Div(hundred))
}

// InclusiveBreakdown splits a tax-inclusive total into base and tax.
type InclusiveBreakdown struct {
	TotalAmount money.Amount `json:"total_amount"`
	BaseAmount  money.Amount `json:"base_amount"`
	TaxAmount   money.Amount `json:"tax_amount"`
}

// ExtractInclusive answers "the customer pays total, how much of it is tax".
// tax = total × rate / (100 + rate), base = total − tax. Base is derived as the
// remainder so BaseAmount + TaxAmount reproduces TotalAmount exactly.
func ExtractInclusive(total money.Amount, rate decimal.Decimal, policy money.RoundingPolicy) InclusiveBreakdown {
	t := charge(total, rate, true, policy)
	return InclusiveBreakdown{
		TotalAmount: total,
		BaseAmount:  total - t,
		TaxAmount:   t,
	}
}

// CalculateBalanceDue returns total minus deposit, floored at zero.
// Overpayment is tracked on the folio, never as a negative balance.
func CalculateBalanceDue(total, deposit money.Amount) money.Amount {
	return money.Max(money.Zero, total-deposit)
}
