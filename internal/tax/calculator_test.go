package tax_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"hotelpms/internal/domain"
	"hotelpms/internal/money"
	"hotelpms/internal/tax"
)

func cfg(vat string, vatIncl bool, sc string, scIncl bool, on domain.VATBase, policy money.RoundingPolicy) tax.Config {
	return tax.Config{
		VATRate:                decimal.RequireFromString(vat),
		VATInclusive:           vatIncl,
		ServiceChargeRate:      decimal.RequireFromString(sc),
		ServiceChargeInclusive: scIncl,
		VATAppliedOn:           on,
		RoundingPolicy:         policy,
	}
}

func TestComputeTax_ExclusiveOnSubtotal(t *testing.T) {
	b := tax.ComputeTax(money.MustMajor("10000"), cfg("7.5", false, "10", false, domain.VATAppliedOnSubtotal, money.RoundHalfUp))

	assert.Equal(t, money.MustMajor("10000"), b.BaseAmount)
	assert.Equal(t, money.MustMajor("750"), b.VATAmount)
	assert.Equal(t, money.MustMajor("1075"), b.ServiceChargeAmount)
	assert.Equal(t, money.MustMajor("11825"), b.TotalAmount)
	assert.Equal(t, b.BaseAmount, b.NetAmount)
}

func TestComputeTax_ExclusiveOnBase(t *testing.T) {
	b := tax.ComputeTax(money.MustMajor("10000"), cfg("7.5", false, "10", false, domain.VATAppliedOnBase, money.RoundHalfUp))

	assert.Equal(t, money.MustMajor("750"), b.VATAmount)
	assert.Equal(t, money.MustMajor("1000"), b.ServiceChargeAmount)
	assert.Equal(t, money.MustMajor("11750"), b.TotalAmount)
}

func TestComputeTax_InclusiveVAT(t *testing.T) {
	b := tax.ComputeTax(money.MustMajor("10000"), cfg("7.5", true, "10", false, domain.VATAppliedOnSubtotal, money.RoundHalfUp))

	assert.Equal(t, money.MustMajor("697.67"), b.VATAmount)
	assert.Equal(t, money.MustMajor("9302.33"), b.BaseAmount-b.VATAmount)
	// VAT-inclusive base carries the service charge unchanged.
	assert.Equal(t, money.MustMajor("1000"), b.ServiceChargeAmount)
	assert.Equal(t, money.MustMajor("11000"), b.TotalAmount)
	assert.Equal(t, money.MustMajor("9302.33"), b.NetAmount)
}

func TestComputeTax_FullyInclusive(t *testing.T) {
	b := tax.ComputeTax(money.MustMajor("11000"), cfg("7.5", true, "10", true, domain.VATAppliedOnBase, money.RoundHalfUp))

	assert.Equal(t, money.MustMajor("11000"), b.TotalAmount)
	assert.Equal(t, b.TotalAmount, b.NetAmount+b.VATAmount+b.ServiceChargeAmount)
	assert.Equal(t, money.MustMajor("1000"), b.ServiceChargeAmount)
}

func TestComputeTax_RoundingPolicy(t *testing.T) {
	base := money.FromMinor(333)
	c := cfg("7.5", false, "0", false, domain.VATAppliedOnBase, money.RoundHalfUp)

	// 333 × 7.5% = 24.975 minor units
	assert.Equal(t, money.FromMinor(25), tax.ComputeTax(base, c).VATAmount)
	c.RoundingPolicy = money.RoundFloor
	assert.Equal(t, money.FromMinor(24), tax.ComputeTax(base, c).VATAmount)
	c.RoundingPolicy = money.RoundCeil
	assert.Equal(t, money.FromMinor(25), tax.ComputeTax(base, c).VATAmount)
}

func TestComputeTax_ZeroRatesShortCircuit(t *testing.T) {
	flags := []bool{true, false}
	for _, vatIncl := range flags {
		for _, scIncl := range flags {
			t.Run(fmt.Sprintf("vat_incl=%v/sc_incl=%v", vatIncl, scIncl), func(t *testing.T) {
				base := money.MustMajor("12345.67")
				b := tax.ComputeTax(base, cfg("0", vatIncl, "0", scIncl, domain.VATAppliedOnSubtotal, money.RoundCeil))
				assert.Equal(t, base, b.TotalAmount)
				assert.Equal(t, money.Zero, b.VATAmount)
				assert.Equal(t, money.Zero, b.ServiceChargeAmount)
			})
		}
	}
}

func TestComputeTax_Idempotent(t *testing.T) {
	c := cfg("7.5", true, "10", false, domain.VATAppliedOnSubtotal, money.RoundHalfUp)
	base := money.MustMajor("98765.43")
	assert.Equal(t, tax.ComputeTax(base, c), tax.ComputeTax(base, c))
}

func TestComputeTax_ComponentsReconstituteTotal(t *testing.T) {
	policies := []money.RoundingPolicy{money.RoundHalfUp, money.RoundFloor, money.RoundCeil}
	bases := []money.Amount{1, 99, 10000, 1234567, 987654321}
	for _, p := range policies {
		for _, base := range bases {
			for _, vatIncl := range []bool{true, false} {
				for _, scIncl := range []bool{true, false} {
					b := tax.ComputeTax(base, cfg("7.5", vatIncl, "10", scIncl, domain.VATAppliedOnSubtotal, p))
					assert.Equal(t, b.TotalAmount, b.NetAmount+b.VATAmount+b.ServiceChargeAmount)
				}
			}
		}
	}
}

func TestExtractInclusive_Scenario(t *testing.T) {
	out := tax.ExtractInclusive(money.MustMajor("10000"), decimal.RequireFromString("7.5"), money.RoundHalfUp)
	assert.Equal(t, money.MustMajor("697.67"), out.TaxAmount)
	assert.Equal(t, money.MustMajor("9302.33"), out.BaseAmount)
}

func TestExtractInclusive_RoundTrip(t *testing.T) {
	totals := []money.Amount{1, 7, 100, 9999, 1000000, 123456789}
	for r := 0; r <= 1000; r += 25 {
		rate := decimal.New(int64(r), -1)
		for _, total := range totals {
			for _, p := range []money.RoundingPolicy{money.RoundHalfUp, money.RoundFloor, money.RoundCeil} {
				out := tax.ExtractInclusive(total, rate, p)
				assert.Equal(t, total, out.BaseAmount+out.TaxAmount, "rate=%s total=%d policy=%s", rate, total, p)
				assert.GreaterOrEqual(t, out.TaxAmount, money.Zero)
			}
		}
	}
}

func TestCalculateBalanceDue(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Amount
		deposit money.Amount
		want    money.Amount
	}{
		{name: "partial deposit", total: 1182500, deposit: 500000, want: 682500},
		{name: "fully paid", total: 1182500, deposit: 1182500, want: 0},
		{name: "overpaid", total: 1000, deposit: 5000, want: 0},
		{name: "no deposit", total: 1000, deposit: 0, want: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tax.CalculateBalanceDue(tt.total, tt.deposit))
		})
	}
}
