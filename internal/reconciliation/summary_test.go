package reconciliation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotelpms/internal/domain"
	"hotelpms/internal/money"
	"hotelpms/internal/reconciliation"
)

func TestGenerateReconciliationSummary_Empty(t *testing.T) {
	var s reconciliation.Summary
	assert.NotPanics(t, func() {
		s = reconciliation.GenerateReconciliationSummary(nil)
	})
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.MatchRate)
}

func TestGenerateReconciliationSummary_Counts(t *testing.T) {
	records := []reconciliation.SummaryRecord{
		{Status: domain.ReconciliationMatched, Amount: 1000},
		{Status: domain.ReconciliationMatched, Amount: 2000},
		{Status: domain.ReconciliationUnmatched, Amount: 500},
		{Status: domain.ReconciliationPartial, Amount: 300},
		{Status: domain.ReconciliationOverpaid, Amount: 700},
		{Status: "disputed", Amount: 100},
	}

	s := reconciliation.GenerateReconciliationSummary(records)

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, money.Amount(4600), s.TotalAmount)
	assert.Equal(t, reconciliation.StatusTotals{Count: 2, Amount: 3000}, s.Matched)
	assert.Equal(t, reconciliation.StatusTotals{Count: 1, Amount: 500}, s.Unmatched)
	assert.Equal(t, reconciliation.StatusTotals{Count: 1, Amount: 300}, s.Partial)
	assert.Equal(t, reconciliation.StatusTotals{Count: 1, Amount: 700}, s.Overpaid)
	assert.Equal(t, 33.33, s.MatchRate)
}

func TestGenerateReconciliationSummary_MatchRateRounding(t *testing.T) {
	records := []reconciliation.SummaryRecord{
		{Status: domain.ReconciliationMatched},
		{Status: domain.ReconciliationMatched},
		{Status: domain.ReconciliationUnmatched},
	}
	assert.Equal(t, 66.67, reconciliation.GenerateReconciliationSummary(records).MatchRate)
}

func TestClassify(t *testing.T) {
	eq, less, more := money.Amount(1000), money.Amount(900), money.Amount(1100)

	assert.Equal(t, domain.ReconciliationUnmatched, reconciliation.Classify(1000, nil))
	assert.Equal(t, domain.ReconciliationMatched, reconciliation.Classify(1000, &eq))
	assert.Equal(t, domain.ReconciliationOverpaid, reconciliation.Classify(1000, &less))
	assert.Equal(t, domain.ReconciliationPartial, reconciliation.Classify(1000, &more))
}
