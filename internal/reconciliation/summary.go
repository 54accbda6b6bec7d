package reconciliation

import (
	"github.com/shopspring/decimal"

	"hotelpms/internal/domain"
	"hotelpms/internal/money"
)

// SummaryRecord is the minimal view of a classified settlement record.
type SummaryRecord struct {
	Status domain.ReconciliationStatus
	Amount money.Amount
}

// StatusTotals aggregates records sharing one status.
type StatusTotals struct {
	Count  int          `json:"count"`
	Amount money.Amount `json:"amount"`
}

// Summary aggregates a reconciliation batch. MatchRate is a percentage with
// two decimals; it is 0 for an empty batch.
type Summary struct {
	Total       int          `json:"total"`
	TotalAmount money.Amount `json:"total_amount"`
	Matched     StatusTotals `json:"matched"`
	Unmatched   StatusTotals `json:"unmatched"`
	Partial     StatusTotals `json:"partial"`
	Overpaid    StatusTotals `json:"overpaid"`
	MatchRate   float64      `json:"match_rate"`
}

// GenerateReconciliationSummary counts and sums records per status.
// Records with an unknown status count towards Total only.
func GenerateReconciliationSummary(records []SummaryRecord) Summary {
	var s Summary
	for _, r := range records {
		s.Total++
		s.TotalAmount += r.Amount

		var bucket *StatusTotals
		switch r.Status {
		case domain.ReconciliationMatched:
			bucket = &s.Matched
		case domain.ReconciliationUnmatched:
			bucket = &s.Unmatched
		case domain.ReconciliationPartial:
			bucket = &s.Partial
		case domain.ReconciliationOverpaid:
			bucket = &s.Overpaid
		default:
			continue
		}
		bucket.Count++
		bucket.Amount += r.Amount
	}

	if s.Total > 0 {
		s.MatchRate = decimal.NewFromInt(int64(s.Matched.Count)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(s.Total))).
			Round(2).
			InexactFloat64()
	}
	return s
}

// Classify derives the status of a settlement record from its linked payment
// amount. A nil payment amount means the record is not linked.
func Classify(settlement money.Amount, payment *money.Amount) domain.ReconciliationStatus {
	switch {
	case payment == nil:
		return domain.ReconciliationUnmatched
	case settlement == *payment:
		return domain.ReconciliationMatched
	case settlement < *payment:
		return domain.ReconciliationPartial
	default:
		return domain.ReconciliationOverpaid
	}
}
