// Package reconciliation pairs externally reported settlement transactions
// with internally recorded payments using a weighted four-factor score:
// reference (40), amount (30), date (20) and provider (10).
//
// Everything in this package is pure and safe for concurrent use. Missing or
// malformed optional fields lower a score; they never produce an error.
package reconciliation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hotelpms/internal/money"
)

// Sub-score ceilings.
const (
	MaxReferenceScore = 40
	MaxAmountScore    = 30
	MaxDateScore      = 20
	MaxProviderScore  = 10
)

const maxReferenceEditDistance = 3

// ExternalTransaction is one record from a settlement feed. Date is kept as
// reported; it is parsed lazily and an unparseable value scores zero.
type ExternalTransaction struct {
	ID           uuid.UUID    `json:"id"`
	Reference    string       `json:"reference"`
	Amount       money.Amount `json:"amount"`
	Date         string       `json:"date"`
	ProviderName string       `json:"provider_name"`
}

// InternalPayment is a payment recorded by the property.
type InternalPayment struct {
	ID                uuid.UUID    `json:"id"`
	TransactionRef    string       `json:"transaction_ref"`
	ProviderReference string       `json:"provider_reference"`
	Amount            money.Amount `json:"amount"`
	CreatedAt         time.Time    `json:"created_at"`
	MethodProvider    string       `json:"method_provider"`
}

// Confidence bands a total score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceFor bands a total score: >=80 high, >=60 medium, otherwise low.
func ConfidenceFor(score int) Confidence {
	switch {
	case score >= 80:
		return ConfidenceHigh
	case score >= 60:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// SubScores holds the individual factor scores behind a MatchScore.
type SubScores struct {
	Reference int `json:"reference"`
	Amount    int `json:"amount"`
	Date      int `json:"date"`
	Provider  int `json:"provider"`
}

// MatchScore is the scored comparison of one external transaction and one payment.
// Reasons lists the non-zero factors in reference, amount, date, provider order.
type MatchScore struct {
	Score      int        `json:"score"`
	Confidence Confidence `json:"confidence"`
	Reasons    []string   `json:"reasons"`
	SubScores  SubScores  `json:"sub_scores"`
}

// CalculateMatchScore scores a single external transaction against a payment.
func CalculateMatchScore(txn *ExternalTransaction, p *InternalPayment) MatchScore {
	reasons := make([]string, 0, 4)
	var sub SubScores

	var reason string
	if sub.Reference, reason = scoreReference(txn.Reference, p.TransactionRef, p.ProviderReference); sub.Reference > 0 {
		reasons = append(reasons, reason)
	}
	if sub.Amount, reason = scoreAmount(txn.Amount, p.Amount); sub.Amount > 0 {
		reasons = append(reasons, reason)
	}
	if sub.Date, reason = scoreDate(txn.Date, p.CreatedAt); sub.Date > 0 {
		reasons = append(reasons, reason)
	}
	if sub.Provider, reason = scoreProvider(txn.ProviderName, p.MethodProvider); sub.Provider > 0 {
		reasons = append(reasons, reason)
	}

	total := sub.Reference + sub.Amount + sub.Date + sub.Provider
	return MatchScore{
		Score:      total,
		Confidence: ConfidenceFor(total),
		Reasons:    reasons,
		SubScores:  sub,
	}
}

// normalizeReference lowercases s and keeps only ASCII letters and digits.
func normalizeReference(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// scoreReference compares the external reference against every non-empty
// payment reference and keeps the best result.
func scoreReference(external string, candidates ...string) (int, string) {
	ext := normalizeReference(external)
	if ext == "" {
		return 0, ""
	}

	best, bestReason := 0, ""
	for _, c := range candidates {
		ref := normalizeReference(c)
		if ref == "" {
			continue
		}
		score, reason := compareReferences(ext, ref)
		if score > best {
			best, bestReason = score, reason
		}
		if best == MaxReferenceScore {
			break
		}
	}
	return best, bestReason
}

func compareReferences(a, b string) (int, string) {
	if a == b {
		return MaxReferenceScore, "Exact reference match"
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 30, "Partial reference match"
	}
	if d, ok := withinEditDistance(a, b, maxReferenceEditDistance); ok {
		return 20, fmt.Sprintf("Similar reference (edit distance %d)", d)
	}
	return 0, ""
}

// scoreAmount compares amounts in minor units. Percentages are relative to the
// external amount; a zero external amount only ever matches exactly.
func scoreAmount(external, internal money.Amount) (int, string) {
	diff := (external - internal).Abs()
	if diff == money.Zero {
		return MaxAmountScore, "Exact amount match"
	}
	base := external.Abs().MinorDecimal()
	if base.IsZero() {
		return 0, ""
	}
	pct := diff.MinorDecimal().Mul(decimal.NewFromInt(100))
	switch {
	case pct.LessThan(base):
		return 25, "Amount within 1%"
	case pct.LessThan(base.Mul(decimal.NewFromInt(5))):
		return 15, "Amount within 5%"
	}
	return 0, ""
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// ParseTransactionDate parses a settlement date in any of the accepted
// layouts. Values without a zone are read as UTC.
func ParseTransactionDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func scoreDate(external string, created time.Time) (int, string) {
	if created.IsZero() {
		return 0, ""
	}
	t, ok := ParseTransactionDate(external)
	if !ok {
		return 0, ""
	}
	d := t.Sub(created)
	if d < 0 {
		d = -d
	}
	switch {
	case d < time.Hour:
		return MaxDateScore, "Date within 1 hour"
	case d < 24*time.Hour:
		return 15, "Date within 24 hours"
	case d < 72*time.Hour:
		return 10, "Date within 3 days"
	case d < 168*time.Hour:
		return 5, "Date within 7 days"
	}
	return 0, ""
}

func scoreProvider(external, internal string) (int, string) {
	a := strings.ToLower(strings.TrimSpace(external))
	b := strings.ToLower(strings.TrimSpace(internal))
	if a == "" || b == "" {
		return 0, ""
	}
	if a == b {
		return MaxProviderScore, "Provider match"
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 7, "Partial provider match"
	}
	return 0, ""
}
