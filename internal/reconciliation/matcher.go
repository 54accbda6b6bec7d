package reconciliation

import (
	"sort"

	"github.com/google/uuid"
)

// MinMatchScore is the lowest total score that produces a match.
const MinMatchScore = 50

// TransactionMatch binds an external transaction to its best-scoring payment.
type TransactionMatch struct {
	External ExternalTransaction `json:"external"`
	Payment  InternalPayment     `json:"payment"`
	MatchScore
}

// BulkMatchResult is the outcome for one external transaction. Match is nil
// when no candidate reached the threshold.
type BulkMatchResult struct {
	ExternalID uuid.UUID         `json:"external_id"`
	Match      *TransactionMatch `json:"match"`
}

// Matcher applies a score threshold. The zero value uses MinMatchScore.
type Matcher struct {
	threshold int
}

// NewMatcher returns a matcher with the given threshold. Values below
// MinMatchScore are raised to it.
func NewMatcher(threshold int) *Matcher {
	if threshold < MinMatchScore {
		threshold = MinMatchScore
	}
	return &Matcher{threshold: threshold}
}

// Threshold returns the effective minimum score.
func (m *Matcher) Threshold() int {
	if m == nil || m.threshold < MinMatchScore {
		return MinMatchScore
	}
	return m.threshold
}

var defaultMatcher = NewMatcher(MinMatchScore)

// FindBestMatch returns the highest-scoring payment for txn, or nil.
func FindBestMatch(txn *ExternalTransaction, payments []InternalPayment) *TransactionMatch {
	return defaultMatcher.FindBestMatch(txn, payments)
}

// BulkMatch runs FindBestMatch for every transaction independently.
func BulkMatch(txns []ExternalTransaction, payments []InternalPayment) []BulkMatchResult {
	return defaultMatcher.BulkMatch(txns, payments)
}

// AssignExclusive is BulkMatch with each payment used at most once.
func AssignExclusive(txns []ExternalTransaction, payments []InternalPayment) []BulkMatchResult {
	return defaultMatcher.AssignExclusive(txns, payments)
}

// ScoreAll scores txn against every payment, in candidate order.
func (m *Matcher) ScoreAll(txn *ExternalTransaction, payments []InternalPayment) []TransactionMatch {
	out := make([]TransactionMatch, 0, len(payments))
	for i := range payments {
		out = append(out, TransactionMatch{
			External:   *txn,
			Payment:    payments[i],
			MatchScore: CalculateMatchScore(txn, &payments[i]),
		})
	}
	return out
}

// FindBestMatch keeps candidates at or above the threshold and returns the top
// one. Equal scores keep candidate order, so the earliest payment wins a tie.
func (m *Matcher) FindBestMatch(txn *ExternalTransaction, payments []InternalPayment) *TransactionMatch {
	threshold := m.Threshold()
	scored := m.ScoreAll(txn, payments)

	qualified := scored[:0]
	for _, s := range scored {
		if s.Score >= threshold {
			qualified = append(qualified, s)
		}
	}
	if len(qualified) == 0 {
		return nil
	}
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Score > qualified[j].Score
	})
	best := qualified[0]
	return &best
}

// BulkMatch matches each transaction on its own. The same payment may be
// proposed for several transactions; use AssignExclusive for one-to-one.
func (m *Matcher) BulkMatch(txns []ExternalTransaction, payments []InternalPayment) []BulkMatchResult {
	out := make([]BulkMatchResult, 0, len(txns))
	for i := range txns {
		out = append(out, BulkMatchResult{
			ExternalID: txns[i].ID,
			Match:      m.FindBestMatch(&txns[i], payments),
		})
	}
	return out
}

type candidatePair struct {
	txn, payment int
	score        MatchScore
}

// AssignExclusive greedily assigns pairs in descending score order, consuming
// both sides of every accepted pair. Ties fall back to transaction order, then
// payment order. Results are returned in transaction order.
func (m *Matcher) AssignExclusive(txns []ExternalTransaction, payments []InternalPayment) []BulkMatchResult {
	threshold := m.Threshold()

	var pairs []candidatePair
	for i := range txns {
		for j := range payments {
			s := CalculateMatchScore(&txns[i], &payments[j])
			if s.Score >= threshold {
				pairs = append(pairs, candidatePair{txn: i, payment: j, score: s})
			}
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].score.Score > pairs[b].score.Score
	})

	assigned := make(map[int]*TransactionMatch, len(txns))
	usedPayments := make(map[int]bool, len(payments))
	for _, p := range pairs {
		if assigned[p.txn] != nil || usedPayments[p.payment] {
			continue
		}
		assigned[p.txn] = &TransactionMatch{
			External:   txns[p.txn],
			Payment:    payments[p.payment],
			MatchScore: p.score,
		}
		usedPayments[p.payment] = true
	}

	out := make([]BulkMatchResult, 0, len(txns))
	for i := range txns {
		out = append(out, BulkMatchResult{ExternalID: txns[i].ID, Match: assigned[i]})
	}
	return out
}
