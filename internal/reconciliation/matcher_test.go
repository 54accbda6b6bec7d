package reconciliation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelpms/internal/money"
	"hotelpms/internal/reconciliation"
)

func payment(t *testing.T, ref string, amount money.Amount, created string) reconciliation.InternalPayment {
	t.Helper()
	return reconciliation.InternalPayment{
		ID:             uuid.New(),
		TransactionRef: ref,
		Amount:         amount,
		CreatedAt:      mustTime(t, created),
	}
}

func TestFindBestMatch_PicksHighestScore(t *testing.T) {
	txn := reconciliation.ExternalTransaction{
		ID: uuid.New(), Reference: "TXN12345", Amount: 500000, Date: "2024-01-15T10:00:00Z",
	}
	weak := payment(t, "OTHER", 500000, "2024-01-15T10:05:00Z")      // 30 + 20
	strong := payment(t, "TXN12345", 500000, "2024-01-17T10:00:00Z") // 40 + 30 + 10

	m := reconciliation.FindBestMatch(&txn, []reconciliation.InternalPayment{weak, strong})
	require.NotNil(t, m)
	assert.Equal(t, strong.ID, m.Payment.ID)
	assert.Equal(t, 80, m.Score)
	assert.Equal(t, txn.ID, m.External.ID)
}

func TestFindBestMatch_ThresholdEnforced(t *testing.T) {
	txn := reconciliation.ExternalTransaction{ID: uuid.New(), Reference: "AAAAAAAA", Amount: 500000, Date: "2024-01-15T10:00:00Z"}

	below := payment(t, "ZZZZZZZZ", 500000, "2024-01-15T20:00:00Z") // 30 + 15
	assert.Nil(t, reconciliation.FindBestMatch(&txn, []reconciliation.InternalPayment{below}))

	atThreshold := payment(t, "ZZZZZZZZ", 500000, "2024-01-15T10:10:00Z") // 30 + 20
	m := reconciliation.FindBestMatch(&txn, []reconciliation.InternalPayment{below, atThreshold})
	require.NotNil(t, m)
	assert.Equal(t, 50, m.Score)
	assert.Equal(t, reconciliation.ConfidenceLow, m.Confidence)
}

func TestFindBestMatch_NoCandidates(t *testing.T) {
	txn := reconciliation.ExternalTransaction{ID: uuid.New(), Reference: "TXN1", Amount: 100}
	assert.Nil(t, reconciliation.FindBestMatch(&txn, nil))
}

func TestFindBestMatch_TieKeepsCandidateOrder(t *testing.T) {
	txn := reconciliation.ExternalTransaction{ID: uuid.New(), Reference: "TXN12345", Amount: 500000}
	first := payment(t, "TXN12345", 500000, "2024-01-01T00:00:00Z")
	second := payment(t, "TXN12345", 500000, "2024-01-01T00:00:00Z")

	m := reconciliation.FindBestMatch(&txn, []reconciliation.InternalPayment{first, second})
	require.NotNil(t, m)
	assert.Equal(t, first.ID, m.Payment.ID)

	m = reconciliation.FindBestMatch(&txn, []reconciliation.InternalPayment{second, first})
	require.NotNil(t, m)
	assert.Equal(t, second.ID, m.Payment.ID)
}

func TestMatcher_RaisedThreshold(t *testing.T) {
	txn := reconciliation.ExternalTransaction{ID: uuid.New(), Reference: "AAAAAAAA", Amount: 500000, Date: "2024-01-15T10:00:00Z"}
	p := payment(t, "ZZZZZZZZ", 500000, "2024-01-15T10:10:00Z") // 50

	assert.Nil(t, reconciliation.NewMatcher(70).FindBestMatch(&txn, []reconciliation.InternalPayment{p}))
	assert.Equal(t, reconciliation.MinMatchScore, reconciliation.NewMatcher(10).Threshold())
	assert.NotNil(t, reconciliation.NewMatcher(10).FindBestMatch(&txn, []reconciliation.InternalPayment{p}))
}

// Two settlements that both clear the threshold against the same payment are
// both proposed that payment. Exclusivity is opt-in through AssignExclusive.
func TestBulkMatch_SamePaymentProposedTwice(t *testing.T) {
	p := payment(t, "TXN12345", 500000, "2024-01-15T10:00:00Z")
	txns := []reconciliation.ExternalTransaction{
		{ID: uuid.New(), Reference: "TXN12345", Amount: 500000, Date: "2024-01-15T10:00:00Z"},
		{ID: uuid.New(), Reference: "TXN12345", Amount: 500000, Date: "2024-01-16T10:00:00Z"},
		{ID: uuid.New(), Reference: "NOPE", Amount: 1},
	}

	results := reconciliation.BulkMatch(txns, []reconciliation.InternalPayment{p})

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, txns[i].ID, r.ExternalID)
	}
	require.NotNil(t, results[0].Match)
	require.NotNil(t, results[1].Match)
	assert.Equal(t, p.ID, results[0].Match.Payment.ID)
	assert.Equal(t, p.ID, results[1].Match.Payment.ID)
	assert.Nil(t, results[2].Match)
}

func TestAssignExclusive_ConsumesPayments(t *testing.T) {
	p := payment(t, "TXN12345", 500000, "2024-01-15T10:00:00Z")
	txns := []reconciliation.ExternalTransaction{
		{ID: uuid.New(), Reference: "TXN12345", Amount: 500000, Date: "2024-01-16T10:00:00Z"}, // 80
		{ID: uuid.New(), Reference: "TXN12345", Amount: 500000, Date: "2024-01-15T10:00:00Z"}, // 90
	}

	results := reconciliation.AssignExclusive(txns, []reconciliation.InternalPayment{p})

	require.Len(t, results, 2)
	assert.Equal(t, txns[0].ID, results[0].ExternalID)
	assert.Nil(t, results[0].Match)
	require.NotNil(t, results[1].Match)
	assert.Equal(t, 90, results[1].Match.Score)
}

func TestAssignExclusive_SecondChoiceAfterConsumption(t *testing.T) {
	p1 := payment(t, "TXN100", 500000, "2024-01-15T10:00:00Z")
	p2 := payment(t, "TXN200", 500000, "2024-01-15T10:00:00Z")
	txns := []reconciliation.ExternalTransaction{
		{ID: uuid.New(), Reference: "TXN100", Amount: 500000, Date: "2024-01-15T10:00:00Z"},
		{ID: uuid.New(), Reference: "ZZZZZZZZZZ", Amount: 500000, Date: "2024-01-15T10:00:00Z"},
	}

	results := reconciliation.AssignExclusive(txns, []reconciliation.InternalPayment{p1, p2})

	require.NotNil(t, results[0].Match)
	require.NotNil(t, results[1].Match)
	assert.Equal(t, p1.ID, results[0].Match.Payment.ID)
	assert.Equal(t, p2.ID, results[1].Match.Payment.ID)
}
