package reconciliation_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelpms/internal/money"
	"hotelpms/internal/reconciliation"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}

func TestCalculateMatchScore_ExactReferenceAmountAndHour(t *testing.T) {
	txn := reconciliation.ExternalTransaction{
		ID:        uuid.New(),
		Reference: "TXN12345",
		Amount:    money.MustMajor("5000"),
		Date:      "2024-01-15T10:00:00Z",
	}
	p := reconciliation.InternalPayment{
		ID:             uuid.New(),
		TransactionRef: "TXN12345",
		Amount:         money.MustMajor("5000"),
		CreatedAt:      mustTime(t, "2024-01-15T10:30:00Z"),
	}

	s := reconciliation.CalculateMatchScore(&txn, &p)

	assert.Equal(t, 90, s.Score)
	assert.Equal(t, reconciliation.ConfidenceHigh, s.Confidence)
	assert.Equal(t, reconciliation.SubScores{Reference: 40, Amount: 30, Date: 20}, s.SubScores)
	assert.Equal(t, []string{"Exact reference match", "Exact amount match", "Date within 1 hour"}, s.Reasons)
}

func TestCalculateMatchScore_Reference(t *testing.T) {
	tests := []struct {
		name        string
		ext         string
		txnRef      string
		providerRef string
		want        int
	}{
		{name: "normalized exact", ext: "txn-123/45", txnRef: "TXN 12345", want: 40},
		{name: "contains", ext: "POS-TXN12345-A", txnRef: "TXN12345", want: 30},
		{name: "edit distance 2", ext: "TXN12345", txnRef: "TXN12399", want: 20},
		{name: "edit distance 4", ext: "TXN12345", txnRef: "TXN16789", want: 0},
		{name: "short reference contained", ext: "AB", txnRef: "ABCDEFGHIJ", want: 30},
		{name: "provider ref wins", ext: "RRN998877", txnRef: "ZZZZZZZZZZZZ", providerRef: "rrn-998877", want: 40},
		{name: "empty external", ext: "", txnRef: "TXN1", want: 0},
		{name: "empty internal", ext: "TXN1", txnRef: "", providerRef: "--", want: 0},
		{name: "non-ascii characters stripped", ext: "TXN١٢３45é", txnRef: "TXN45", want: 40},
		{name: "only non-ascii", ext: "ñññ", txnRef: "ñññ", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := reconciliation.ExternalTransaction{Reference: tt.ext}
			p := reconciliation.InternalPayment{TransactionRef: tt.txnRef, ProviderReference: tt.providerRef}
			assert.Equal(t, tt.want, reconciliation.CalculateMatchScore(&txn, &p).SubScores.Reference)
		})
	}
}

func TestCalculateMatchScore_Amount(t *testing.T) {
	tests := []struct {
		name     string
		external money.Amount
		internal money.Amount
		want     int
	}{
		{name: "exact", external: 500000, internal: 500000, want: 30},
		{name: "within 1%", external: 500000, internal: 496000, want: 25},
		{name: "exactly 1% is not under 1%", external: 500000, internal: 495000, want: 15},
		{name: "within 5%", external: 500000, internal: 480000, want: 15},
		{name: "beyond 5%", external: 500000, internal: 470000, want: 0},
		{name: "zero external", external: 0, internal: 1, want: 0},
		{name: "refund", external: -10000, internal: -9950, want: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := reconciliation.ExternalTransaction{Amount: tt.external}
			p := reconciliation.InternalPayment{Amount: tt.internal}
			assert.Equal(t, tt.want, reconciliation.CalculateMatchScore(&txn, &p).SubScores.Amount)
		})
	}
}

func TestCalculateMatchScore_Date(t *testing.T) {
	created := mustTime(t, "2024-01-15T10:00:00Z")
	tests := []struct {
		date string
		want int
	}{
		{date: "2024-01-15T10:59:59Z", want: 20},
		{date: "2024-01-15 20:00:00", want: 15},
		{date: "2024-01-17", want: 10},
		{date: "2024-01-20T09:00:00Z", want: 5},
		{date: "2024-02-15T10:00:00Z", want: 0},
		{date: "2024-01-14T12:00:00+01:00", want: 15},
		{date: "2024-01-14T11:00:00+01:00", want: 10},
		{date: "", want: 0},
		{date: "not-a-date", want: 0},
		{date: "2024-13-45", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			txn := reconciliation.ExternalTransaction{Date: tt.date}
			p := reconciliation.InternalPayment{CreatedAt: created}
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, reconciliation.CalculateMatchScore(&txn, &p).SubScores.Date)
			})
		})
	}
}

func TestCalculateMatchScore_Provider(t *testing.T) {
	tests := []struct {
		ext, internal string
		want          int
	}{
		{ext: "Moniepoint", internal: "moniepoint", want: 10},
		{ext: "Moniepoint POS", internal: "moniepoint", want: 7},
		{ext: "Paystack", internal: "Flutterwave", want: 0},
		{ext: "", internal: "Paystack", want: 0},
		{ext: "Paystack", internal: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.ext+"/"+tt.internal, func(t *testing.T) {
			txn := reconciliation.ExternalTransaction{ProviderName: tt.ext}
			p := reconciliation.InternalPayment{MethodProvider: tt.internal}
			assert.Equal(t, tt.want, reconciliation.CalculateMatchScore(&txn, &p).SubScores.Provider)
		})
	}
}

func TestCalculateMatchScore_ReasonOrder(t *testing.T) {
	txn := reconciliation.ExternalTransaction{
		Reference: "ABCDEF", Amount: 1000, Date: "2024-01-15", ProviderName: "Opay",
	}
	p := reconciliation.InternalPayment{
		TransactionRef: "uvwxyz", Amount: 1000, CreatedAt: mustTime(t, "2024-01-15T00:10:00Z"), MethodProvider: "opay",
	}
	s := reconciliation.CalculateMatchScore(&txn, &p)
	assert.Equal(t, []string{"Exact amount match", "Date within 1 hour", "Provider match"}, s.Reasons)
	assert.Equal(t, 60, s.Score)
	assert.Equal(t, reconciliation.ConfidenceMedium, s.Confidence)
}

func TestConfidenceFor(t *testing.T) {
	assert.Equal(t, reconciliation.ConfidenceHigh, reconciliation.ConfidenceFor(100))
	assert.Equal(t, reconciliation.ConfidenceHigh, reconciliation.ConfidenceFor(80))
	assert.Equal(t, reconciliation.ConfidenceMedium, reconciliation.ConfidenceFor(79))
	assert.Equal(t, reconciliation.ConfidenceMedium, reconciliation.ConfidenceFor(60))
	assert.Equal(t, reconciliation.ConfidenceLow, reconciliation.ConfidenceFor(59))
	assert.Equal(t, reconciliation.ConfidenceLow, reconciliation.ConfidenceFor(0))
}

func TestCalculateMatchScore_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	refs := []string{"", "TXN1", "TXN12345", "txn-12345", "POS/TXN12345/X", "RRN0001", "12345", "ç-ü-ñ"}
	dates := []string{"", "garbage", "2024-01-15T10:00:00Z", "2024-01-16", "2023-12-01 08:00:00"}
	providers := []string{"", "Moniepoint", "moniepoint pos", "Paystack"}
	base := mustTime(t, "2024-01-15T10:00:00Z")

	for i := 0; i < 2000; i++ {
		txn := reconciliation.ExternalTransaction{
			Reference:    refs[rng.Intn(len(refs))],
			Amount:       money.Amount(rng.Int63n(2_000_000) - 100_000),
			Date:         dates[rng.Intn(len(dates))],
			ProviderName: providers[rng.Intn(len(providers))],
		}
		p := reconciliation.InternalPayment{
			TransactionRef:    refs[rng.Intn(len(refs))],
			ProviderReference: refs[rng.Intn(len(refs))],
			Amount:            money.Amount(rng.Int63n(2_000_000)),
			CreatedAt:         base.Add(time.Duration(rng.Int63n(400)) * time.Hour),
			MethodProvider:    providers[rng.Intn(len(providers))],
		}
		s := reconciliation.CalculateMatchScore(&txn, &p)

		require.GreaterOrEqual(t, s.Score, 0)
		require.LessOrEqual(t, s.Score, 100)
		require.LessOrEqual(t, s.SubScores.Reference, reconciliation.MaxReferenceScore)
		require.LessOrEqual(t, s.SubScores.Amount, reconciliation.MaxAmountScore)
		require.LessOrEqual(t, s.SubScores.Date, reconciliation.MaxDateScore)
		require.LessOrEqual(t, s.SubScores.Provider, reconciliation.MaxProviderScore)
		require.Equal(t, s.Score, s.SubScores.Reference+s.SubScores.Amount+s.SubScores.Date+s.SubScores.Provider)
	}
}

func TestParseTransactionDate(t *testing.T) {
	for _, s := range []string{"2024-01-15T10:00:00Z", "2024-01-15T10:00:00.123+01:00", "2024-01-15 10:00:00", "2024-01-15", "15/01/2024"} {
		_, ok := reconciliation.ParseTransactionDate(s)
		assert.True(t, ok, s)
	}
	_, ok := reconciliation.ParseTransactionDate("yesterday")
	assert.False(t, ok)
}
