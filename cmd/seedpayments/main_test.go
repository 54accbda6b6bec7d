package main

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelpms/internal/money"
)

func TestParsePaymentRows(t *testing.T) {
	bookingID := uuid.NewString()
	rows := [][]string{
		{"Transaction Ref", "Provider  Reference", "Amount", "Provider", "Created At", "Booking ID"},
		{"FOL-1001", "PSK-77", "25,000.00", "Paystack", "2026-10-01 09:15", bookingID},
		{"FOL-1002", "", "not-money", "Flutterwave", "2026-10-01", ""},
		{"FOL-1003", "", "1500", "Cash", "sometime", ""},
		{"FOL-1004", "", "1500.5", "Flutterwave", "02/10/2026", "not-a-uuid"},
	}

	entries, skipped, err := parsePaymentRows(rows)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, entries, 2)

	assert.Equal(t, "FOL-1001", entries[0].transactionRef)
	assert.Equal(t, "PSK-77", entries[0].providerReference)
	assert.Equal(t, money.MustMajor("25000"), entries[0].amount)
	assert.Equal(t, bookingID, entries[0].bookingID)

	assert.Equal(t, money.MustMajor("1500.50"), entries[1].amount)
	assert.Empty(t, entries[1].bookingID)
	assert.Equal(t, 10, int(entries[1].createdAt.Month()))
}

func TestParsePaymentRows_MissingColumns(t *testing.T) {
	_, _, err := parsePaymentRows([][]string{{"Reference", "Provider"}})
	assert.Error(t, err)

	_, _, err = parsePaymentRows([][]string{{"Amount", "Created At"}})
	assert.Error(t, err)

	_, _, err = parsePaymentRows(nil)
	assert.Error(t, err)
}

func TestWriteBatch_EscapesAndNulls(t *testing.T) {
	tenantID := uuid.New()
	rows := [][]string{
		{"Reference", "Amount", "Date", "Provider"},
		{"O'NEIL-1", "100", "2026-10-01", "Paystack"},
	}
	entries, _, err := parsePaymentRows(rows)
	require.NoError(t, err)

	var b strings.Builder
	writeBatch(&b, tenantID, entries)
	sql := b.String()

	assert.Contains(t, sql, "INSERT INTO payments")
	assert.Contains(t, sql, "'O''NEIL-1'")
	assert.Contains(t, sql, tenantID.String())
	assert.Contains(t, sql, ", NULL, ")
	assert.Contains(t, sql, ", 10000, ")
	assert.Contains(t, sql, "ON CONFLICT (id) DO NOTHING;")
}
