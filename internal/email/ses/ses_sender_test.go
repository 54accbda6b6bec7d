package ses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelpms/internal/port"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	return &sesv2.SendEmailOutput{}, f.err
}

func alert() port.ReconciliationAlert {
	return port.ReconciliationAlert{
		WindowFrom:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		WindowTo:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Considered:      10,
		Matched:         7,
		Unmatched:       3,
		UnmatchedAmount: 1250050,
	}
}

func TestSendReconciliationAlert(t *testing.T) {
	fake := &fakeSES{}
	s := newSender(fake, "noreply@hotel.test", "Finance", "https://app.hotel.test/")

	require.NoError(t, s.SendReconciliationAlert(context.Background(), []string{"gm@hotel.test"}, alert()))

	require.NotNil(t, fake.input)
	assert.Equal(t, "Finance <noreply@hotel.test>", *fake.input.FromEmailAddress)
	assert.Equal(t, []string{"gm@hotel.test"}, fake.input.Destination.ToAddresses)
	assert.Contains(t, *fake.input.Content.Simple.Subject.Data, "3 unmatched")
	assert.Contains(t, *fake.input.Content.Simple.Body.Text.Data, "12500.50")
	assert.Contains(t, *fake.input.Content.Simple.Body.Text.Data, "https://app.hotel.test/finance/reconciliation?from=2024-01-01&to=2024-01-31")
}

func TestSendReconciliationAlert_NoRecipients(t *testing.T) {
	fake := &fakeSES{}
	s := newSender(fake, "noreply@hotel.test", "Finance", "")

	require.NoError(t, s.SendReconciliationAlert(context.Background(), nil, alert()))
	assert.Nil(t, fake.input)
}

func TestSendReconciliationAlert_Error(t *testing.T) {
	fake := &fakeSES{err: errors.New("throttled")}
	s := newSender(fake, "noreply@hotel.test", "Finance", "")

	err := s.SendReconciliationAlert(context.Background(), []string{"gm@hotel.test"}, alert())
	assert.ErrorContains(t, err, "throttled")
}
