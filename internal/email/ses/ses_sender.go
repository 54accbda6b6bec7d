package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"hotelpms/internal/port"
)

// emailAPI is the subset of the SES v2 client used here.
type emailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      emailAPI
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed AlertSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.AlertSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newSender(sesv2.NewFromConfig(cfg), fromAddress, fromName, frontendURL), nil
}

func newSender(client emailAPI, fromAddress, fromName, frontendURL string) *sesSender {
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (s *sesSender) SendReconciliationAlert(ctx context.Context, to []string, alert port.ReconciliationAlert) error {
	if len(to) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Reconciliation: %d unmatched settlement records", alert.Unmatched)
	reviewURL := fmt.Sprintf("%s/finance/reconciliation?from=%s&to=%s",
		s.frontendURL, alert.WindowFrom.Format("2006-01-02"), alert.WindowTo.Format("2006-01-02"))
	htmlBody := buildAlertHTML(alert, reviewURL)
	textBody := buildAlertText(alert, reviewURL)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildAlertText(a port.ReconciliationAlert, reviewURL string) string {
	return fmt.Sprintf("Reconciliation run for %s to %s\n\nConsidered: %d\nMatched: %d\nUnmatched: %d (total %s)\n\nReview unmatched records:\n%s\n",
		a.WindowFrom.Format("2006-01-02"), a.WindowTo.Format("2006-01-02"),
		a.Considered, a.Matched, a.Unmatched, a.UnmatchedAmount, reviewURL)
}

func buildAlertHTML(a port.ReconciliationAlert, reviewURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Unmatched settlement records</h2>
  <p>The reconciliation run for <strong>%s</strong> to <strong>%s</strong> left records without a matching payment.</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 4px 12px;">Considered</td><td style="padding: 4px 12px;">%d</td></tr>
    <tr><td style="padding: 4px 12px;">Matched</td><td style="padding: 4px 12px;">%d</td></tr>
    <tr><td style="padding: 4px 12px;">Unmatched</td><td style="padding: 4px 12px; color: #B91C1C;">%d (%s)</td></tr>
  </table>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review records</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">HotelPMS Finance</p>
</body>
</html>`,
		a.WindowFrom.Format("2006-01-02"), a.WindowTo.Format("2006-01-02"),
		a.Considered, a.Matched, a.Unmatched, a.UnmatchedAmount, html.EscapeString(reviewURL))
}
