package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"vitalis/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendDailySummaryEmail(ctx context.Context, toEmail, toName, date, summary string) error {
	subject := fmt.Sprintf("Your health summary for %s", date)
	htmlBody := buildDailySummaryHTML(toName, date, summary)
	textBody := fmt.Sprintf("Hi %s,\n\nHere is your health summary for %s:\n\n%s\n\nVitalis", toName, date, summary)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
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

func buildDailySummaryHTML(name, date, summary string) string {
	paragraphs := strings.ReplaceAll(html.EscapeString(summary), "\n", "<br>")
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your health summary for %s</h2>
  <p>Hi %s,</p>
  <p style="background-color: #F0FDF4; border-left: 4px solid #22C55E; padding: 16px; border-radius: 6px;">%s</p>
  <p style="color: #999; font-size: 12px;">This summary is generated automatically from your synced readings and is not medical advice.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Vitalis - Your Health Companion</p>
</body>
</html>`, html.EscapeString(date), html.EscapeString(name), paragraphs)
}
