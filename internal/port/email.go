package port

import "context"

// EmailSender abstracts outbound email delivery.
type EmailSender interface {
	SendDailySummaryEmail(ctx context.Context, toEmail, toName, date, summary string) error
}
