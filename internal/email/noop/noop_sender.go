package noop

import (
	"context"
	"log"

	"vitalis/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs summaries to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendDailySummaryEmail(_ context.Context, toEmail, toName, date, summary string) error {
	log.Printf("[NOOP EMAIL] Daily summary for %s (%s) on %s: %s", toName, toEmail, date, summary)
	return nil
}
