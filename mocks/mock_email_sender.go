package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendDailySummaryEmail(ctx context.Context, toEmail, toName, date, summary string) error {
	args := m.Called(ctx, toEmail, toName, date, summary)
	return args.Error(0)
}
