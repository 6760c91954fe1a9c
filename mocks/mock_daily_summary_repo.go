package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
)

// MockDailySummaryRepo is a mock implementation of port.DailySummaryRepository.
type MockDailySummaryRepo struct {
	mock.Mock
}

func (m *MockDailySummaryRepo) Upsert(ctx context.Context, summary *domain.DailySummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockDailySummaryRepo) GetByDate(ctx context.Context, userID uuid.UUID, date string) (*domain.DailySummary, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}

func (m *MockDailySummaryRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DailySummary, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DailySummary), args.Int(1), args.Error(2)
}
