package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
	"vitalis/internal/port"
)

// MockHealthMetricRepo is a mock implementation of port.HealthMetricRepository.
type MockHealthMetricRepo struct {
	mock.Mock
}

func (m *MockHealthMetricRepo) SaveBatch(ctx context.Context, records []domain.HealthMetricRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockHealthMetricRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter port.MetricFilter, offset, limit int) ([]domain.HealthMetricRecord, int, error) {
	args := m.Called(ctx, userID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.HealthMetricRecord), args.Int(1), args.Error(2)
}

func (m *MockHealthMetricRepo) LatestByType(ctx context.Context, userID uuid.UUID) ([]domain.HealthMetricRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HealthMetricRecord), args.Error(1)
}
