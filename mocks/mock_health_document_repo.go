package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
)

// MockHealthDocumentRepo is a mock implementation of port.HealthDocumentRepository.
type MockHealthDocumentRepo struct {
	mock.Mock
}

func (m *MockHealthDocumentRepo) Create(ctx context.Context, doc *domain.HealthDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockHealthDocumentRepo) GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.HealthDocument, error) {
	args := m.Called(ctx, userID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthDocument), args.Error(1)
}

func (m *MockHealthDocumentRepo) GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.HealthDocument, error) {
	args := m.Called(ctx, userID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthDocument), args.Error(1)
}

func (m *MockHealthDocumentRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.HealthDocument, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.HealthDocument), args.Int(1), args.Error(2)
}

func (m *MockHealthDocumentRepo) UpdateExtraction(ctx context.Context, doc *domain.HealthDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockHealthDocumentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.HealthDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HealthDocument), args.Error(1)
}

func (m *MockHealthDocumentRepo) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	args := m.Called(ctx, userID, docID)
	return args.Error(0)
}
