package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
	"vitalis/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateAndExtract(ctx context.Context, input *service.CreateDocumentInput) (*domain.HealthDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthDocument), args.Error(1)
}

func (m *MockDocumentService) GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.HealthDocument, error) {
	args := m.Called(ctx, userID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthDocument), args.Error(1)
}

func (m *MockDocumentService) GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.HealthDocument, error) {
	args := m.Called(ctx, userID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthDocument), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.HealthDocument, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.HealthDocument), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) RetryExtract(ctx context.Context, userID, docID uuid.UUID) (*domain.HealthDocument, error) {
	args := m.Called(ctx, userID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthDocument), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	args := m.Called(ctx, userID, docID)
	return args.Error(0)
}

func (m *MockDocumentService) ExtractDocument(ctx context.Context, doc *domain.HealthDocument, maxAttempts int) {
	m.Called(ctx, doc, maxAttempts)
}
