package port

import (
	"context"

	"github.com/google/uuid"

	"vitalis/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	CheckAndIncrementQuota(ctx context.Context, userID uuid.UUID, monthlyLimit int) error
}

// FileMetaRepository defines the contract for file metadata persistence.
// All query methods include userID so a user can only see their own files.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, userID, fileID uuid.UUID) (*domain.FileMeta, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	UpdateStatus(ctx context.Context, userID, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, userID, fileID uuid.UUID) error
}

// HealthDocumentRepository defines the contract for health document persistence.
type HealthDocumentRepository interface {
	Create(ctx context.Context, doc *domain.HealthDocument) error
	GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.HealthDocument, error)
	GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.HealthDocument, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.HealthDocument, int, error)
	UpdateExtraction(ctx context.Context, doc *domain.HealthDocument) error
	ClaimQueued(ctx context.Context, limit int) ([]domain.HealthDocument, error)
	Delete(ctx context.Context, userID, docID uuid.UUID) error
}

// HealthMetricRepository defines the contract for metric persistence.
// SaveBatch is the single batch-insert call the normalization pipeline
// dispatches to; it inserts all records or fails as one operation.
type HealthMetricRepository interface {
	SaveBatch(ctx context.Context, records []domain.HealthMetricRecord) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter MetricFilter, offset, limit int) ([]domain.HealthMetricRecord, int, error)
	LatestByType(ctx context.Context, userID uuid.UUID) ([]domain.HealthMetricRecord, error)
}

// DailySummaryRepository defines the contract for daily summary persistence.
type DailySummaryRepository interface {
	Upsert(ctx context.Context, summary *domain.DailySummary) error
	GetByDate(ctx context.Context, userID uuid.UUID, date string) (*domain.DailySummary, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DailySummary, int, error)
}
