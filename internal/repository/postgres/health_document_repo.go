package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vitalis/internal/domain"
	"vitalis/internal/port"
)

type healthDocumentRepo struct {
	db *sqlx.DB
}

// NewHealthDocumentRepo creates a new PostgreSQL-backed HealthDocumentRepository.
func NewHealthDocumentRepo(db *sqlx.DB) port.HealthDocumentRepository {
	return &healthDocumentRepo{db: db}
}

func (r *healthDocumentRepo) Create(ctx context.Context, doc *domain.HealthDocument) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO health_documents (
		id, user_id, file_id, document_type, provider, document_date,
		extracted_data, extracted_text, extractor_model,
		extraction_status, extraction_error, extract_attempts, retry_after, extracted_at,
		metrics_saved, metric_count, created_at, updated_at
	) VALUES (
		:id, :user_id, :file_id, :document_type, :provider, :document_date,
		:extracted_data, :extracted_text, :extractor_model,
		:extraction_status, :extraction_error, :extract_attempts, :retry_after, :extracted_at,
		:metrics_saved, :metric_count, :created_at, :updated_at
	)`

	_, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return fmt.Errorf("healthDocumentRepo.Create: %w", err)
	}
	return nil
}

func (r *healthDocumentRepo) GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.HealthDocument, error) {
	var doc domain.HealthDocument
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM health_documents WHERE id = $1 AND user_id = $2", docID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("healthDocumentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *healthDocumentRepo) GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.HealthDocument, error) {
	var doc domain.HealthDocument
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM health_documents WHERE file_id = $1 AND user_id = $2", fileID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("healthDocumentRepo.GetByFileID: %w", err)
	}
	return &doc, nil
}

func (r *healthDocumentRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.HealthDocument, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM health_documents WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("healthDocumentRepo.ListByUser count: %w", err)
	}

	var docs []domain.HealthDocument
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM health_documents
		 WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("healthDocumentRepo.ListByUser: %w", err)
	}
	return docs, total, nil
}

func (r *healthDocumentRepo) UpdateExtraction(ctx context.Context, doc *domain.HealthDocument) error {
	doc.UpdatedAt = time.Now().UTC()

	query := `UPDATE health_documents SET
		document_type = :document_type,
		provider = :provider,
		document_date = :document_date,
		extracted_data = :extracted_data,
		extracted_text = :extracted_text,
		extractor_model = :extractor_model,
		extraction_status = :extraction_status,
		extraction_error = :extraction_error,
		extract_attempts = :extract_attempts,
		retry_after = :retry_after,
		extracted_at = :extracted_at,
		metrics_saved = :metrics_saved,
		metric_count = :metric_count,
		updated_at = :updated_at
	WHERE id = :id AND user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return fmt.Errorf("healthDocumentRepo.UpdateExtraction: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClaimQueued atomically moves up to limit due queued documents to processing
// and returns them. SKIP LOCKED keeps concurrent workers from claiming the
// same rows.
func (r *healthDocumentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.HealthDocument, error) {
	var docs []domain.HealthDocument
	err := r.db.SelectContext(ctx, &docs, `
		UPDATE health_documents SET
			extraction_status = $1,
			updated_at = NOW()
		WHERE id IN (
			SELECT id FROM health_documents
			WHERE extraction_status = $2 AND (retry_after IS NULL OR retry_after <= NOW())
			ORDER BY retry_after NULLS FIRST
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`,
		domain.ExtractionStatusProcessing, domain.ExtractionStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("healthDocumentRepo.ClaimQueued: %w", err)
	}
	return docs, nil
}

func (r *healthDocumentRepo) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM health_documents WHERE id = $1 AND user_id = $2", docID, userID)
	if err != nil {
		return fmt.Errorf("healthDocumentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
