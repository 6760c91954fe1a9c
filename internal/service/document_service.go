package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"vitalis/internal/domain"
	"vitalis/internal/extractor"
	"vitalis/internal/port"
)

const defaultMaxExtractAttempts = 5

// CreateDocumentInput is the DTO for creating a document and triggering extraction.
type CreateDocumentInput struct {
	UserID uuid.UUID
	FileID uuid.UUID
}

// DocumentService defines the health document management contract.
type DocumentService interface {
	CreateAndExtract(ctx context.Context, input *CreateDocumentInput) (*domain.HealthDocument, error)
	GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.HealthDocument, error)
	GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.HealthDocument, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.HealthDocument, int, error)
	RetryExtract(ctx context.Context, userID, docID uuid.UUID) (*domain.HealthDocument, error)
	Delete(ctx context.Context, userID, docID uuid.UUID) error
	ExtractDocument(ctx context.Context, doc *domain.HealthDocument, maxAttempts int)
}

type documentService struct {
	docRepo    port.HealthDocumentRepository
	fileRepo   port.FileMetaRepository
	userRepo   port.UserRepository
	extractor  port.DocumentExtractor
	storage    port.ObjectStorage
	healthData HealthDataService
	quotaLimit int
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.HealthDocumentRepository,
	fileRepo port.FileMetaRepository,
	userRepo port.UserRepository,
	docExtractor port.DocumentExtractor,
	storage port.ObjectStorage,
	healthData HealthDataService,
	quotaLimit int,
) DocumentService {
	return &documentService{
		docRepo:    docRepo,
		fileRepo:   fileRepo,
		userRepo:   userRepo,
		extractor:  docExtractor,
		storage:    storage,
		healthData: healthData,
		quotaLimit: quotaLimit,
	}
}

func (s *documentService) CreateAndExtract(ctx context.Context, input *CreateDocumentInput) (*domain.HealthDocument, error) {
	// Check and increment quota (no-op when the limit is 0)
	if err := s.userRepo.CheckAndIncrementQuota(ctx, input.UserID, s.quotaLimit); err != nil {
		return nil, err
	}

	// Verify the file exists and belongs to the user
	if _, err := s.fileRepo.GetByID(ctx, input.UserID, input.FileID); err != nil {
		return nil, fmt.Errorf("looking up file: %w", err)
	}

	doc := &domain.HealthDocument{
		ID:               uuid.New(),
		UserID:           input.UserID,
		FileID:           input.FileID,
		ExtractedData:    json.RawMessage("{}"),
		ExtractionStatus: domain.ExtractionStatusPending,
	}

	log.Printf("documentService.CreateAndExtract: creating document %s for file %s (user %s)",
		doc.ID, input.FileID, input.UserID)

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	// Copy before launching goroutine so the caller's value is independent of background work
	result := *doc

	// Launch background extraction
	go s.extractInBackground(doc.ID, doc.UserID)

	return &result, nil
}

func (s *documentService) extractInBackground(docID, userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Printf("documentService.extractInBackground: starting extraction for document %s", docID)

	// Set status to processing
	doc, err := s.docRepo.GetByID(ctx, userID, docID)
	if err != nil {
		log.Printf("documentService.extractInBackground: failed to get document %s: %v", docID, err)
		return
	}
	doc.ExtractAttempts++
	doc.ExtractionStatus = domain.ExtractionStatusProcessing
	if err := s.docRepo.UpdateExtraction(ctx, doc); err != nil {
		log.Printf("documentService.extractInBackground: failed to set processing status for %s: %v", docID, err)
		return
	}

	s.ExtractDocument(ctx, doc, defaultMaxExtractAttempts)
}

// ExtractDocument performs the core extraction logic: file lookup, S3 download,
// LLM extraction, error handling (with rate-limit queueing), result saving, and
// metric normalization. It is called by both extractInBackground and the queue
// worker. The doc must already be in processing status with ExtractAttempts
// incremented.
func (s *documentService) ExtractDocument(ctx context.Context, doc *domain.HealthDocument, maxAttempts int) {
	// Look up file for S3 coordinates
	file, err := s.fileRepo.GetByID(ctx, doc.UserID, doc.FileID)
	if err != nil {
		s.failExtraction(ctx, doc, fmt.Sprintf("looking up file: %v", err))
		return
	}

	// Download file bytes from S3
	fileBytes, err := s.storage.Download(ctx, file.S3Bucket, file.S3Key)
	if err != nil {
		s.failExtraction(ctx, doc, fmt.Sprintf("downloading file: %v", err))
		return
	}

	// Call extractor
	output, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   fileBytes,
		ContentType: file.ContentType,
	})
	if err != nil {
		s.handleExtractError(ctx, doc, err, maxAttempts)
		return
	}

	// Unmarshal for document metadata and metric normalization
	var data domain.ExtractedHealthData
	if err := json.Unmarshal(output.Data, &data); err != nil {
		s.failExtraction(ctx, doc, fmt.Sprintf("parsing extracted data: %v", err))
		return
	}

	// Update with results
	now := time.Now().UTC()
	doc.ExtractedData = output.Data
	doc.ExtractedText = output.RawText
	doc.ExtractorModel = output.ModelUsed
	doc.DocumentType = data.DocumentType
	doc.Provider = data.Provider
	doc.DocumentDate = data.Date
	doc.ExtractionStatus = domain.ExtractionStatusCompleted
	doc.ExtractionError = ""
	doc.ExtractedAt = &now
	doc.RetryAfter = nil

	// Normalize and persist metrics from the extracted data
	records := s.healthData.BuildFromExtracted(&data, doc.UserID)
	doc.MetricCount = len(records)
	doc.MetricsSaved = s.healthData.SaveExtractedData(ctx, &data, doc.UserID)

	if err := s.docRepo.UpdateExtraction(ctx, doc); err != nil {
		log.Printf("documentService.ExtractDocument: failed to save results for %s: %v", doc.ID, err)
		return
	}

	log.Printf("documentService.ExtractDocument: document %s extracted successfully (%d metrics, saved=%t)",
		doc.ID, doc.MetricCount, doc.MetricsSaved)
}

// handleExtractError checks if the error is a rate limit and queues the document
// for retry if under the max attempts threshold. Otherwise, marks extraction as
// permanently failed.
func (s *documentService) handleExtractError(ctx context.Context, doc *domain.HealthDocument, extractErr error, maxAttempts int) {
	var rlErr *extractor.RateLimitError
	if errors.As(extractErr, &rlErr) && doc.ExtractAttempts < maxAttempts {
		retryAt := time.Now().Add(rlErr.RetryAfter)
		doc.ExtractionStatus = domain.ExtractionStatusQueued
		doc.ExtractionError = fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
		doc.RetryAfter = &retryAt
		if err := s.docRepo.UpdateExtraction(ctx, doc); err != nil {
			log.Printf("documentService.handleExtractError: failed to queue document %s: %v", doc.ID, err)
		} else {
			log.Printf("documentService.handleExtractError: document %s queued for retry after %s", doc.ID, retryAt.Format(time.RFC3339))
		}
		return
	}
	s.failExtraction(ctx, doc, fmt.Sprintf("extracting document: %v", extractErr))
}

func (s *documentService) failExtraction(ctx context.Context, doc *domain.HealthDocument, errMsg string) {
	log.Printf("documentService.failExtraction: document %s failed: %s", doc.ID, errMsg)
	doc.ExtractionStatus = domain.ExtractionStatusFailed
	doc.ExtractionError = errMsg
	doc.RetryAfter = nil
	if err := s.docRepo.UpdateExtraction(ctx, doc); err != nil {
		log.Printf("documentService.failExtraction: failed to update status for %s: %v", doc.ID, err)
	}
}

func (s *documentService) GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.HealthDocument, error) {
	return s.docRepo.GetByID(ctx, userID, docID)
}

func (s *documentService) GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.HealthDocument, error) {
	return s.docRepo.GetByFileID(ctx, userID, fileID)
}

func (s *documentService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.HealthDocument, int, error) {
	return s.docRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *documentService) RetryExtract(ctx context.Context, userID, docID uuid.UUID) (*domain.HealthDocument, error) {
	doc, err := s.docRepo.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, err
	}

	// Verify the file still exists
	if _, err := s.fileRepo.GetByID(ctx, userID, doc.FileID); err != nil {
		return nil, fmt.Errorf("looking up file for retry: %w", err)
	}

	// Reset to pending
	doc.ExtractionStatus = domain.ExtractionStatusPending
	doc.ExtractionError = ""
	doc.ExtractedData = json.RawMessage("{}")
	doc.ExtractedText = ""
	doc.MetricsSaved = false
	doc.MetricCount = 0
	doc.RetryAfter = nil
	if err := s.docRepo.UpdateExtraction(ctx, doc); err != nil {
		return nil, fmt.Errorf("resetting document for retry: %w", err)
	}

	log.Printf("documentService.RetryExtract: retrying extraction for document %s", docID)

	// Copy before launching goroutine so the caller's value is independent of background work
	result := *doc

	go s.extractInBackground(doc.ID, doc.UserID)

	return &result, nil
}

func (s *documentService) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	return s.docRepo.Delete(ctx, userID, docID)
}
