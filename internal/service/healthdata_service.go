package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"vitalis/internal/domain"
	"vitalis/internal/normalizer"
	"vitalis/internal/port"
	"vitalis/internal/validator"
)

// HealthDataService normalizes extracted document data into metric records
// and persists them.
type HealthDataService interface {
	// SaveExtractedData normalizes lab results and vitals into metric records
	// and persists them in one batch. It reports success as a boolean and
	// never propagates an error or panic to the caller; extraction results
	// must survive even when metric persistence fails.
	SaveExtractedData(ctx context.Context, data *domain.ExtractedHealthData, userID uuid.UUID) bool
	BuildFromExtracted(data *domain.ExtractedHealthData, userID uuid.UUID) []domain.HealthMetricRecord
	ListMetrics(ctx context.Context, userID uuid.UUID, filter port.MetricFilter, offset, limit int) ([]domain.HealthMetricRecord, int, error)
	LatestByType(ctx context.Context, userID uuid.UUID) ([]domain.HealthMetricRecord, error)
}

type healthDataService struct {
	metricRepo port.HealthMetricRepository
}

// NewHealthDataService creates a new HealthDataService implementation.
func NewHealthDataService(metricRepo port.HealthMetricRepository) HealthDataService {
	return &healthDataService{metricRepo: metricRepo}
}

func (s *healthDataService) SaveExtractedData(ctx context.Context, data *domain.ExtractedHealthData, userID uuid.UUID) (saved bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("healthDataService.SaveExtractedData: panic while saving metrics for user %s: %v", userID, r)
			saved = false
		}
	}()

	records := normalizer.BuildRecords(data, userID, domain.SourceDocumentExtraction)
	if len(records) == 0 {
		return true
	}

	for _, w := range validator.CheckBatch(records) {
		log.Printf("healthDataService.SaveExtractedData: implausible value for user %s: %s", userID, w)
	}

	if err := s.metricRepo.SaveBatch(ctx, records); err != nil {
		log.Printf("healthDataService.SaveExtractedData: failed to save %d metrics for user %s: %v", len(records), userID, err)
		return false
	}

	log.Printf("healthDataService.SaveExtractedData: saved %d metrics for user %s", len(records), userID)
	return true
}

func (s *healthDataService) BuildFromExtracted(data *domain.ExtractedHealthData, userID uuid.UUID) []domain.HealthMetricRecord {
	return normalizer.BuildRecords(data, userID, domain.SourceDocumentExtraction)
}

func (s *healthDataService) ListMetrics(ctx context.Context, userID uuid.UUID, filter port.MetricFilter, offset, limit int) ([]domain.HealthMetricRecord, int, error) {
	return s.metricRepo.ListByUser(ctx, userID, filter, offset, limit)
}

func (s *healthDataService) LatestByType(ctx context.Context, userID uuid.UUID) ([]domain.HealthMetricRecord, error) {
	return s.metricRepo.LatestByType(ctx, userID)
}
