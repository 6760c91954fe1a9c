package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"vitalis/internal/domain"
	"vitalis/internal/normalizer"
	"vitalis/internal/port"
	"vitalis/internal/validator"
)

// healthKitTypes maps HealthKit quantity type identifiers to canonical
// metric types. Identifiers not listed here fall back to the classifier.
var healthKitTypes = map[string]string{
	"HKQuantityTypeIdentifierHeartRate":                "heart_rate",
	"HKQuantityTypeIdentifierRestingHeartRate":         "resting_heart_rate",
	"HKQuantityTypeIdentifierBloodPressureSystolic":    "blood_pressure_systolic",
	"HKQuantityTypeIdentifierBloodPressureDiastolic":   "blood_pressure_diastolic",
	"HKQuantityTypeIdentifierBloodGlucose":             "blood_glucose",
	"HKQuantityTypeIdentifierOxygenSaturation":         "oxygen_saturation",
	"HKQuantityTypeIdentifierRespiratoryRate":          "respiratory_rate",
	"HKQuantityTypeIdentifierBodyTemperature":          "body_temperature",
	"HKQuantityTypeIdentifierBodyMass":                 "body_weight",
	"HKQuantityTypeIdentifierHeight":                   "height",
	"HKQuantityTypeIdentifierBodyMassIndex":            "bmi",
	"HKQuantityTypeIdentifierStepCount":                "steps",
	"HKQuantityTypeIdentifierActiveEnergyBurned":       "active_energy",
	"HKQuantityTypeIdentifierAppleSleepingWristTemperature": "wrist_temperature",
	"HKCategoryTypeIdentifierSleepAnalysis":            "sleep_duration",
}

// HealthSample is a single reading synced from the phone.
type HealthSample struct {
	Type       string    `json:"type" binding:"required"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	RecordedAt time.Time `json:"recorded_at" binding:"required"`
}

// SyncInput is the DTO for Apple Health sync requests.
type SyncInput struct {
	UserID  uuid.UUID
	Samples []HealthSample
}

// SyncResult reports how a sync batch was ingested.
type SyncResult struct {
	Received int `json:"received"`
	Saved    int `json:"saved"`
	Skipped  int `json:"skipped"`
}

// SyncService ingests health metric batches synced from the mobile app.
type SyncService interface {
	IngestSamples(ctx context.Context, input SyncInput) (*SyncResult, error)
}

type syncService struct {
	metricRepo port.HealthMetricRepository
}

// NewSyncService creates a new SyncService implementation.
func NewSyncService(metricRepo port.HealthMetricRepository) SyncService {
	return &syncService{metricRepo: metricRepo}
}

func (s *syncService) IngestSamples(ctx context.Context, input SyncInput) (*SyncResult, error) {
	if len(input.Samples) == 0 {
		return nil, domain.ErrInvalidSample
	}

	records := make([]domain.HealthMetricRecord, 0, len(input.Samples))
	skipped := 0
	for _, sample := range input.Samples {
		metricType := classifySampleType(sample.Type)
		if metricType == "" || sample.RecordedAt.IsZero() {
			skipped++
			continue
		}
		records = append(records, domain.HealthMetricRecord{
			ID:         uuid.New(),
			UserID:     input.UserID,
			MetricType: metricType,
			Value:      sample.Value,
			Unit:       sample.Unit,
			RecordedAt: sample.RecordedAt.UTC(),
			Source:     domain.SourceAppleHealth,
		})
	}

	if len(records) == 0 {
		return nil, domain.ErrInvalidSample
	}

	for _, w := range validator.CheckBatch(records) {
		log.Printf("syncService.IngestSamples: implausible value for user %s: %s", input.UserID, w)
	}

	if err := s.metricRepo.SaveBatch(ctx, records); err != nil {
		return nil, err
	}

	log.Printf("syncService.IngestSamples: saved %d/%d samples for user %s (skipped %d)",
		len(records), len(input.Samples), input.UserID, skipped)

	return &SyncResult{
		Received: len(input.Samples),
		Saved:    len(records),
		Skipped:  skipped,
	}, nil
}

// classifySampleType resolves a sample type to a canonical metric type. It
// accepts raw HealthKit identifiers and falls back to the document
// classifier for free-form names.
func classifySampleType(sampleType string) string {
	trimmed := strings.TrimSpace(sampleType)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := healthKitTypes[trimmed]; ok {
		return canonical
	}
	return normalizer.Classify(trimmed)
}
