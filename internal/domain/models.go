package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account in the companion app.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	MonthlyDocs  int       `db:"monthly_docs" json:"monthly_docs"`
	QuotaResetAt time.Time `db:"quota_reset_at" json:"quota_reset_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about an uploaded medical document file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// HealthDocument represents an uploaded file run through AI extraction.
type HealthDocument struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	UserID           uuid.UUID        `db:"user_id" json:"user_id"`
	FileID           uuid.UUID        `db:"file_id" json:"file_id"`
	DocumentType     string           `db:"document_type" json:"document_type"`
	Provider         string           `db:"provider" json:"provider"`
	DocumentDate     string           `db:"document_date" json:"document_date"`
	ExtractedData    json.RawMessage  `db:"extracted_data" json:"extracted_data"`
	ExtractedText    string           `db:"extracted_text" json:"extracted_text"`
	ExtractorModel   string           `db:"extractor_model" json:"extractor_model"`
	ExtractionStatus ExtractionStatus `db:"extraction_status" json:"extraction_status"`
	ExtractionError  string           `db:"extraction_error" json:"extraction_error"`
	ExtractAttempts  int              `db:"extract_attempts" json:"extract_attempts"`
	RetryAfter       *time.Time       `db:"retry_after" json:"retry_after"`
	ExtractedAt      *time.Time       `db:"extracted_at" json:"extracted_at"`
	MetricsSaved     bool             `db:"metrics_saved" json:"metrics_saved"`
	MetricCount      int              `db:"metric_count" json:"metric_count"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// HealthMetricRecord is a single normalized health measurement.
type HealthMetricRecord struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	UserID     uuid.UUID    `db:"user_id" json:"user_id"`
	MetricType string       `db:"metric_type" json:"metric_type"`
	Value      float64      `db:"value" json:"value"`
	Unit       string       `db:"unit" json:"unit"`
	RecordedAt time.Time    `db:"recorded_at" json:"recorded_at"`
	Source     MetricSource `db:"source" json:"source"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// DailySummary is an AI-generated natural-language summary of one day's metrics.
// SummaryDate is a calendar date in YYYY-MM-DD form.
type DailySummary struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	SummaryDate string    `db:"summary_date" json:"summary_date"`
	Content     string    `db:"content" json:"content"`
	Model       string    `db:"model" json:"model"`
	MetricCount int       `db:"metric_count" json:"metric_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
