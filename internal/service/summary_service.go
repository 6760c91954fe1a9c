package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"vitalis/internal/domain"
	"vitalis/internal/extractor"
	"vitalis/internal/port"
)

const summaryDateLayout = "2006-01-02"

// GenerateSummaryInput is the DTO for daily summary generation.
type GenerateSummaryInput struct {
	UserID    uuid.UUID
	Date      string // YYYY-MM-DD; empty means today (UTC)
	SendEmail bool
}

// SummaryService generates and serves AI daily summaries.
type SummaryService interface {
	GenerateDaily(ctx context.Context, input GenerateSummaryInput) (*domain.DailySummary, error)
	GetByDate(ctx context.Context, userID uuid.UUID, date string) (*domain.DailySummary, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DailySummary, int, error)
}

type summaryService struct {
	summaryRepo port.DailySummaryRepository
	metricRepo  port.HealthMetricRepository
	userRepo    port.UserRepository
	generator   port.TextGenerator
	emailSender port.EmailSender
	model       string
}

// NewSummaryService creates a new SummaryService implementation.
func NewSummaryService(
	summaryRepo port.DailySummaryRepository,
	metricRepo port.HealthMetricRepository,
	userRepo port.UserRepository,
	generator port.TextGenerator,
	emailSender port.EmailSender,
	model string,
) SummaryService {
	return &summaryService{
		summaryRepo: summaryRepo,
		metricRepo:  metricRepo,
		userRepo:    userRepo,
		generator:   generator,
		emailSender: emailSender,
		model:       model,
	}
}

func (s *summaryService) GenerateDaily(ctx context.Context, input GenerateSummaryInput) (*domain.DailySummary, error) {
	date := input.Date
	if date == "" {
		date = time.Now().UTC().Format(summaryDateLayout)
	}
	dayStart, err := time.ParseInLocation(summaryDateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("summary.GenerateDaily: invalid date %q: %w", input.Date, err)
	}

	// All of the day's metrics, newest first. A day of readings fits
	// comfortably in one page.
	records, _, err := s.metricRepo.ListByUser(ctx, input.UserID, port.MetricFilter{
		From: dayStart,
		To:   dayStart.Add(24 * time.Hour),
	}, 0, 500)
	if err != nil {
		return nil, fmt.Errorf("summary.GenerateDaily: loading metrics: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrNoMetricsForDay
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("%s: %g %s at %s (%s)",
			rec.MetricType, rec.Value, rec.Unit, rec.RecordedAt.Format("15:04"), rec.Source))
	}

	prompt := extractor.BuildDailySummaryPrompt(date, lines)
	content, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("summary.GenerateDaily: generating summary: %w", err)
	}

	summary := &domain.DailySummary{
		ID:          uuid.New(),
		UserID:      input.UserID,
		SummaryDate: date,
		Content:     content,
		Model:       s.model,
		MetricCount: len(records),
	}

	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		return nil, fmt.Errorf("summary.GenerateDaily: saving summary: %w", err)
	}

	log.Printf("summaryService.GenerateDaily: generated summary for user %s on %s (%d metrics)",
		input.UserID, date, len(records))

	if input.SendEmail && s.emailSender != nil {
		s.sendSummaryEmail(ctx, input.UserID, date, content)
	}

	return summary, nil
}

// sendSummaryEmail delivers the summary by email. Failures are logged but
// never block summary generation.
func (s *summaryService) sendSummaryEmail(ctx context.Context, userID uuid.UUID, date, content string) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("summaryService.sendSummaryEmail: failed to load user %s: %v", userID, err)
		return
	}
	if err := s.emailSender.SendDailySummaryEmail(ctx, user.Email, user.FullName, date, content); err != nil {
		log.Printf("summaryService.sendSummaryEmail: failed to send to %s: %v", user.Email, err)
	}
}

func (s *summaryService) GetByDate(ctx context.Context, userID uuid.UUID, date string) (*domain.DailySummary, error) {
	if _, err := time.ParseInLocation(summaryDateLayout, date, time.UTC); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.summaryRepo.GetByDate(ctx, userID, date)
}

func (s *summaryService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DailySummary, int, error) {
	return s.summaryRepo.ListByUser(ctx, userID, offset, limit)
}
