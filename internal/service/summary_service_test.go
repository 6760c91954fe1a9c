package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vitalis/internal/domain"
	"vitalis/internal/port"
	"vitalis/internal/service"
	"vitalis/mocks"
)

type summaryServiceFixture struct {
	summaryRepo *mocks.MockDailySummaryRepo
	metricRepo  *mocks.MockHealthMetricRepo
	userRepo    *mocks.MockUserRepo
	generator   *mocks.MockTextGenerator
	emailSender *mocks.MockEmailSender
	svc         service.SummaryService
}

func newSummaryServiceFixture() *summaryServiceFixture {
	f := &summaryServiceFixture{
		summaryRepo: new(mocks.MockDailySummaryRepo),
		metricRepo:  new(mocks.MockHealthMetricRepo),
		userRepo:    new(mocks.MockUserRepo),
		generator:   new(mocks.MockTextGenerator),
		emailSender: new(mocks.MockEmailSender),
	}
	f.svc = service.NewSummaryService(f.summaryRepo, f.metricRepo, f.userRepo, f.generator, f.emailSender, "claude-3-5-haiku-latest")
	return f
}

func dayMetrics(userID uuid.UUID, day time.Time) []domain.HealthMetricRecord {
	return []domain.HealthMetricRecord{
		{ID: uuid.New(), UserID: userID, MetricType: "heart_rate", Value: 72, Unit: "bpm", RecordedAt: day.Add(8 * time.Hour), Source: domain.SourceAppleHealth},
		{ID: uuid.New(), UserID: userID, MetricType: "steps", Value: 8421, RecordedAt: day.Add(20 * time.Hour), Source: domain.SourceAppleHealth},
	}
}

func TestSummaryService_GenerateDaily_Success(t *testing.T) {
	f := newSummaryServiceFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	f.metricRepo.On("ListByUser", mock.Anything, userID, mock.MatchedBy(func(filter port.MetricFilter) bool {
		return filter.From.Equal(day) && filter.To.Equal(day.Add(24*time.Hour))
	}), 0, 500).Return(dayMetrics(userID, day), 2, nil)

	f.generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "2026-03-15") && strings.Contains(prompt, "heart_rate")
	})).Return("A calm day with a steady heart rate and over 8,000 steps.", nil)

	f.summaryRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.DailySummary")).Return(nil)

	summary, err := f.svc.GenerateDaily(context.Background(), service.GenerateSummaryInput{
		UserID: userID,
		Date:   "2026-03-15",
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", summary.SummaryDate)
	assert.Equal(t, "A calm day with a steady heart rate and over 8,000 steps.", summary.Content)
	assert.Equal(t, "claude-3-5-haiku-latest", summary.Model)
	assert.Equal(t, 2, summary.MetricCount)

	f.emailSender.AssertNotCalled(t, "SendDailySummaryEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.summaryRepo.AssertExpectations(t)
}

func TestSummaryService_GenerateDaily_EmptyDateDefaultsToToday(t *testing.T) {
	f := newSummaryServiceFixture()
	userID := uuid.New()
	today := time.Now().UTC().Format("2006-01-02")
	day, _ := time.ParseInLocation("2006-01-02", today, time.UTC)

	f.metricRepo.On("ListByUser", mock.Anything, userID, mock.Anything, 0, 500).
		Return(dayMetrics(userID, day), 2, nil)
	f.generator.On("Generate", mock.Anything, mock.Anything).Return("Summary.", nil)
	f.summaryRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	summary, err := f.svc.GenerateDaily(context.Background(), service.GenerateSummaryInput{UserID: userID})

	require.NoError(t, err)
	assert.Equal(t, today, summary.SummaryDate)
}

func TestSummaryService_GenerateDaily_NoMetrics(t *testing.T) {
	f := newSummaryServiceFixture()
	userID := uuid.New()

	f.metricRepo.On("ListByUser", mock.Anything, userID, mock.Anything, 0, 500).
		Return([]domain.HealthMetricRecord{}, 0, nil)

	summary, err := f.svc.GenerateDaily(context.Background(), service.GenerateSummaryInput{
		UserID: userID,
		Date:   "2026-03-15",
	})

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrNoMetricsForDay)
	f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestSummaryService_GenerateDaily_InvalidDate(t *testing.T) {
	f := newSummaryServiceFixture()

	summary, err := f.svc.GenerateDaily(context.Background(), service.GenerateSummaryInput{
		UserID: uuid.New(),
		Date:   "15/03/2026",
	})

	assert.Nil(t, summary)
	assert.Error(t, err)
}

func TestSummaryService_GenerateDaily_GeneratorError(t *testing.T) {
	f := newSummaryServiceFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	f.metricRepo.On("ListByUser", mock.Anything, userID, mock.Anything, 0, 500).
		Return(dayMetrics(userID, day), 2, nil)
	f.generator.On("Generate", mock.Anything, mock.Anything).Return("", assert.AnError)

	summary, err := f.svc.GenerateDaily(context.Background(), service.GenerateSummaryInput{
		UserID: userID,
		Date:   "2026-03-15",
	})

	assert.Nil(t, summary)
	assert.Error(t, err)
	f.summaryRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSummaryService_GenerateDaily_SendsEmailWhenRequested(t *testing.T) {
	f := newSummaryServiceFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	user := &domain.User{ID: userID, Email: "jamie@example.com", FullName: "Jamie Doe"}

	f.metricRepo.On("ListByUser", mock.Anything, userID, mock.Anything, 0, 500).
		Return(dayMetrics(userID, day), 2, nil)
	f.generator.On("Generate", mock.Anything, mock.Anything).Return("Summary.", nil)
	f.summaryRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(user, nil)
	f.emailSender.On("SendDailySummaryEmail", mock.Anything, "jamie@example.com", "Jamie Doe", "2026-03-15", "Summary.").Return(nil)

	_, err := f.svc.GenerateDaily(context.Background(), service.GenerateSummaryInput{
		UserID:    userID,
		Date:      "2026-03-15",
		SendEmail: true,
	})

	require.NoError(t, err)
	f.emailSender.AssertExpectations(t)
}

func TestSummaryService_GenerateDaily_EmailFailureDoesNotBlock(t *testing.T) {
	f := newSummaryServiceFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	user := &domain.User{ID: userID, Email: "jamie@example.com"}

	f.metricRepo.On("ListByUser", mock.Anything, userID, mock.Anything, 0, 500).
		Return(dayMetrics(userID, day), 2, nil)
	f.generator.On("Generate", mock.Anything, mock.Anything).Return("Summary.", nil)
	f.summaryRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(user, nil)
	f.emailSender.On("SendDailySummaryEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	summary, err := f.svc.GenerateDaily(context.Background(), service.GenerateSummaryInput{
		UserID:    userID,
		Date:      "2026-03-15",
		SendEmail: true,
	})

	require.NoError(t, err)
	assert.NotNil(t, summary)
}

func TestSummaryService_GetByDate_InvalidDateIsNotFound(t *testing.T) {
	f := newSummaryServiceFixture()

	summary, err := f.svc.GetByDate(context.Background(), uuid.New(), "not-a-date")

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.summaryRepo.AssertNotCalled(t, "GetByDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSummaryService_GetByDate_Success(t *testing.T) {
	f := newSummaryServiceFixture()
	userID := uuid.New()
	stored := &domain.DailySummary{ID: uuid.New(), UserID: userID, SummaryDate: "2026-03-15", Content: "Summary."}

	f.summaryRepo.On("GetByDate", mock.Anything, userID, "2026-03-15").Return(stored, nil)

	summary, err := f.svc.GetByDate(context.Background(), userID, "2026-03-15")

	require.NoError(t, err)
	assert.Equal(t, stored, summary)
}
