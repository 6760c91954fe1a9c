package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"vitalis/internal/port"
	"vitalis/internal/report"
)

// maxReportRows caps how many metric rows a single export can contain.
const maxReportRows = 10000

// ReportService exports a user's metric history as an XLSX workbook.
type ReportService interface {
	WriteMetricsXLSX(ctx context.Context, w io.Writer, userID uuid.UUID, filter port.MetricFilter) error
}

type reportService struct {
	metricRepo port.HealthMetricRepository
	builder    *report.Builder
}

// NewReportService creates a new ReportService implementation.
func NewReportService(metricRepo port.HealthMetricRepository) ReportService {
	return &reportService{
		metricRepo: metricRepo,
		builder:    report.NewBuilder(),
	}
}

func (s *reportService) WriteMetricsXLSX(ctx context.Context, w io.Writer, userID uuid.UUID, filter port.MetricFilter) error {
	records, _, err := s.metricRepo.ListByUser(ctx, userID, filter, 0, maxReportRows)
	if err != nil {
		return fmt.Errorf("report.WriteMetricsXLSX: loading metrics: %w", err)
	}
	return s.builder.WriteMetricsReport(w, records)
}
