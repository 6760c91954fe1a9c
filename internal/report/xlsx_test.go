package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vitalis/internal/domain"
	"vitalis/internal/report"
)

func sampleRecords() []domain.HealthMetricRecord {
	return []domain.HealthMetricRecord{
		{
			ID:         uuid.New(),
			MetricType: "blood_glucose",
			Value:      95,
			Unit:       "mg/dL",
			RecordedAt: time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC),
			Source:     domain.SourceDocumentExtraction,
		},
		{
			ID:         uuid.New(),
			MetricType: "heart_rate",
			Value:      72,
			Unit:       "bpm",
			RecordedAt: time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
			Source:     domain.SourceAppleHealth,
		},
	}
}

func TestBuildMetricsWorkbook(t *testing.T) {
	b := report.NewBuilder()

	f, err := b.BuildMetricsWorkbook(sampleRecords())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Metrics"}, f.GetSheetList())

	rows, err := f.GetRows("Metrics")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Metric", "Value", "Unit", "Recorded At", "Source"}, rows[0])
	assert.Equal(t, "blood_glucose", rows[1][0])
	assert.Equal(t, "95", rows[1][1])
	assert.Equal(t, "mg/dL", rows[1][2])
	assert.Equal(t, "document_extraction", rows[1][4])
	assert.Equal(t, "heart_rate", rows[2][0])
	assert.Equal(t, "apple_health", rows[2][4])
}

func TestBuildMetricsWorkbook_Empty(t *testing.T) {
	b := report.NewBuilder()

	f, err := b.BuildMetricsWorkbook(nil)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Metrics")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestWriteMetricsReport_RoundTrip(t *testing.T) {
	b := report.NewBuilder()
	var buf bytes.Buffer

	err := b.WriteMetricsReport(&buf, sampleRecords())
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Metrics")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
