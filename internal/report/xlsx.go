package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"vitalis/internal/domain"
)

const sheetName = "Metrics"

// columns defines the XLSX header row.
var columns = []string{
	"Metric",
	"Value",
	"Unit",
	"Recorded At",
	"Source",
}

// Builder assembles XLSX workbooks of metric readings.
type Builder struct{}

// NewBuilder creates a report Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildMetricsWorkbook writes a batch of metric records into an XLSX
// workbook with a single Metrics sheet.
func (b *Builder) BuildMetricsWorkbook(records []domain.HealthMetricRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, rec := range records {
		row := i + 2
		values := []interface{}{
			rec.MetricType,
			rec.Value,
			rec.Unit,
			rec.RecordedAt.Format(time.RFC3339),
			string(rec.Source),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row, err)
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 26)
	_ = f.SetColWidth(sheetName, "D", "D", 22)

	return f, nil
}

// WriteMetricsReport builds the workbook and streams it to w.
func (b *Builder) WriteMetricsReport(w io.Writer, records []domain.HealthMetricRecord) error {
	f, err := b.BuildMetricsWorkbook(records)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
