package normalizer

import (
	"strings"

	"github.com/google/uuid"

	"vitalis/internal/domain"
)

// BuildRecords flattens extracted lab results and vitals into metric records
// ready for a single batch insert. Items with a missing name or an
// unparsable value are dropped, never zero-filled. Output order is lab
// results first, then vitals, each in input order.
func BuildRecords(data *domain.ExtractedHealthData, userID uuid.UUID, source domain.MetricSource) []domain.HealthMetricRecord {
	if data == nil {
		return nil
	}

	records := make([]domain.HealthMetricRecord, 0, len(data.LabResults)+len(data.Vitals))

	for _, lab := range data.LabResults {
		if strings.TrimSpace(lab.Test) == "" {
			continue
		}
		value := ParseNumeric(lab.Value)
		if value == nil {
			continue
		}
		date := lab.Date
		if date == "" {
			date = data.Date
		}
		records = append(records, domain.HealthMetricRecord{
			ID:         uuid.New(),
			UserID:     userID,
			MetricType: Classify(lab.Test),
			Value:      *value,
			Unit:       lab.Unit,
			RecordedAt: ParseRecordedAt(date),
			Source:     source,
		})
	}

	for _, vital := range data.Vitals {
		if strings.TrimSpace(vital.Type) == "" {
			continue
		}
		value := ParseNumeric(vital.Value)
		if value == nil {
			continue
		}
		date := vital.Date
		if date == "" {
			date = data.Date
		}
		records = append(records, domain.HealthMetricRecord{
			ID:         uuid.New(),
			UserID:     userID,
			MetricType: Classify(vital.Type),
			Value:      *value,
			Unit:       vital.Unit,
			RecordedAt: ParseRecordedAt(date),
			Source:     source,
		})
	}

	return records
}
