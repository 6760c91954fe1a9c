package validator

import (
	"fmt"

	"vitalis/internal/domain"
)

// plausibleRange is the widest physiologically plausible window for a metric.
// Values outside it are almost certainly extraction or unit errors.
type plausibleRange struct {
	Min float64
	Max float64
}

// plausibleRanges covers the canonical metric types the classifier emits.
// Metrics without an entry are never flagged.
var plausibleRanges = map[string]plausibleRange{
	"blood_glucose":            {Min: 10, Max: 1000},  // mg/dL
	"hba1c":                    {Min: 2, Max: 20},     // %
	"total_cholesterol":        {Min: 50, Max: 600},   // mg/dL
	"ldl_cholesterol":          {Min: 10, Max: 500},   // mg/dL
	"hdl_cholesterol":          {Min: 5, Max: 200},    // mg/dL
	"triglycerides":            {Min: 10, Max: 3000},  // mg/dL
	"hemoglobin":               {Min: 2, Max: 25},     // g/dL
	"creatinine":               {Min: 0.1, Max: 20},   // mg/dL
	"tsh":                      {Min: 0.01, Max: 100}, // mIU/L
	"vitamin_d":                {Min: 1, Max: 300},    // ng/mL
	"vitamin_b12":              {Min: 10, Max: 5000},  // pg/mL
	"heart_rate":               {Min: 20, Max: 300},   // bpm
	"blood_pressure_systolic":  {Min: 50, Max: 300},   // mmHg
	"blood_pressure_diastolic": {Min: 20, Max: 200},   // mmHg
	"body_temperature":         {Min: 30, Max: 45},    // °C
	"oxygen_saturation":        {Min: 50, Max: 100},   // %
	"respiratory_rate":         {Min: 4, Max: 80},     // breaths/min
	"body_weight":              {Min: 1, Max: 500},    // kg
	"height":                   {Min: 30, Max: 272},   // cm
	"bmi":                      {Min: 8, Max: 100},
	"steps":                    {Min: 0, Max: 200000},
}

// Warning describes an implausible metric value. Warnings are advisory; the
// record is stored either way.
type Warning struct {
	MetricType string
	Value      float64
	Min        float64
	Max        float64
}

func (w Warning) String() string {
	return fmt.Sprintf("%s value %g outside plausible range [%g, %g]", w.MetricType, w.Value, w.Min, w.Max)
}

// CheckRecord returns a warning if the record's value falls outside the
// plausible range for its metric type.
func CheckRecord(rec domain.HealthMetricRecord) (Warning, bool) {
	r, ok := plausibleRanges[rec.MetricType]
	if !ok {
		return Warning{}, false
	}
	if rec.Value >= r.Min && rec.Value <= r.Max {
		return Warning{}, false
	}
	return Warning{
		MetricType: rec.MetricType,
		Value:      rec.Value,
		Min:        r.Min,
		Max:        r.Max,
	}, true
}

// CheckBatch returns warnings for every implausible record in the batch.
func CheckBatch(records []domain.HealthMetricRecord) []Warning {
	var warnings []Warning
	for _, rec := range records {
		if w, bad := CheckRecord(rec); bad {
			warnings = append(warnings, w)
		}
	}
	return warnings
}
