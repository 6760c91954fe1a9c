package domain

import (
	"encoding/json"
	"strings"
)

// ExtractedHealthData is the structured output of AI document extraction.
// Every field is optional; the extractor fills in whatever the document shows.
type ExtractedHealthData struct {
	DocumentType string       `json:"document_type,omitempty"`
	Date         string       `json:"date,omitempty"`
	Provider     string       `json:"provider,omitempty"`
	LabResults   []LabResult  `json:"lab_results,omitempty"`
	Vitals       []Vital      `json:"vitals,omitempty"`
	Diagnoses    []Diagnosis  `json:"diagnoses,omitempty"`
	Medications  []Medication `json:"medications,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// LabResult is one test row from a lab report. Value may carry non-numeric
// decoration such as "< 100" or "95-120".
type LabResult struct {
	Test           string    `json:"test"`
	Value          FlexValue `json:"value"`
	Unit           string    `json:"unit,omitempty"`
	ReferenceRange string    `json:"reference_range,omitempty"`
	Date           string    `json:"date,omitempty"`
}

// Vital is a vital-sign measurement (heart rate, blood pressure, ...).
type Vital struct {
	Type  string    `json:"type"`
	Value FlexValue `json:"value"`
	Unit  string    `json:"unit,omitempty"`
	Date  string    `json:"date,omitempty"`
}

// Diagnosis is a condition named in the document. Not converted to metrics.
type Diagnosis struct {
	Name    string `json:"name"`
	ICDCode string `json:"icd_code,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Medication is a prescription named in the document. Not converted to metrics.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// FlexValue models a JSON field that may arrive as a number, a string, or
// null. It makes the numeric parser a total function over its input instead
// of relying on runtime type inspection.
type FlexValue struct {
	Number  float64
	Text    string
	Numeric bool // Number is valid
	Present bool // field was non-null in the source JSON
}

// NumberValue builds a numeric FlexValue.
func NumberValue(n float64) FlexValue {
	return FlexValue{Number: n, Numeric: true, Present: true}
}

// TextValue builds a string FlexValue.
func TextValue(s string) FlexValue {
	return FlexValue{Text: s, Present: true}
}

// UnmarshalJSON accepts a JSON number, string, or null.
func (v *FlexValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*v = FlexValue{}
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*v = TextValue(str)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		// Anything the extractor emits that is neither a number nor a
		// string is treated as absent rather than failing the document.
		*v = FlexValue{}
		return nil
	}
	*v = NumberValue(n)
	return nil
}

// MarshalJSON writes the value back in its original shape.
func (v FlexValue) MarshalJSON() ([]byte, error) {
	if !v.Present {
		return []byte("null"), nil
	}
	if v.Numeric {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}
