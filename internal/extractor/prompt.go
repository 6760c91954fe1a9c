package extractor

import (
	"fmt"
	"strings"
)

// BuildHealthExtractionPrompt returns the extraction prompt for medical documents.
func BuildHealthExtractionPrompt() string {
	return `You are a medical document data extraction assistant. Analyze the provided medical document (lab report, discharge summary, prescription, or clinic letter) and extract its data into the following JSON structure.

IMPORTANT INSTRUCTIONS:
- Extract EVERY lab result and vital sign that appears in the document. Do not skip, summarize, or omit any measurement.
- Report values exactly as printed. Keep qualifiers like "< 5" or ranges like "95-120" as strings; plain numbers may be JSON numbers.
- Normalize all dates to YYYY-MM-DD format. If only a month or year is given, leave the date empty.
- Do not invent values. If a field is not present in the document, use an empty string for text and null for values.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object.

Return two top-level keys: "data" and "raw_text".

The "data" object must follow this schema:
{
  "document_type": "",
  "date": "",
  "provider": "",
  "lab_results": [
    {
      "test": "",
      "value": null,
      "unit": "",
      "reference_range": "",
      "date": ""
    }
  ],
  "vitals": [
    {
      "type": "",
      "value": null,
      "unit": "",
      "date": ""
    }
  ],
  "diagnoses": [
    {
      "name": "",
      "icd_code": "",
      "date": ""
    }
  ],
  "medications": [
    {
      "name": "",
      "dosage": "",
      "frequency": ""
    }
  ],
  "notes": ""
}

"document_type" is one of: lab_report, prescription, discharge_summary, imaging_report, clinic_letter, other.
"provider" is the issuing lab, hospital, or physician name.

"raw_text" is a plain-text transcription of the full document content.`
}

// BuildDailySummaryPrompt returns the prompt used to generate a daily health
// summary from a day's metric readings.
func BuildDailySummaryPrompt(date string, lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a friendly health companion. Write a short daily summary for %s based on the readings below.

Readings:
`, date)
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(`
Guidelines:
- 2 to 4 sentences, plain language, no medical jargon.
- Mention notable values and gentle, general wellness observations.
- Do NOT diagnose, prescribe, or give medical advice. Suggest consulting a doctor only for clearly abnormal values.
- Return plain text only, no markdown.`)
	return b.String()
}
