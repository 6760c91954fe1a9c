package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"vitalis/internal/domain"
)

// numericRun matches the first maximal unsigned decimal run in a string.
var numericRun = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// ParseNumeric extracts a numeric magnitude from a value that may already be
// numeric or may be a decorated string. It returns nil for absent or empty
// values and for strings without any digit run. The first run always wins:
// "95-120" yields 95 and "< 100" yields 100. This first-number heuristic is
// contractual; callers depend on it for compatibility.
func ParseNumeric(v domain.FlexValue) *float64 {
	if !v.Present {
		return nil
	}
	if v.Numeric {
		n := v.Number
		return &n
	}

	s := strings.TrimSpace(v.Text)
	if s == "" {
		return nil
	}

	match := numericRun.FindString(s)
	if match == "" {
		return nil
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &n
}

// dateLayouts are the formats extracted document dates show up in.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02-01-2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseRecordedAt parses a document date string, falling back to now (UTC)
// when the field is absent or in an unrecognized format.
func ParseRecordedAt(date string) time.Time {
	date = strings.TrimSpace(date)
	if date != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, date); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Now().UTC()
}
