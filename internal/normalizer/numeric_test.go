package normalizer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalis/internal/domain"
	"vitalis/internal/normalizer"
)

func TestParseNumeric_Number(t *testing.T) {
	v := normalizer.ParseNumeric(domain.NumberValue(95.5))
	require.NotNil(t, v)
	assert.Equal(t, 95.5, *v)
}

func TestParseNumeric_PlainString(t *testing.T) {
	v := normalizer.ParseNumeric(domain.TextValue("120"))
	require.NotNil(t, v)
	assert.Equal(t, 120.0, *v)
}

func TestParseNumeric_FirstNumberWins(t *testing.T) {
	// Range values take the lower bound.
	v := normalizer.ParseNumeric(domain.TextValue("95-120"))
	require.NotNil(t, v)
	assert.Equal(t, 95.0, *v)

	// Comparator decoration is stripped.
	v = normalizer.ParseNumeric(domain.TextValue("< 100"))
	require.NotNil(t, v)
	assert.Equal(t, 100.0, *v)

	v = normalizer.ParseNumeric(domain.TextValue(">= 5.7 %"))
	require.NotNil(t, v)
	assert.Equal(t, 5.7, *v)
}

func TestParseNumeric_DecoratedString(t *testing.T) {
	v := normalizer.ParseNumeric(domain.TextValue("98.6 F"))
	require.NotNil(t, v)
	assert.Equal(t, 98.6, *v)
}

func TestParseNumeric_NoDigits(t *testing.T) {
	assert.Nil(t, normalizer.ParseNumeric(domain.TextValue("negative")))
	assert.Nil(t, normalizer.ParseNumeric(domain.TextValue("")))
	assert.Nil(t, normalizer.ParseNumeric(domain.TextValue("   ")))
}

func TestParseNumeric_Absent(t *testing.T) {
	assert.Nil(t, normalizer.ParseNumeric(domain.FlexValue{}))
}

func TestParseRecordedAt_KnownLayouts(t *testing.T) {
	got := normalizer.ParseRecordedAt("2026-03-15")
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got = normalizer.ParseRecordedAt("15/03/2026")
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got = normalizer.ParseRecordedAt("Jan 2, 2026")
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestParseRecordedAt_UnknownFallsBackToNow(t *testing.T) {
	before := time.Now().UTC()
	got := normalizer.ParseRecordedAt("sometime last week")
	after := time.Now().UTC()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}
