package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vitalis/internal/normalizer"
)

func TestClassify_ExactMatch(t *testing.T) {
	assert.Equal(t, "blood_glucose", normalizer.Classify("glucose"))
	assert.Equal(t, "hba1c", normalizer.Classify("HbA1c"))
	assert.Equal(t, "heart_rate", normalizer.Classify("Heart Rate"))
	assert.Equal(t, "ldl_cholesterol", normalizer.Classify("LDL"))
}

func TestClassify_CaseAndWhitespaceInsensitive(t *testing.T) {
	assert.Equal(t, "blood_glucose", normalizer.Classify("  GLUCOSE  "))
	assert.Equal(t, "total_cholesterol", normalizer.Classify("\tCholesterol\n"))
}

func TestClassify_MultilingualSynonyms(t *testing.T) {
	assert.Equal(t, "blood_glucose", normalizer.Classify("Glucosa"))
	assert.Equal(t, "blood_glucose", normalizer.Classify("Blutzucker"))
	assert.Equal(t, "heart_rate", normalizer.Classify("Pulso"))
	assert.Equal(t, "body_weight", normalizer.Classify("Gewicht"))
	assert.Equal(t, "hemoglobin", normalizer.Classify("Hemoglobina"))
}

func TestClassify_SubstringContainment(t *testing.T) {
	// Input contains a known synonym.
	assert.Equal(t, "blood_glucose", normalizer.Classify("Serum Glucose (Fasting)"))
	assert.Equal(t, "vitamin_d", normalizer.Classify("Vitamin D (25-OH)"))
	// Known synonym contains the input.
	assert.Equal(t, "tsh", normalizer.Classify("thyroid stimulating"))
}

func TestClassify_SpecificSynonymWinsOverShorter(t *testing.T) {
	// "ldl cholesterol" is declared before "cholesterol", so the tighter
	// match wins even though both are contained in the input.
	assert.Equal(t, "ldl_cholesterol", normalizer.Classify("LDL Cholesterol (calculated)"))
	assert.Equal(t, "hdl_cholesterol", normalizer.Classify("HDL Cholesterol"))
}

func TestClassify_UnknownFallsBackToSlug(t *testing.T) {
	assert.Equal(t, "apolipoprotein_b", normalizer.Classify("Apolipoprotein B"))
	assert.Equal(t, "anti_tpo_antibodies", normalizer.Classify("Anti-TPO Antibodies"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "vitamin_d_total", normalizer.Slugify("Vitamin D  (Total)"))
	assert.Equal(t, "t3_free", normalizer.Slugify("T3 - Free"))
	assert.Equal(t, "abc", normalizer.Slugify("  abc  "))
	assert.Equal(t, "", normalizer.Slugify("???"))
	assert.Equal(t, "", normalizer.Slugify(""))
}
