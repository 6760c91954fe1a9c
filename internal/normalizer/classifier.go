// Package normalizer converts AI-extracted lab results and vitals into
// canonical health metric records ready for batch persistence.
package normalizer

import (
	"strings"
)

// synonymEntry pairs a lowercase synonym with its canonical metric type.
// An explicit slice (not a map) so the substring fallback iterates in
// declaration order: the first entry that matches wins.
type synonymEntry struct {
	key       string
	canonical string
}

// metricSynonyms maps free-form test/vital names, including common
// multilingual variants, to canonical metric type identifiers. More specific
// keys are declared before shorter ones they contain (e.g. "ldl cholesterol"
// before "ldl") so the containment fallback picks the tighter match first.
var metricSynonyms = []synonymEntry{
	// Blood sugar
	{"blood glucose", "blood_glucose"},
	{"fasting glucose", "blood_glucose"},
	{"fasting blood sugar", "blood_glucose"},
	{"blood sugar", "blood_glucose"},
	{"glucose", "blood_glucose"},
	{"glucosa", "blood_glucose"},
	{"blutzucker", "blood_glucose"},
	{"glycemie", "blood_glucose"},
	{"hba1c", "hba1c"},
	{"glycated hemoglobin", "hba1c"},
	{"hemoglobin a1c", "hba1c"},

	// Lipids
	{"ldl cholesterol", "ldl_cholesterol"},
	{"ldl-c", "ldl_cholesterol"},
	{"ldl", "ldl_cholesterol"},
	{"hdl cholesterol", "hdl_cholesterol"},
	{"hdl-c", "hdl_cholesterol"},
	{"hdl", "hdl_cholesterol"},
	{"total cholesterol", "total_cholesterol"},
	{"cholesterol total", "total_cholesterol"},
	{"colesterol", "total_cholesterol"},
	{"cholesterol", "total_cholesterol"},
	{"triglycerides", "triglycerides"},
	{"trigliceridos", "triglycerides"},
	{"triglyceride", "triglycerides"},

	// Blood counts
	{"hemoglobin", "hemoglobin"},
	{"haemoglobin", "hemoglobin"},
	{"hemoglobina", "hemoglobin"},
	{"hematocrit", "hematocrit"},
	{"white blood cell", "white_blood_cells"},
	{"wbc", "white_blood_cells"},
	{"leukocytes", "white_blood_cells"},
	{"red blood cell", "red_blood_cells"},
	{"rbc", "red_blood_cells"},
	{"erythrocytes", "red_blood_cells"},
	{"platelet", "platelets"},
	{"thrombocytes", "platelets"},

	// Vitamins and minerals
	{"vitamin d3", "vitamin_d"},
	{"25-oh vitamin d", "vitamin_d"},
	{"25-hydroxyvitamin d", "vitamin_d"},
	{"vitamin d", "vitamin_d"},
	{"vitamina d", "vitamin_d"},
	{"vitamin b12", "vitamin_b12"},
	{"cobalamin", "vitamin_b12"},
	{"ferritin", "ferritin"},
	{"iron", "iron"},
	{"hierro", "iron"},
	{"sodium", "sodium"},
	{"potassium", "potassium"},
	{"calcium", "calcium"},
	{"magnesium", "magnesium"},

	// Kidney and liver
	{"creatinine", "creatinine"},
	{"creatinina", "creatinine"},
	{"urea", "urea"},
	{"bun", "urea"},
	{"uric acid", "uric_acid"},
	{"alt", "alt"},
	{"sgpt", "alt"},
	{"alanine aminotransferase", "alt"},
	{"ast", "ast"},
	{"sgot", "ast"},
	{"aspartate aminotransferase", "ast"},
	{"bilirubin", "bilirubin"},

	// Thyroid and inflammation
	{"tsh", "tsh"},
	{"thyroid stimulating hormone", "tsh"},
	{"crp", "crp"},
	{"c-reactive protein", "crp"},
	{"esr", "esr"},

	// Vitals
	{"heart rate", "heart_rate"},
	{"pulse", "heart_rate"},
	{"pulso", "heart_rate"},
	{"herzfrequenz", "heart_rate"},
	{"systolic blood pressure", "blood_pressure_systolic"},
	{"blood pressure systolic", "blood_pressure_systolic"},
	{"systolic", "blood_pressure_systolic"},
	{"diastolic blood pressure", "blood_pressure_diastolic"},
	{"blood pressure diastolic", "blood_pressure_diastolic"},
	{"diastolic", "blood_pressure_diastolic"},
	{"body temperature", "body_temperature"},
	{"temperature", "body_temperature"},
	{"temperatura", "body_temperature"},
	{"oxygen saturation", "oxygen_saturation"},
	{"spo2", "oxygen_saturation"},
	{"sat o2", "oxygen_saturation"},
	{"respiratory rate", "respiratory_rate"},
	{"body weight", "body_weight"},
	{"weight", "body_weight"},
	{"peso", "body_weight"},
	{"gewicht", "body_weight"},
	{"height", "height"},
	{"bmi", "bmi"},
	{"body mass index", "bmi"},
}

// exactSynonyms is the exact-match index over metricSynonyms.
var exactSynonyms = func() map[string]string {
	m := make(map[string]string, len(metricSynonyms))
	for _, e := range metricSynonyms {
		m[e.key] = e.canonical
	}
	return m
}()

// Classify maps a free-form test or vital name to a canonical metric type.
// Lookup order: exact match, substring containment in table declaration
// order, then a slugified form of the input. Always returns a string; the
// result is empty only when the input contains no alphanumeric characters.
func Classify(rawName string) string {
	name := strings.ToLower(strings.TrimSpace(rawName))

	if canonical, ok := exactSynonyms[name]; ok {
		return canonical
	}

	for _, e := range metricSynonyms {
		if strings.Contains(name, e.key) || strings.Contains(e.key, name) {
			return e.canonical
		}
	}

	return Slugify(name)
}

// Slugify reduces a name to a lowercase underscore-separated identifier:
// characters other than letters, digits, whitespace, and hyphens are
// stripped; whitespace and hyphen runs become single underscores.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '\t' || r == '\n' || r == '-' || r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
