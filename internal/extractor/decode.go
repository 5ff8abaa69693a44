package extractor

import (
	"encoding/json"
	"fmt"
	"strconv"

	"rxlens/internal/domain"
)

// DecodeRecord parses a model's text response into a canonical record.
// It first parses the response (or its first balanced {...} substring, since
// models sometimes wrap JSON in prose) strictly against the schema. When the
// shape does not match, every scalar is coerced to a string and each section
// is decoded independently, keeping whatever the model did produce. strict
// reports whether the schema matched without coercion; callers log a warning
// when it is false but never fail on it.
func DecodeRecord(text string) (rec *domain.PrescriptionRecord, strict bool, err error) {
	raw, ok := firstJSONObject(text)
	if !ok {
		return nil, false, ErrNoJSON
	}

	rec = &domain.PrescriptionRecord{}
	if err := json.Unmarshal(raw, rec); err == nil {
		return rec, true, nil
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, false, fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, truncate(text, 500))
	}
	return coerceRecord(generic), false, nil
}

// firstJSONObject returns the first balanced top-level {...} substring,
// honoring JSON string and escape rules.
func firstJSONObject(text string) ([]byte, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return []byte(text[start : i+1]), true
				}
			}
		}
	}
	return nil, false
}

// coerceRecord rebuilds a record from loosely-shaped JSON, section by
// section, so one malformed section does not discard the rest.
func coerceRecord(m map[string]interface{}) *domain.PrescriptionRecord {
	rec := &domain.PrescriptionRecord{}
	decodeSection(m["prescriptionType"], &rec.PrescriptionType)
	decodeSection(m["patientDetails"], &rec.PatientDetails)
	decodeSection(m["clinicalDetails"], &rec.ClinicalDetails)
	decodeSection(m["vitals"], &rec.Vitals)
	decodeSection(m["medications"], &rec.Medications)
	decodeSection(m["advice"], &rec.Advice)
	decodeSection(m["doctorDetails"], &rec.DoctorDetails)
	decodeSection(m["clinicDetails"], &rec.ClinicDetails)
	return rec
}

func decodeSection(v interface{}, dst interface{}) {
	if v == nil {
		return
	}
	b, err := json.Marshal(stringify(v))
	if err != nil {
		return
	}
	_ = json.Unmarshal(b, dst)
}

// stringify converts every scalar leaf to its string form so numeric or
// boolean answers (a model writing "age": 42) survive schema decoding.
func stringify(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, e := range t {
			t[k] = stringify(e)
		}
		return t
	case []interface{}:
		for i, e := range t {
			t[i] = stringify(e)
		}
		return t
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return nil
	default:
		return fmt.Sprintf("%v", t)
	}
}

// EmptyRecord returns a structurally-empty canonical record, the fallback
// some providers use when a response has no recoverable JSON.
func EmptyRecord() *domain.PrescriptionRecord {
	return &domain.PrescriptionRecord{Medications: []domain.Medication{}}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
