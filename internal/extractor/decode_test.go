package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecordStrict(t *testing.T) {
	text := `{"patientDetails":{"patientName":"John Doe","age":"42"},"medications":[{"drugName":"Amoxicillin","strength":"500mg"}]}`

	rec, strict, err := DecodeRecord(text)
	require.NoError(t, err)
	assert.True(t, strict)
	assert.Equal(t, "John Doe", rec.PatientDetails.PatientName)
	assert.Equal(t, "42", rec.PatientDetails.Age)
	require.Len(t, rec.Medications, 1)
	assert.Equal(t, "Amoxicillin", rec.Medications[0].DrugName)
}

func TestDecodeRecordWrappedInProse(t *testing.T) {
	text := "Here is the extracted data:\n```json\n" +
		`{"patientDetails":{"patientName":"Jane Roe"}}` +
		"\n```\nLet me know if you need anything else."

	rec, strict, err := DecodeRecord(text)
	require.NoError(t, err)
	assert.True(t, strict)
	assert.Equal(t, "Jane Roe", rec.PatientDetails.PatientName)
}

func TestDecodeRecordBracesInsideStrings(t *testing.T) {
	text := `{"clinicalDetails":{"diagnosis":"fracture {left radius}"}}`

	rec, _, err := DecodeRecord(text)
	require.NoError(t, err)
	assert.Equal(t, "fracture {left radius}", rec.ClinicalDetails.Diagnosis)
}

func TestDecodeRecordCoercesMismatchedTypes(t *testing.T) {
	// Models occasionally answer with numbers where the schema wants strings.
	text := `{"patientDetails":{"patientName":"John Doe","age":42},"vitals":{"pulse":78.5}}`

	rec, strict, err := DecodeRecord(text)
	require.NoError(t, err)
	assert.False(t, strict)
	assert.Equal(t, "John Doe", rec.PatientDetails.PatientName)
	assert.Equal(t, "42", rec.PatientDetails.Age)
	assert.Equal(t, "78.5", rec.Vitals.Pulse)
}

func TestDecodeRecordBadSectionDoesNotDiscardRest(t *testing.T) {
	// medications as an object instead of an array: that section is lost,
	// the rest survives.
	text := `{"patientDetails":{"patientName":"John Doe","age":7},"medications":{"drugName":"X"}}`

	rec, strict, err := DecodeRecord(text)
	require.NoError(t, err)
	assert.False(t, strict)
	assert.Equal(t, "John Doe", rec.PatientDetails.PatientName)
	assert.Empty(t, rec.Medications)
}

func TestDecodeRecordNoJSON(t *testing.T) {
	_, _, err := DecodeRecord("I could not read the prescription, sorry.")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestFirstJSONObjectUnbalanced(t *testing.T) {
	_, ok := firstJSONObject(`{"patientDetails":{"patientName":"truncated`)
	assert.False(t, ok)
}
