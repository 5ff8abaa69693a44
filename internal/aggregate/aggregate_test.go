package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxlens/internal/domain"
)

func row(model, key, value string) domain.ExtractionResult {
	return domain.ExtractionResult{ModelName: model, FieldKey: key, Value: value}
}

func TestAggregateEmptyRows(t *testing.T) {
	rec := Aggregate(nil)
	require.NotNil(t, rec)
	assert.Equal(t, &domain.PrescriptionRecord{}, rec)
}

func TestAggregateNAFilteredOut(t *testing.T) {
	rows := []domain.ExtractionResult{
		row("openai", "patient_patientName", "NA"),
		row("claude", "patient_patientName", "NA"),
		row("gemini", "patient_patientName", "NA"),
		row("openai", "patient_age", "54"),
	}
	rec := Aggregate(rows)
	assert.Equal(t, "", rec.PatientDetails.PatientName)
	assert.Equal(t, "54", rec.PatientDetails.Age)
}

func TestAggregateConsensusWins(t *testing.T) {
	rows := []domain.ExtractionResult{
		row("openai", "patient_patientName", "Jon Doe"),
		row("claude", "patient_patientName", "John Doe"),
		row("gemini", "patient_patientName", "John Doe"),
	}
	rec := Aggregate(rows)
	assert.Equal(t, "John Doe", rec.PatientDetails.PatientName)
}

func TestAggregateNoConsensusFirstRowWins(t *testing.T) {
	rows := []domain.ExtractionResult{
		row("openai", "doctor_doctorName", "Dr. Rao"),
		row("claude", "doctor_doctorName", "Dr. Rau"),
		row("gemini", "doctor_doctorName", "Dr. Raw"),
	}
	rec := Aggregate(rows)
	assert.Equal(t, "Dr. Rao", rec.DoctorDetails.DoctorName)
}

func TestAggregateSameModelRepeatsAreNotConsensus(t *testing.T) {
	// Two attempts from one model repeating a value do not outvote the
	// first row; consensus needs distinct models.
	rows := []domain.ExtractionResult{
		row("openai", "patient_gender", "M"),
		row("claude", "patient_gender", "F"),
		row("claude", "patient_gender", "F"),
	}
	rec := Aggregate(rows)
	assert.Equal(t, "M", rec.PatientDetails.Gender)
}

func TestAggregateIdempotent(t *testing.T) {
	rows := []domain.ExtractionResult{
		row("openai", "patient_patientName", "John Doe"),
		row("claude", "patient_patientName", "Jane Doe"),
		row("openai", "medication_drugName", "Amoxicillin"),
		row("claude", "medication_drugName", "Amoxicillin"),
		row("openai", "medication_2_drugName", "Cetirizine"),
		row("claude", "vitals_pulse", "NA"),
	}
	first := Aggregate(rows)
	second := Aggregate(rows)
	assert.Equal(t, first, second)
}

func TestAggregatePartialFailureTolerance(t *testing.T) {
	// Rows from only one of three configured models still produce a valid
	// record from that model's non-NA values.
	rows := []domain.ExtractionResult{
		row("gemini", "patient_patientName", "Asha Patel"),
		row("gemini", "patient_age", "NA"),
		row("gemini", "clinic_clinicName", "Green Cross"),
	}
	rec := Aggregate(rows)
	assert.Equal(t, "Asha Patel", rec.PatientDetails.PatientName)
	assert.Equal(t, "", rec.PatientDetails.Age)
	assert.Equal(t, "Green Cross", rec.ClinicDetails.ClinicName)
}

func TestAggregateMedicationGrouping(t *testing.T) {
	rows := []domain.ExtractionResult{
		row("openai", "medication_drugName", "Paracetamol"),
		row("openai", "medication_strength", "650mg"),
		row("openai", "medication_2_drugName", "Cetirizine"),
		row("openai", "medication_2_strength", "10mg"),
		row("openai", "medication_3_drugName", "Omeprazole"),
	}
	rec := Aggregate(rows)
	require.Len(t, rec.Medications, 3)
	assert.Equal(t, "Paracetamol", rec.Medications[0].DrugName)
	assert.Equal(t, "650mg", rec.Medications[0].Strength)
	assert.Equal(t, "Cetirizine", rec.Medications[1].DrugName)
	assert.Equal(t, "Omeprazole", rec.Medications[2].DrugName)
}

func TestAggregateMedicationDropRule(t *testing.T) {
	// A formulation without any drug name produces zero medications.
	rows := []domain.ExtractionResult{
		row("openai", "medication_formulation", "Tablet"),
		row("claude", "medication_drugName", "NA"),
	}
	rec := Aggregate(rows)
	assert.Empty(t, rec.Medications)

	// The named entry survives, the unnamed one is dropped.
	rows = []domain.ExtractionResult{
		row("openai", "medication_drugName", "Ibuprofen"),
		row("openai", "medication_2_formulation", "Syrup"),
	}
	rec = Aggregate(rows)
	require.Len(t, rec.Medications, 1)
	assert.Equal(t, "Ibuprofen", rec.Medications[0].DrugName)
}

func TestAggregateLegacyAliasRouting(t *testing.T) {
	rows := []domain.ExtractionResult{
		row("openai", "diagnosis", "Type 2 diabetes"),
		row("claude", "followUp_reviewDate", "Review after 2 weeks"),
	}
	rec := Aggregate(rows)
	assert.Equal(t, "Type 2 diabetes", rec.ClinicalDetails.Diagnosis)
	assert.Equal(t, "Review after 2 weeks", rec.Advice.FollowUpInstructions)
}

func TestAggregateTwoOfThreeConsensusScenario(t *testing.T) {
	// Provider A and B agree on the name, provider C contributed nothing.
	rows := []domain.ExtractionResult{
		row("openai", "patient_patientName", "John Doe"),
		row("claude", "patient_patientName", "John Doe"),
	}
	rec := Aggregate(rows)
	assert.Equal(t, "John Doe", rec.PatientDetails.PatientName)
}
