package fieldcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxlens/internal/domain"
)

func sampleRecord() *domain.PrescriptionRecord {
	return &domain.PrescriptionRecord{
		PrescriptionType: domain.PrescriptionType{Type: "General Medicine"},
		PatientDetails: domain.PatientDetails{
			PatientName: "John Doe",
			Age:         "42",
			Gender:      "M",
			Date:        "2025-03-14",
		},
		ClinicalDetails: domain.ClinicalDetails{
			Diagnosis:       "Acute pharyngitis",
			ChiefComplaints: "Sore throat for 3 days",
			MedicalHistory:  "None",
			Examination:     "Throat congested",
		},
		Vitals: domain.Vitals{
			BloodPressure: "120/80",
			Pulse:         "78",
			Temperature:   "99.1 F",
			SpO2:          "98%",
		},
		Medications: []domain.Medication{
			{DrugName: "Amoxicillin", Formulation: "Tablet", Strength: "500mg", Frequency: "1-0-1", Duration: "5 days"},
		},
		Advice: domain.Advice{
			LifestyleAdvice:      "Warm saline gargles",
			Investigations:       "CBC",
			FollowUpInstructions: "Review after 5 days",
		},
		DoctorDetails: domain.DoctorDetails{DoctorName: "Dr. A Sharma", RegistrationNo: "KMC-12345"},
		ClinicDetails: domain.ClinicDetails{ClinicName: "City Clinic", Location: "Indiranagar"},
	}
}

func TestFlattenScalarKeysAndNA(t *testing.T) {
	rec := sampleRecord()
	flat := Flatten(rec)

	assert.Equal(t, "John Doe", flat["patient_patientName"])
	assert.Equal(t, "120/80", flat["vitals_bloodPressure"])
	assert.Equal(t, "City Clinic", flat["clinic_clinicName"])

	// Absent scalars come out as the NA sentinel.
	assert.Equal(t, NA, flat["patient_uhid"])
	assert.Equal(t, NA, flat["doctor_signature"])
	assert.Equal(t, NA, flat["prescriptionType_customType"])
}

func TestFlattenLegacyAliases(t *testing.T) {
	flat := Flatten(sampleRecord())

	assert.Equal(t, "Acute pharyngitis", flat["clinical_diagnosis"])
	assert.Equal(t, "Acute pharyngitis", flat["patient_diagnosis"])
	assert.Equal(t, "Acute pharyngitis", flat["diagnosis"])

	assert.Equal(t, "Sore throat for 3 days", flat["chiefComplaints_primarySymptoms"])
	assert.Equal(t, "Sore throat for 3 days", flat["chiefComplaints"])

	assert.Equal(t, "Throat congested", flat["examination_localExamination"])
	assert.Equal(t, "None", flat["patient_medicalHistory"])

	assert.Equal(t, "Warm saline gargles", flat["followUp_lifestyleAdvice"])
	assert.Equal(t, "CBC", flat["investigations_others"])
	assert.Equal(t, "Review after 5 days", flat["followUp_reviewDate"])

	// Aliases are only emitted when the value exists.
	rec := &domain.PrescriptionRecord{}
	flat = Flatten(rec)
	_, hasAlias := flat["diagnosis"]
	assert.False(t, hasAlias)
	assert.Equal(t, NA, flat["clinical_diagnosis"])
}

func TestFlattenMedicationIndexing(t *testing.T) {
	rec := &domain.PrescriptionRecord{
		Medications: []domain.Medication{
			{DrugName: "Paracetamol", Formulation: "Tablet"},
			{DrugName: "Cetirizine", Formulation: "Tablet"},
			{DrugName: "Omeprazole", Formulation: "Capsule"},
		},
	}
	flat := Flatten(rec)

	assert.Equal(t, "Paracetamol", flat["medication_drugName"])
	assert.Equal(t, "Cetirizine", flat["medication_2_drugName"])
	assert.Equal(t, "Omeprazole", flat["medication_3_drugName"])
	assert.Equal(t, "Capsule", flat["medication_3_formulation"])

	// Never an index-1 key: the first element is unindexed.
	_, has := flat["medication_1_drugName"]
	assert.False(t, has)
}

func TestRoundTrip(t *testing.T) {
	rec := sampleRecord()
	got := Unflatten(FlattenPairs(rec))
	assert.Equal(t, rec, got)
}

func TestRoundTripMultipleMedications(t *testing.T) {
	rec := &domain.PrescriptionRecord{
		Medications: []domain.Medication{
			{DrugName: "A", Strength: "10mg"},
			{DrugName: "B", Strength: "20mg"},
			{DrugName: "C", Strength: "30mg"},
		},
	}
	got := Unflatten(FlattenPairs(rec))
	require.Len(t, got.Medications, 3)
	assert.Equal(t, "A", got.Medications[0].DrugName)
	assert.Equal(t, "B", got.Medications[1].DrugName)
	assert.Equal(t, "C", got.Medications[2].DrugName)
}

func TestUnflattenAliasesResolveToCanonicalPath(t *testing.T) {
	rec := Unflatten([]Pair{
		{Key: "diagnosis", Value: "Migraine"},
		{Key: "followUp_reviewDate", Value: "Review in 2 weeks"},
		{Key: "investigations", Value: "MRI brain"},
	})
	assert.Equal(t, "Migraine", rec.ClinicalDetails.Diagnosis)
	assert.Equal(t, "Review in 2 weeks", rec.Advice.FollowUpInstructions)
	assert.Equal(t, "MRI brain", rec.Advice.Investigations)
}

func TestUnflattenLastAppliedWins(t *testing.T) {
	rec := Unflatten([]Pair{
		{Key: "clinical_diagnosis", Value: "first"},
		{Key: "patient_diagnosis", Value: "second"},
	})
	assert.Equal(t, "second", rec.ClinicalDetails.Diagnosis)
}

func TestUnflattenSkipsNAAndUnknownKeys(t *testing.T) {
	rec := Unflatten([]Pair{
		{Key: "patient_patientName", Value: NA},
		{Key: "totally_unknown_key", Value: "x"},
		{Key: "patient_age", Value: ""},
		{Key: "patient_gender", Value: "F"},
	})
	assert.Equal(t, "", rec.PatientDetails.PatientName)
	assert.Equal(t, "", rec.PatientDetails.Age)
	assert.Equal(t, "F", rec.PatientDetails.Gender)
}

func TestParseMedicationKey(t *testing.T) {
	idx, sub, ok := ParseMedicationKey("medication_drugName")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "drugName", sub)

	idx, sub, ok = ParseMedicationKey("medication_2_frequency")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "frequency", sub)

	_, _, ok = ParseMedicationKey("patient_patientName")
	assert.False(t, ok)
}

func TestMedicationKey(t *testing.T) {
	assert.Equal(t, "medication_drugName", MedicationKey(0, "drugName"))
	assert.Equal(t, "medication_2_drugName", MedicationKey(1, "drugName"))
	assert.Equal(t, "medication_10_duration", MedicationKey(9, "duration"))
}

func TestKnownKey(t *testing.T) {
	assert.True(t, KnownKey("patient_patientName"))
	assert.True(t, KnownKey("diagnosis"))
	assert.True(t, KnownKey("medication_3_route"))
	assert.False(t, KnownKey("invoice_number"))
}
