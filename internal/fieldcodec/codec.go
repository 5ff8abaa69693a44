// Package fieldcodec maps the canonical nested prescription record to and
// from the flat (fieldKey, value) representation stored per model answer.
//
// The mapping is table-driven: every scalar leaf of the record has one entry
// naming its primary flat key and any legacy alias keys that older consumers
// still read. Adding a field is a table edit, not new branching logic. The
// table is validated once at package init.
package fieldcodec

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"rxlens/internal/domain"
)

// NA is the sentinel value meaning "model looked and found nothing".
const NA = "NA"

// MedicationKeyRe matches medication field keys. The first list element is
// unindexed (medication_drugName); element i (0-based, i >= 1) carries the
// 1-based human index plus one (medication_2_drugName for the second entry).
var MedicationKeyRe = regexp.MustCompile(`^medication_(?:(\d+)_)?(\w+)$`)

// Pair is one flat (fieldKey, value) entry.
type Pair struct {
	Key   string
	Value string
}

type scalarField struct {
	key     string
	aliases []string
	get     func(*domain.PrescriptionRecord) *string
}

// scalarFields is the full flattening table in canonical section order.
var scalarFields = []scalarField{
	{key: "prescriptionType_type", get: func(r *domain.PrescriptionRecord) *string { return &r.PrescriptionType.Type }},
	{key: "prescriptionType_customType", get: func(r *domain.PrescriptionRecord) *string { return &r.PrescriptionType.CustomType }},

	{key: "patient_patientName", get: func(r *domain.PrescriptionRecord) *string { return &r.PatientDetails.PatientName }},
	{key: "patient_age", get: func(r *domain.PrescriptionRecord) *string { return &r.PatientDetails.Age }},
	{key: "patient_gender", get: func(r *domain.PrescriptionRecord) *string { return &r.PatientDetails.Gender }},
	{key: "patient_uhid", get: func(r *domain.PrescriptionRecord) *string { return &r.PatientDetails.UHID }},
	{key: "patient_membershipNo", get: func(r *domain.PrescriptionRecord) *string { return &r.PatientDetails.MembershipNo }},
	{key: "patient_patientId", get: func(r *domain.PrescriptionRecord) *string { return &r.PatientDetails.PatientID }},
	{key: "patient_date", get: func(r *domain.PrescriptionRecord) *string { return &r.PatientDetails.Date }},
	{key: "patient_allergies", get: func(r *domain.PrescriptionRecord) *string { return &r.PatientDetails.Allergies }},

	{
		key:     "clinical_diagnosis",
		aliases: []string{"patient_diagnosis", "diagnosis"},
		get:     func(r *domain.PrescriptionRecord) *string { return &r.ClinicalDetails.Diagnosis },
	},
	{key: "clinical_provisionalDiagnosis", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicalDetails.ProvisionalDiagnosis }},
	{
		key:     "clinical_chiefComplaints",
		aliases: []string{"chiefComplaints_primarySymptoms", "chiefComplaints"},
		get:     func(r *domain.PrescriptionRecord) *string { return &r.ClinicalDetails.ChiefComplaints },
	},
	{
		key:     "clinical_medicalHistory",
		aliases: []string{"patient_medicalHistory", "medicalHistory"},
		get:     func(r *domain.PrescriptionRecord) *string { return &r.ClinicalDetails.MedicalHistory },
	},
	{
		key:     "clinical_examination",
		aliases: []string{"examination_localExamination", "examination"},
		get:     func(r *domain.PrescriptionRecord) *string { return &r.ClinicalDetails.Examination },
	},

	{key: "vitals_bloodPressure", get: func(r *domain.PrescriptionRecord) *string { return &r.Vitals.BloodPressure }},
	{key: "vitals_pulse", get: func(r *domain.PrescriptionRecord) *string { return &r.Vitals.Pulse }},
	{key: "vitals_temperature", get: func(r *domain.PrescriptionRecord) *string { return &r.Vitals.Temperature }},
	{key: "vitals_spO2", get: func(r *domain.PrescriptionRecord) *string { return &r.Vitals.SpO2 }},
	{key: "vitals_weight", get: func(r *domain.PrescriptionRecord) *string { return &r.Vitals.Weight }},
	{key: "vitals_height", get: func(r *domain.PrescriptionRecord) *string { return &r.Vitals.Height }},
	{key: "vitals_bmi", get: func(r *domain.PrescriptionRecord) *string { return &r.Vitals.BMI }},
	{key: "vitals_others", get: func(r *domain.PrescriptionRecord) *string { return &r.Vitals.Others }},

	{
		key:     "advice_lifestyleAdvice",
		aliases: []string{"followUp_lifestyleAdvice", "lifestyleAdvice"},
		get:     func(r *domain.PrescriptionRecord) *string { return &r.Advice.LifestyleAdvice },
	},
	{
		key:     "advice_investigations",
		aliases: []string{"investigations_others", "investigations"},
		get:     func(r *domain.PrescriptionRecord) *string { return &r.Advice.Investigations },
	},
	{
		key:     "advice_followUpInstructions",
		aliases: []string{"followUp_reviewDate", "followUpInstructions"},
		get:     func(r *domain.PrescriptionRecord) *string { return &r.Advice.FollowUpInstructions },
	},

	{key: "doctor_doctorName", get: func(r *domain.PrescriptionRecord) *string { return &r.DoctorDetails.DoctorName }},
	{key: "doctor_signature", get: func(r *domain.PrescriptionRecord) *string { return &r.DoctorDetails.Signature }},
	{key: "doctor_registrationNo", get: func(r *domain.PrescriptionRecord) *string { return &r.DoctorDetails.RegistrationNo }},
	{key: "doctor_specialization", get: func(r *domain.PrescriptionRecord) *string { return &r.DoctorDetails.Specialization }},

	{key: "clinic_clinicName", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.ClinicName }},
	{key: "clinic_hospitalName", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.HospitalName }},
	{key: "clinic_branch", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.Branch }},
	{key: "clinic_location", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.Location }},
	{key: "clinic_address", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.Address }},
	{key: "clinic_contactNumbers", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.ContactNumbers }},
	{key: "clinic_email", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.Email }},
	{key: "clinic_website", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.Website }},
	{key: "clinic_logo", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.Logo }},
	{key: "clinic_branding", get: func(r *domain.PrescriptionRecord) *string { return &r.ClinicDetails.Branding }},
}

type medicationField struct {
	sub string
	get func(*domain.Medication) *string
}

// medicationFields lists the per-entry medication subfields in canonical order.
var medicationFields = []medicationField{
	{sub: "drugName", get: func(m *domain.Medication) *string { return &m.DrugName }},
	{sub: "formulation", get: func(m *domain.Medication) *string { return &m.Formulation }},
	{sub: "strength", get: func(m *domain.Medication) *string { return &m.Strength }},
	{sub: "route", get: func(m *domain.Medication) *string { return &m.Route }},
	{sub: "frequency", get: func(m *domain.Medication) *string { return &m.Frequency }},
	{sub: "duration", get: func(m *domain.Medication) *string { return &m.Duration }},
	{sub: "specialInstructions", get: func(m *domain.Medication) *string { return &m.SpecialInstructions }},
}

// scalarLookup resolves any accepted flat key (primary or alias) to its
// record accessor. Built and validated at init.
var scalarLookup map[string]func(*domain.PrescriptionRecord) *string

// medicationLookup resolves a medication subfield name to its accessor.
var medicationLookup map[string]func(*domain.Medication) *string

func init() {
	scalarLookup = make(map[string]func(*domain.PrescriptionRecord) *string)
	for _, f := range scalarFields {
		for _, key := range append([]string{f.key}, f.aliases...) {
			if _, dup := scalarLookup[key]; dup {
				panic(fmt.Sprintf("fieldcodec: duplicate flat key %q", key))
			}
			scalarLookup[key] = f.get
		}
	}
	medicationLookup = make(map[string]func(*domain.Medication) *string)
	for _, f := range medicationFields {
		if _, dup := medicationLookup[f.sub]; dup {
			panic(fmt.Sprintf("fieldcodec: duplicate medication subfield %q", f.sub))
		}
		medicationLookup[f.sub] = f.get
	}
}

// Flatten converts a canonical record to the flat key/value representation.
// Every primary scalar key is emitted, with NA standing in for absent values.
// Legacy alias keys are emitted only when the value is present, mirroring the
// behavior downstream consumers depend on.
func Flatten(rec *domain.PrescriptionRecord) map[string]string {
	out := make(map[string]string, len(scalarFields)+len(rec.Medications)*len(medicationFields))
	for _, f := range scalarFields {
		v := *f.get(rec)
		out[f.key] = orNA(v)
		if present(v) {
			for _, a := range f.aliases {
				out[a] = v
			}
		}
	}
	for i := range rec.Medications {
		med := &rec.Medications[i]
		for _, f := range medicationFields {
			out[MedicationKey(i, f.sub)] = orNA(*f.get(med))
		}
	}
	return out
}

// FlattenPairs is Flatten with deterministic output ordering: table order for
// scalars, then medications by list position and subfield order, with any
// emitted aliases following their primary key.
func FlattenPairs(rec *domain.PrescriptionRecord) []Pair {
	flat := Flatten(rec)
	pairs := make([]Pair, 0, len(flat))
	for _, f := range scalarFields {
		pairs = append(pairs, Pair{Key: f.key, Value: flat[f.key]})
		for _, a := range f.aliases {
			if v, ok := flat[a]; ok {
				pairs = append(pairs, Pair{Key: a, Value: v})
			}
		}
	}
	for i := range rec.Medications {
		for _, f := range medicationFields {
			key := MedicationKey(i, f.sub)
			pairs = append(pairs, Pair{Key: key, Value: flat[key]})
		}
	}
	return pairs
}

// Unflatten rebuilds a canonical record from flat pairs, applying them in
// order (last-applied-wins when aliases resolve to one path). Absent and NA
// values are skipped; unknown keys are silently dropped to tolerate schema
// drift. Medications are assembled in parsed index order; entries without a
// drug name are kept here and filtered by the aggregator's drop rule.
func Unflatten(pairs []Pair) *domain.PrescriptionRecord {
	rec := &domain.PrescriptionRecord{}
	meds := make(map[int]*domain.Medication)
	for _, p := range pairs {
		if !present(p.Value) {
			continue
		}
		if set, ok := scalarLookup[p.Key]; ok {
			*set(rec) = p.Value
			continue
		}
		if idx, sub, ok := ParseMedicationKey(p.Key); ok {
			set, known := medicationLookup[sub]
			if !known {
				continue
			}
			m := meds[idx]
			if m == nil {
				m = &domain.Medication{}
				meds[idx] = m
			}
			*set(m) = p.Value
		}
	}

	if len(meds) > 0 {
		indices := make([]int, 0, len(meds))
		for idx := range meds {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		rec.Medications = make([]domain.Medication, 0, len(indices))
		for _, idx := range indices {
			rec.Medications = append(rec.Medications, *meds[idx])
		}
	}
	return rec
}

// MedicationKey returns the flat key for the subfield of the medication at
// 0-based list position idx.
func MedicationKey(idx int, sub string) string {
	if idx == 0 {
		return "medication_" + sub
	}
	return "medication_" + strconv.Itoa(idx+1) + "_" + sub
}

// ParseMedicationKey parses a medication flat key into a 0-based list
// position and subfield name.
func ParseMedicationKey(key string) (idx int, sub string, ok bool) {
	m := MedicationKeyRe.FindStringSubmatch(key)
	if m == nil {
		return 0, "", false
	}
	if m[1] == "" {
		return 0, m[2], true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, "", false
	}
	return n - 1, m[2], true
}

// IsMedicationKey reports whether key addresses a medication subfield.
func IsMedicationKey(key string) bool {
	_, _, ok := ParseMedicationKey(key)
	return ok
}

// KnownKey reports whether key is a primary key, a legacy alias, or a
// medication key the codec can route.
func KnownKey(key string) bool {
	if _, ok := scalarLookup[key]; ok {
		return true
	}
	if _, sub, ok := ParseMedicationKey(key); ok {
		_, known := medicationLookup[sub]
		return known
	}
	return false
}

func present(v string) bool {
	return v != "" && v != NA
}

func orNA(v string) string {
	if v == "" {
		return NA
	}
	return v
}
