package domain

// PrescriptionRecord is the canonical nested shape of one prescription's
// extracted data. Every model extractor produces one, the field codec
// flattens one, and the aggregator reconstructs one. Absent values are empty
// strings in memory and the literal "NA" on the wire.
type PrescriptionRecord struct {
	PrescriptionType PrescriptionType `json:"prescriptionType"`
	PatientDetails   PatientDetails   `json:"patientDetails"`
	ClinicalDetails  ClinicalDetails  `json:"clinicalDetails"`
	Vitals           Vitals           `json:"vitals"`
	Medications      []Medication     `json:"medications"`
	Advice           Advice           `json:"advice"`
	DoctorDetails    DoctorDetails    `json:"doctorDetails"`
	ClinicDetails    ClinicDetails    `json:"clinicDetails"`
}

type PrescriptionType struct {
	Type       string `json:"type,omitempty"`
	CustomType string `json:"customType,omitempty"`
}

type PatientDetails struct {
	PatientName  string `json:"patientName,omitempty"`
	Age          string `json:"age,omitempty"`
	Gender       string `json:"gender,omitempty"`
	UHID         string `json:"uhid,omitempty"`
	MembershipNo string `json:"membershipNo,omitempty"`
	PatientID    string `json:"patientId,omitempty"`
	Date         string `json:"date,omitempty"`
	Allergies    string `json:"allergies,omitempty"`
}

type ClinicalDetails struct {
	Diagnosis            string `json:"diagnosis,omitempty"`
	ProvisionalDiagnosis string `json:"provisionalDiagnosis,omitempty"`
	ChiefComplaints      string `json:"chiefComplaints,omitempty"`
	MedicalHistory       string `json:"medicalHistory,omitempty"`
	Examination          string `json:"examination,omitempty"`
}

type Vitals struct {
	BloodPressure string `json:"bloodPressure,omitempty"`
	Pulse         string `json:"pulse,omitempty"`
	Temperature   string `json:"temperature,omitempty"`
	SpO2          string `json:"spO2,omitempty"`
	Weight        string `json:"weight,omitempty"`
	Height        string `json:"height,omitempty"`
	BMI           string `json:"bmi,omitempty"`
	Others        string `json:"others,omitempty"`
}

type Medication struct {
	DrugName            string `json:"drugName,omitempty"`
	Formulation         string `json:"formulation,omitempty"`
	Strength            string `json:"strength,omitempty"`
	Route               string `json:"route,omitempty"`
	Frequency           string `json:"frequency,omitempty"`
	Duration            string `json:"duration,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

type Advice struct {
	LifestyleAdvice      string `json:"lifestyleAdvice,omitempty"`
	Investigations       string `json:"investigations,omitempty"`
	FollowUpInstructions string `json:"followUpInstructions,omitempty"`
}

type DoctorDetails struct {
	DoctorName     string `json:"doctorName,omitempty"`
	Signature      string `json:"signature,omitempty"`
	RegistrationNo string `json:"registrationNo,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

type ClinicDetails struct {
	ClinicName     string `json:"clinicName,omitempty"`
	HospitalName   string `json:"hospitalName,omitempty"`
	Branch         string `json:"branch,omitempty"`
	Location       string `json:"location,omitempty"`
	Address        string `json:"address,omitempty"`
	ContactNumbers string `json:"contactNumbers,omitempty"`
	Email          string `json:"email,omitempty"`
	Website        string `json:"website,omitempty"`
	Logo           string `json:"logo,omitempty"`
	Branding       string `json:"branding,omitempty"`
}
