package extractor

import (
	"fmt"
	"strings"
)

// schemaBlock is the JSON shape every provider is asked to fill. Absent
// values are the literal "NA".
const schemaBlock = `{
  "prescriptionType": {
    "type": "string (General Medicine/Dental/Dermatology/Surgical/Post-op/Pediatric/Gynecology/Obstetrics/Diagnostic/Lab Referral/Others) or NA",
    "customType": "string or NA"
  },
  "patientDetails": {
    "patientName": "string or NA",
    "age": "string or NA",
    "gender": "string or NA",
    "uhid": "string or NA",
    "date": "string or NA",
    "allergies": "string or NA"
  },
  "clinicalDetails": {
    "diagnosis": "string or NA",
    "chiefComplaints": "string or NA",
    "medicalHistory": "string or NA",
    "examination": "string or NA"
  },
  "vitals": {
    "bloodPressure": "string or NA",
    "pulse": "string or NA",
    "temperature": "string or NA",
    "spO2": "string or NA",
    "weight": "string or NA",
    "height": "string or NA",
    "bmi": "string or NA",
    "others": "string or NA"
  },
  "medications": [
    {
      "drugName": "string or NA",
      "formulation": "string (tablet/syrup/ointment/injection/capsule/drops) or NA",
      "strength": "string (mg/ml/g/%) or NA",
      "route": "string (oral/topical/IM/IV/sublingual) or NA",
      "frequency": "string (OD/BD/TDS/QID/1-0-1/twice daily) or NA",
      "duration": "string (days/weeks/months/SOS/PRN) or NA",
      "specialInstructions": "string (after food/before meals/with water/apply on wound) or NA"
    }
  ],
  "advice": {
    "lifestyleAdvice": "string or NA",
    "investigations": "string or NA",
    "followUpInstructions": "string or NA"
  },
  "doctorDetails": {
    "doctorName": "string or NA",
    "signature": "string (present/absent/stamp) or NA",
    "registrationNo": "string or NA"
  },
  "clinicDetails": {
    "clinicName": "string or NA",
    "hospitalName": "string or NA",
    "branch": "string or NA",
    "location": "string or NA",
    "address": "string or NA",
    "contactNumbers": "string or NA",
    "email": "string or NA",
    "website": "string or NA",
    "logo": "string (present/absent) or NA",
    "branding": "string or NA"
  }
}`

// promptLine is one extraction guideline: label, the flat field key whose
// custom prompt overrides it, and the built-in default instruction.
type promptLine struct {
	label    string
	key      string
	fallback string
}

var guidelineSections = []struct {
	heading string
	lines   []promptLine
}{
	{
		heading: "1. PRESCRIPTION TYPE:",
		lines: []promptLine{
			{"", "prescriptionType_type", "Identify the type of prescription based on the specialty area (General Medicine, Dental, Dermatology, Surgical/Post-op, Pediatric, Gynecology/Obstetrics, Diagnostic/Lab Referral, or Others). Look for specialty-specific terminology, clinic letterhead, or medication types."},
		},
	},
	{
		heading: "2. PATIENT INFORMATION:",
		lines: []promptLine{
			{"Name", "patient_patientName", "Extract the patient's full name exactly as written. Look for 'Name:', 'Patient:', or similar labels."},
			{"Age", "patient_age", "Extract patient age. Look for formats like '25 yrs', '30 years', '45Y', or age mentioned with patient details."},
			{"Gender", "patient_gender", "Extract patient gender. Look for M/F, Male/Female, or gender indicators."},
			{"UHID", "patient_uhid", "Extract UHID, membership number, patient ID, or registration number. Look for alphanumeric codes preceded by labels like 'UHID:', 'ID:', 'Reg No:', etc."},
			{"Date", "patient_date", "Extract prescription date. Look for date stamps, 'Date:', or dates near the header/footer."},
			{"Allergies", "patient_allergies", "Extract any mentioned allergies or drug sensitivities. Look for 'NKDA', 'No known allergies', or specific allergy mentions."},
		},
	},
	{
		heading: "3. CLINICAL DETAILS:",
		lines: []promptLine{
			{"Diagnosis", "clinical_diagnosis", "Extract primary diagnosis or provisional diagnosis. Look for 'Diagnosis:', 'Dx:', 'Impression:', or medical condition names."},
			{"Chief Complaints", "clinical_chiefComplaints", "Extract chief complaints or presenting symptoms. Look for 'C/O:', 'Chief complaints:', 'Presenting with:', or primary symptoms described."},
			{"Medical History", "clinical_medicalHistory", "Extract past medical history, known conditions, or ongoing treatments. Look for 'H/O:', 'History:', 'PMH:', or mentions of HTN, DM, previous surgeries, etc."},
			{"Examination", "clinical_examination", "Extract examination findings, physical assessment results. Look for 'O/E:', 'Examination:', 'Findings:', or clinical observations."},
		},
	},
	{
		heading: "4. VITALS:",
		lines: []promptLine{
			{"BP", "vitals_bloodPressure", "Extract blood pressure readings. Look for formats like '120/80', 'BP: 140/90 mmHg', or similar BP notations."},
			{"Pulse", "vitals_pulse", "Extract pulse rate. Look for 'Pulse:', 'HR:', numbers followed by 'bpm', '/min', or pulse-related terms."},
			{"Temperature", "vitals_temperature", "Extract body temperature. Look for temperature readings with °F, °C, or 'Temp:' labels."},
			{"SpO2", "vitals_spO2", "Extract oxygen saturation. Look for 'SpO2:', 'O2 sat:', percentages related to oxygen levels."},
			{"Others", "vitals_others", "Extract weight, height, BMI, or other vital measurements. Look for 'Wt:', 'Ht:', 'BMI:', with appropriate units."},
		},
	},
	{
		heading: "5. MEDICATIONS (CRITICAL - EXTRACT ALL):",
		lines: []promptLine{
			{"Drug Name", "medication_drugName", "Extract all medication names (generic or brand names). Look for 'Rx:', numbered medication lists, or drug names with dosages."},
			{"Formulation", "medication_formulation", "Extract medication forms. Look for 'Tab', 'Tablet', 'Syrup', 'Ointment', 'Injection', 'Capsule', 'Drops', etc."},
			{"Strength", "medication_strength", "Extract medication strength or dosage. Look for numbers with 'mg', 'ml', 'g', 'mcg', '%' strength indicators."},
			{"Route", "medication_route", "Extract administration route. Look for 'PO', 'Oral', 'IM', 'IV', 'Topical', 'Sublingual', or route specifications."},
			{"Frequency", "medication_frequency", "Extract medication frequency. Look for '1-0-1', 'OD', 'BD', 'TDS', 'QHS', 'twice daily', frequency patterns."},
			{"Duration", "medication_duration", "Extract treatment duration. Look for '5 days', '1 week', '15 days', 'SOS', 'PRN', or duration specifications."},
			{"Instructions", "medication_specialInstructions", "Extract special medication instructions. Look for 'after food', 'before meals', 'apply on wound', 'with water', timing or application instructions."},
		},
	},
	{
		heading: "6. ADVICE:",
		lines: []promptLine{
			{"Lifestyle Advice", "advice_lifestyleAdvice", "Extract lifestyle or non-drug advice. Look for recommendations about rest, diet, exercise, wound care, physiotherapy, or lifestyle modifications."},
			{"Investigations", "advice_investigations", "Extract ordered investigations or lab tests. Look for 'Investigations:', test names like CBC, X-ray, MRI, blood tests, or diagnostic procedures."},
			{"Follow-up", "advice_followUpInstructions", "Extract follow-up instructions. Look for 'Review after', 'Follow up', appointment scheduling, or next visit instructions."},
		},
	},
	{
		heading: "7. DOCTOR'S DETAILS:",
		lines: []promptLine{
			{"Name", "doctor_doctorName", "Extract doctor's name. Look for 'Dr.', physician name at the top/bottom, or signature area names."},
			{"Signature", "doctor_signature", "Identify if a signature is present. Look for handwritten signatures, stamp impressions, or signature blocks."},
			{"Registration", "doctor_registrationNo", "Extract medical registration number. Look for 'Reg No:', 'MCI No:', 'License No:', alphanumeric registration codes."},
		},
	},
	{
		heading: "8. CLINIC/HOSPITAL DETAILS:",
		lines: []promptLine{
			{"Clinic Name", "clinic_clinicName", "Extract clinic or hospital name. Look for institution names in headers, letterheads, or clinic branding."},
			{"Location", "clinic_location", "Extract clinic address or location. Look for street addresses, city names, pin codes, or location details."},
			{"Contact", "clinic_contactNumbers", "Extract phone numbers, mobile numbers, or contact information. Look for number patterns with area codes or phone formatting."},
			{"Email", "clinic_email", "Extract email addresses or website URLs. Look for email patterns or web addresses in contact sections."},
			{"Branding", "clinic_branding", "Identify presence of logos, letterheads, or clinic branding elements. Note any visual branding or institutional markers."},
		},
	},
}

const promptFooter = `CRITICAL INSTRUCTIONS:
1. Look for ALL medications - tablets, ointments, creams, drops, etc. Don't miss any!
2. For complaints section (C/O): Extract complete symptom description, duration, severity, what patient has tried before
3. For examination (O/E): Extract all physical findings - appearance, warmth, swelling, redness, discharge, etc.
4. Extract ALL readable medical information from every section of the prescription
5. If any information is not clearly visible or not mentioned, use "NA" as the value
6. Be extremely thorough and capture every detail visible in the prescription

Medical abbreviations to recognize:
- C/O = Chief complaints/complaints of
- O/E = On examination
- Tab. = Tablet
- AF = After food
- BD = Twice daily
- TDS = Three times daily
- QID = Four times daily
- SOS = If needed
- PRN = As required
- HTN = Hypertension
- DM = Diabetes Mellitus
- NKDA = No Known Drug Allergies`

// AnalysisInstruction is appended as the user-turn text next to the image.
const AnalysisInstruction = "Please analyze this prescription image and extract all the medical information according to the guidelines provided. Return ONLY valid JSON with no additional text."

// BuildPrompt assembles the extraction system prompt. Entries in prompts,
// keyed by flat field key, override the built-in per-field instructions.
func BuildPrompt(prompts map[string]string) string {
	var b strings.Builder
	b.WriteString("You are an expert medical AI assistant specialized in extracting structured data from handwritten prescriptions.\n\n")
	b.WriteString("Extract the following information from the prescription image and return ONLY valid JSON with no additional text, exactly matching this comprehensive structure. Do not include any explanatory text before or after the JSON. If uncertain about any field, use \"NA\". Never hallucinate information not visible in the image:\n\n")
	b.WriteString(schemaBlock)
	b.WriteString("\n\nCOMPREHENSIVE EXTRACTION GUIDELINES:\n")

	for _, section := range guidelineSections {
		b.WriteString("\n")
		b.WriteString(section.heading)
		b.WriteString("\n")
		for _, line := range section.lines {
			instruction := line.fallback
			if custom, ok := prompts[line.key]; ok && custom != "" {
				instruction = custom
			}
			if line.label == "" {
				fmt.Fprintf(&b, "%s\n", instruction)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", line.label, instruction)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(promptFooter)
	return b.String()
}
