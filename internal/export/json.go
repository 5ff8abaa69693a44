package export

import (
	"time"

	"rxlens/internal/domain"
)

// JSONPayload is the body of a JSON export.
type JSONPayload struct {
	Prescriptions     []domain.Prescription     `json:"prescriptions"`
	ExtractionResults []domain.ExtractionResult `json:"extractionResults"`
	ExportedAt        time.Time                 `json:"exportedAt"`
}

// BuildJSON assembles a JSON export payload.
func BuildJSON(prescriptions []domain.Prescription, results []domain.ExtractionResult) *JSONPayload {
	if prescriptions == nil {
		prescriptions = []domain.Prescription{}
	}
	if results == nil {
		results = []domain.ExtractionResult{}
	}
	return &JSONPayload{
		Prescriptions:     prescriptions,
		ExtractionResults: results,
		ExportedAt:        time.Now().UTC(),
	}
}
