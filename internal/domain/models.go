package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Prescription is one uploaded prescription image and its processing state.
// ExtractedData is a denormalized cache of the aggregated record; it is always
// rebuildable from the prescription's ExtractionResult rows.
type Prescription struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	FileName         string           `db:"file_name" json:"fileName"`
	FileSize         int64            `db:"file_size" json:"fileSize"`
	ContentType      string           `db:"content_type" json:"contentType"`
	ProcessingStatus ProcessingStatus `db:"processing_status" json:"processingStatus"`
	ImageData        []byte           `db:"image_data" json:"-"`
	ExtractedData    json.RawMessage  `db:"extracted_data" json:"extractedData,omitempty"`
	UploadedAt       time.Time        `db:"uploaded_at" json:"uploadedAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
	// RequeuedAt marks a retry/reprocess request; the queue worker only
	// claims queued prescriptions with this set.
	RequeuedAt *time.Time `db:"requeued_at" json:"requeuedAt,omitempty"`
}

// HasImage reports whether the prescription has stored image bytes.
func (p *Prescription) HasImage() bool {
	return len(p.ImageData) > 0
}

// ExtractionResult is one (model, fieldKey) answer from one processing
// attempt. Rows are append-only; Seq is assigned by the database and fixes
// the aggregation order.
type ExtractionResult struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Seq              int64     `db:"seq" json:"-"`
	PrescriptionID   uuid.UUID `db:"prescription_id" json:"prescriptionId"`
	ModelName        string    `db:"model_name" json:"modelName"`
	FieldKey         string    `db:"field_key" json:"fieldName"`
	Value            string    `db:"value" json:"extractedValue"`
	Confidence       float64   `db:"confidence" json:"confidence"`
	ProcessingTimeMs float64   `db:"processing_time_ms" json:"processingTime"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// PromptMap holds per-field custom prompt overrides, stored as jsonb.
type PromptMap map[string]string

// Value implements driver.Valuer.
func (m PromptMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *PromptMap) Scan(src interface{}) error {
	if src == nil {
		*m = PromptMap{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("PromptMap.Scan: unsupported source type %T", src)
	}
	return json.Unmarshal(b, m)
}

// ExtractionConfig names a reusable extraction setup: which models to fan
// out to, which fields to ask for, and per-field prompt overrides. At most
// one config is default; the default is applied when a processing request
// does not specify models or prompts.
type ExtractionConfig struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	SelectedModels pq.StringArray `db:"selected_models" json:"selectedModels"`
	SelectedFields pq.StringArray `db:"selected_fields" json:"selectedFields"`
	CustomPrompts  PromptMap      `db:"custom_prompts" json:"customPrompts"`
	IsDefault      bool           `db:"is_default" json:"isDefault"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}
