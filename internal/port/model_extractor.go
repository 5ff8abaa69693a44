package port

import (
	"context"

	"rxlens/internal/domain"
)

// ExtractInput is one vision extraction request.
type ExtractInput struct {
	ImageBytes  []byte
	ContentType string
	// Prompts maps field keys to custom instruction text, overriding the
	// built-in per-field defaults.
	Prompts map[string]string
}

// ExtractOutput is one provider's answer for one image.
type ExtractOutput struct {
	Record           *domain.PrescriptionRecord
	ModelName        string
	Confidence       float64
	ProcessingTimeMs float64
}

// ModelExtractor calls one external vision model and parses its response
// into a canonical prescription record.
type ModelExtractor interface {
	// Name returns the provider key (e.g. "claude") used in stored rows.
	Name() string
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
