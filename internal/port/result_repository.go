package port

import (
	"context"

	"github.com/google/uuid"

	"rxlens/internal/domain"
)

// ResultRepository is the append-only store of per-model, per-field
// extraction rows. Rows are never updated except by explicit cross-model
// field corrections, and never deleted except by prescription cascade or an
// explicit clear before reprocessing.
type ResultRepository interface {
	AppendBatch(ctx context.Context, rows []domain.ExtractionResult) error
	// ListByPrescription returns rows in insertion (seq) order.
	ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]domain.ExtractionResult, error)
	// ListAll returns every row system-wide in insertion order.
	ListAll(ctx context.Context) ([]domain.ExtractionResult, error)
	// UpdateValueByFieldKey overwrites the value of every row matching
	// fieldKey for the prescription, across all models. Returns the number
	// of rows rewritten.
	UpdateValueByFieldKey(ctx context.Context, prescriptionID uuid.UUID, fieldKey, value string) (int64, error)
	DeleteByPrescription(ctx context.Context, prescriptionID uuid.UUID) error
}
