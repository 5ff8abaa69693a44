package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"rxlens/internal/domain"
)

// PrescriptionRepository persists prescriptions.
type PrescriptionRepository interface {
	Create(ctx context.Context, p *domain.Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Prescription, error)
	// List returns all prescriptions without image bytes, newest first.
	List(ctx context.Context) ([]domain.Prescription, error)
	// UpdateStatus moves the lifecycle state and sets or clears the requeue
	// marker in the same statement.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProcessingStatus, requeuedAt *time.Time) error
	// UpdateExtractedData rewrites the cached aggregated record.
	UpdateExtractedData(ctx context.Context, id uuid.UUID, data json.RawMessage) error
	// UpdateImage replaces the stored image payload and its metadata.
	UpdateImage(ctx context.Context, id uuid.UUID, imageData []byte, contentType, fileName string, fileSize int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ClaimRequeued atomically claims up to limit queued prescriptions that
	// were marked for requeue, moving them to processing.
	ClaimRequeued(ctx context.Context, limit int) ([]domain.Prescription, error)
}
