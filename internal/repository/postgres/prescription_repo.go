package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rxlens/internal/domain"
	"rxlens/internal/port"
)

type prescriptionRepo struct {
	db *sqlx.DB
}

// NewPrescriptionRepo creates a new PostgreSQL-backed PrescriptionRepository.
func NewPrescriptionRepo(db *sqlx.DB) port.PrescriptionRepository {
	return &prescriptionRepo{db: db}
}

func (r *prescriptionRepo) Create(ctx context.Context, p *domain.Prescription) error {
	now := time.Now().UTC()
	p.UploadedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO prescriptions (
		id, file_name, file_size, content_type, processing_status,
		image_data, extracted_data, uploaded_at, updated_at, requeued_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10
	)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.FileName, p.FileSize, p.ContentType, p.ProcessingStatus,
		p.ImageData, p.ExtractedData, p.UploadedAt, p.UpdatedAt, p.RequeuedAt)
	if err != nil {
		return fmt.Errorf("prescriptionRepo.Create: %w", err)
	}
	return nil
}

func (r *prescriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Prescription, error) {
	var p domain.Prescription
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM prescriptions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("prescriptionRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *prescriptionRepo) List(ctx context.Context) ([]domain.Prescription, error) {
	// image_data is excluded: list responses never carry image bytes.
	var ps []domain.Prescription
	err := r.db.SelectContext(ctx, &ps,
		`SELECT id, file_name, file_size, content_type, processing_status,
		        extracted_data, uploaded_at, updated_at, requeued_at
		 FROM prescriptions ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("prescriptionRepo.List: %w", err)
	}
	return ps, nil
}

func (r *prescriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProcessingStatus, requeuedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE prescriptions SET processing_status = $1, requeued_at = $2, updated_at = $3
		 WHERE id = $4`,
		status, requeuedAt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("prescriptionRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPrescriptionNotFound
	}
	return nil
}

func (r *prescriptionRepo) UpdateExtractedData(ctx context.Context, id uuid.UUID, data json.RawMessage) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE prescriptions SET extracted_data = $1, updated_at = $2 WHERE id = $3`,
		data, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("prescriptionRepo.UpdateExtractedData: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPrescriptionNotFound
	}
	return nil
}

func (r *prescriptionRepo) UpdateImage(ctx context.Context, id uuid.UUID, imageData []byte, contentType, fileName string, fileSize int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE prescriptions SET image_data = $1, content_type = $2, file_name = $3,
		        file_size = $4, updated_at = $5
		 WHERE id = $6`,
		imageData, contentType, fileName, fileSize, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("prescriptionRepo.UpdateImage: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPrescriptionNotFound
	}
	return nil
}

func (r *prescriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM prescriptions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("prescriptionRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPrescriptionNotFound
	}
	return nil
}

func (r *prescriptionRepo) ClaimRequeued(ctx context.Context, limit int) ([]domain.Prescription, error) {
	// SKIP LOCKED keeps concurrent workers from claiming the same rows.
	var ps []domain.Prescription
	err := r.db.SelectContext(ctx, &ps,
		`UPDATE prescriptions SET processing_status = $1, requeued_at = NULL, updated_at = $2
		 WHERE id IN (
		     SELECT id FROM prescriptions
		     WHERE processing_status = $3 AND requeued_at IS NOT NULL
		     ORDER BY requeued_at ASC
		     LIMIT $4
		     FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.StatusProcessing, time.Now().UTC(), domain.StatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("prescriptionRepo.ClaimRequeued: %w", err)
	}
	return ps, nil
}
