package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rxlens/internal/domain"
	"rxlens/internal/port"
)

type resultRepo struct {
	db *sqlx.DB
}

// NewResultRepo creates a new PostgreSQL-backed ResultRepository.
func NewResultRepo(db *sqlx.DB) port.ResultRepository {
	return &resultRepo{db: db}
}

func (r *resultRepo) AppendBatch(ctx context.Context, rows []domain.ExtractionResult) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
		rows[i].CreatedAt = now
	}

	// seq is database-assigned; NamedExec expands one VALUES tuple per row.
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO extraction_results (
			id, prescription_id, model_name, field_key, value,
			confidence, processing_time_ms, created_at
		) VALUES (
			:id, :prescription_id, :model_name, :field_key, :value,
			:confidence, :processing_time_ms, :created_at
		)`, rows)
	if err != nil {
		return fmt.Errorf("resultRepo.AppendBatch: %w", err)
	}
	return nil
}

func (r *resultRepo) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]domain.ExtractionResult, error) {
	var rows []domain.ExtractionResult
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM extraction_results WHERE prescription_id = $1 ORDER BY seq ASC",
		prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("resultRepo.ListByPrescription: %w", err)
	}
	return rows, nil
}

func (r *resultRepo) ListAll(ctx context.Context) ([]domain.ExtractionResult, error) {
	var rows []domain.ExtractionResult
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM extraction_results ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("resultRepo.ListAll: %w", err)
	}
	return rows, nil
}

func (r *resultRepo) UpdateValueByFieldKey(ctx context.Context, prescriptionID uuid.UUID, fieldKey, value string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE extraction_results SET value = $1
		 WHERE prescription_id = $2 AND field_key = $3`,
		value, prescriptionID, fieldKey)
	if err != nil {
		return 0, fmt.Errorf("resultRepo.UpdateValueByFieldKey: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (r *resultRepo) DeleteByPrescription(ctx context.Context, prescriptionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM extraction_results WHERE prescription_id = $1", prescriptionID)
	if err != nil {
		return fmt.Errorf("resultRepo.DeleteByPrescription: %w", err)
	}
	return nil
}
