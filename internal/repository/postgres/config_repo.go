package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rxlens/internal/domain"
	"rxlens/internal/port"
)

type configRepo struct {
	db *sqlx.DB
}

// NewConfigRepo creates a new PostgreSQL-backed ConfigRepository.
func NewConfigRepo(db *sqlx.DB) port.ConfigRepository {
	return &configRepo{db: db}
}

func (r *configRepo) List(ctx context.Context) ([]domain.ExtractionConfig, error) {
	var cfgs []domain.ExtractionConfig
	err := r.db.SelectContext(ctx, &cfgs,
		"SELECT * FROM extraction_configs ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("configRepo.List: %w", err)
	}
	return cfgs, nil
}

func (r *configRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionConfig, error) {
	var cfg domain.ExtractionConfig
	err := r.db.GetContext(ctx, &cfg,
		"SELECT * FROM extraction_configs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("configRepo.GetByID: %w", err)
	}
	return &cfg, nil
}

func (r *configRepo) GetDefault(ctx context.Context) (*domain.ExtractionConfig, error) {
	// Falls back to the oldest config when none is flagged default.
	var cfg domain.ExtractionConfig
	err := r.db.GetContext(ctx, &cfg,
		`SELECT * FROM extraction_configs
		 ORDER BY is_default DESC, created_at ASC LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("configRepo.GetDefault: %w", err)
	}
	return &cfg, nil
}

func (r *configRepo) Create(ctx context.Context, cfg *domain.ExtractionConfig) error {
	cfg.CreatedAt = time.Now().UTC()

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if cfg.IsDefault {
			if _, err := tx.ExecContext(ctx,
				"UPDATE extraction_configs SET is_default = FALSE WHERE is_default"); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO extraction_configs (
				id, name, selected_models, selected_fields, custom_prompts,
				is_default, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			cfg.ID, cfg.Name, cfg.SelectedModels, cfg.SelectedFields, cfg.CustomPrompts,
			cfg.IsDefault, cfg.CreatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("configRepo.Create: %w", err)
	}
	return nil
}

func (r *configRepo) Update(ctx context.Context, cfg *domain.ExtractionConfig) error {
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if cfg.IsDefault {
			if _, err := tx.ExecContext(ctx,
				"UPDATE extraction_configs SET is_default = FALSE WHERE is_default AND id <> $1",
				cfg.ID); err != nil {
				return err
			}
		}
		result, err := tx.ExecContext(ctx,
			`UPDATE extraction_configs SET
				name = $1, selected_models = $2, selected_fields = $3,
				custom_prompts = $4, is_default = $5
			 WHERE id = $6`,
			cfg.Name, cfg.SelectedModels, cfg.SelectedFields,
			cfg.CustomPrompts, cfg.IsDefault, cfg.ID)
		if err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrConfigNotFound
		}
		return nil
	})
	if errors.Is(err, domain.ErrConfigNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("configRepo.Update: %w", err)
	}
	return nil
}

func (r *configRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM extraction_configs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("configRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func (r *configRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM extraction_configs")
	if err != nil {
		return 0, fmt.Errorf("configRepo.Count: %w", err)
	}
	return count, nil
}

func (r *configRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
