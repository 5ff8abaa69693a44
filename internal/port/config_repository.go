package port

import (
	"context"

	"github.com/google/uuid"

	"rxlens/internal/domain"
)

// ConfigRepository persists extraction configs. Writes that set isDefault
// must clear the flag on every other config in the same transaction, keeping
// the single-default invariant.
type ConfigRepository interface {
	List(ctx context.Context) ([]domain.ExtractionConfig, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionConfig, error)
	// GetDefault returns the default config, falling back to the oldest
	// config when none is flagged. Returns domain.ErrConfigNotFound when no
	// configs exist at all.
	GetDefault(ctx context.Context) (*domain.ExtractionConfig, error)
	Create(ctx context.Context, cfg *domain.ExtractionConfig) error
	Update(ctx context.Context, cfg *domain.ExtractionConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
