package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"rxlens/internal/domain"
	"rxlens/internal/port"
)

const defaultConfigName = "Default Configuration"

// ConfigInput is the DTO for creating or updating an extraction config.
type ConfigInput struct {
	Name           string
	SelectedModels []string
	SelectedFields []string
	CustomPrompts  map[string]string
	IsDefault      bool
}

// ConfigService manages extraction configs.
type ConfigService interface {
	List(ctx context.Context) ([]domain.ExtractionConfig, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ExtractionConfig, error)
	GetDefault(ctx context.Context) (*domain.ExtractionConfig, error)
	Create(ctx context.Context, input *ConfigInput) (*domain.ExtractionConfig, error)
	Update(ctx context.Context, id uuid.UUID, input *ConfigInput) (*domain.ExtractionConfig, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// EnsureDefault seeds the built-in default config when no configs exist.
	EnsureDefault(ctx context.Context) error
}

type configService struct {
	repo port.ConfigRepository
}

// NewConfigService creates a new ConfigService implementation.
func NewConfigService(repo port.ConfigRepository) ConfigService {
	return &configService{repo: repo}
}

func (s *configService) List(ctx context.Context) ([]domain.ExtractionConfig, error) {
	return s.repo.List(ctx)
}

func (s *configService) Get(ctx context.Context, id uuid.UUID) (*domain.ExtractionConfig, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *configService) GetDefault(ctx context.Context) (*domain.ExtractionConfig, error) {
	return s.repo.GetDefault(ctx)
}

func (s *configService) Create(ctx context.Context, input *ConfigInput) (*domain.ExtractionConfig, error) {
	cfg := fromInput(input)
	cfg.ID = uuid.New()
	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *configService) Update(ctx context.Context, id uuid.UUID, input *ConfigInput) (*domain.ExtractionConfig, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := fromInput(input)
	cfg.ID = id
	cfg.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *configService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *configService) EnsureDefault(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("configService.EnsureDefault: %w", err)
	}
	if count > 0 {
		return nil
	}

	cfg := &domain.ExtractionConfig{
		ID:             uuid.New(),
		Name:           defaultConfigName,
		SelectedModels: append([]string(nil), domain.DefaultModels...),
		SelectedFields: []string{},
		CustomPrompts:  domain.PromptMap{},
		IsDefault:      true,
	}
	if err := s.repo.Create(ctx, cfg); err != nil {
		return fmt.Errorf("configService.EnsureDefault: %w", err)
	}
	log.Printf("configService.EnsureDefault: seeded %q (%s)", cfg.Name, cfg.ID)
	return nil
}

func fromInput(input *ConfigInput) *domain.ExtractionConfig {
	cfg := &domain.ExtractionConfig{
		Name:           input.Name,
		SelectedModels: input.SelectedModels,
		SelectedFields: input.SelectedFields,
		CustomPrompts:  input.CustomPrompts,
		IsDefault:      input.IsDefault,
	}
	if cfg.SelectedModels == nil {
		cfg.SelectedModels = []string{}
	}
	if cfg.SelectedFields == nil {
		cfg.SelectedFields = []string{}
	}
	if cfg.CustomPrompts == nil {
		cfg.CustomPrompts = domain.PromptMap{}
	}
	return cfg
}
