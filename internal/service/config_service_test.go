package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rxlens/internal/domain"
	"rxlens/internal/service"
	"rxlens/mocks"
)

func TestEnsureDefaultSeedsWhenEmpty(t *testing.T) {
	repo := new(mocks.MockConfigRepo)
	svc := service.NewConfigService(repo)

	repo.On("Count", mock.Anything).Return(0, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(cfg *domain.ExtractionConfig) bool {
		return cfg.Name == "Default Configuration" &&
			cfg.IsDefault &&
			len(cfg.SelectedModels) == 3
	})).Return(nil)

	require.NoError(t, svc.EnsureDefault(context.Background()))
	repo.AssertExpectations(t)
}

func TestEnsureDefaultNoopWhenConfigsExist(t *testing.T) {
	repo := new(mocks.MockConfigRepo)
	svc := service.NewConfigService(repo)

	repo.On("Count", mock.Anything).Return(2, nil)

	require.NoError(t, svc.EnsureDefault(context.Background()))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfigCreateFillsEmptyCollections(t *testing.T) {
	repo := new(mocks.MockConfigRepo)
	svc := service.NewConfigService(repo)

	var created *domain.ExtractionConfig
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ExtractionConfig")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.ExtractionConfig)
		}).Return(nil)

	cfg, err := svc.Create(context.Background(), &service.ConfigInput{Name: "dental"})
	require.NoError(t, err)

	assert.Equal(t, "dental", cfg.Name)
	assert.NotEqual(t, uuid.Nil, cfg.ID)
	require.NotNil(t, created)
	assert.NotNil(t, created.SelectedModels)
	assert.NotNil(t, created.SelectedFields)
	assert.NotNil(t, created.CustomPrompts)
}

func TestConfigUpdateKeepsCreatedAt(t *testing.T) {
	repo := new(mocks.MockConfigRepo)
	svc := service.NewConfigService(repo)

	id := uuid.New()
	existing := &domain.ExtractionConfig{ID: id, Name: "old"}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(cfg *domain.ExtractionConfig) bool {
		return cfg.ID == id && cfg.Name == "new" && cfg.CreatedAt.Equal(existing.CreatedAt)
	})).Return(nil)

	cfg, err := svc.Update(context.Background(), id, &service.ConfigInput{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.Name)
	repo.AssertExpectations(t)
}

func TestConfigUpdateNotFound(t *testing.T) {
	repo := new(mocks.MockConfigRepo)
	svc := service.NewConfigService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrConfigNotFound)

	_, err := svc.Update(context.Background(), id, &service.ConfigInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}
