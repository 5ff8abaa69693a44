package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rxlens/internal/domain"
)

// MockConfigRepo is a mock implementation of port.ConfigRepository.
type MockConfigRepo struct {
	mock.Mock
}

func (m *MockConfigRepo) List(ctx context.Context) ([]domain.ExtractionConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExtractionConfig), args.Error(1)
}

func (m *MockConfigRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionConfig), args.Error(1)
}

func (m *MockConfigRepo) GetDefault(ctx context.Context) (*domain.ExtractionConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionConfig), args.Error(1)
}

func (m *MockConfigRepo) Create(ctx context.Context, cfg *domain.ExtractionConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockConfigRepo) Update(ctx context.Context, cfg *domain.ExtractionConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockConfigRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockConfigRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
