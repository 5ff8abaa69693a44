package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rxlens/internal/domain"
	"rxlens/internal/service"
)

// MockConfigService is a mock implementation of service.ConfigService.
type MockConfigService struct {
	mock.Mock
}

func (m *MockConfigService) List(ctx context.Context) ([]domain.ExtractionConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExtractionConfig), args.Error(1)
}

func (m *MockConfigService) Get(ctx context.Context, id uuid.UUID) (*domain.ExtractionConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionConfig), args.Error(1)
}

func (m *MockConfigService) GetDefault(ctx context.Context) (*domain.ExtractionConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionConfig), args.Error(1)
}

func (m *MockConfigService) Create(ctx context.Context, input *service.ConfigInput) (*domain.ExtractionConfig, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionConfig), args.Error(1)
}

func (m *MockConfigService) Update(ctx context.Context, id uuid.UUID, input *service.ConfigInput) (*domain.ExtractionConfig, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionConfig), args.Error(1)
}

func (m *MockConfigService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockConfigService) EnsureDefault(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
