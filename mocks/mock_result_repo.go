package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rxlens/internal/domain"
)

// MockResultRepo is a mock implementation of port.ResultRepository.
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) AppendBatch(ctx context.Context, rows []domain.ExtractionResult) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockResultRepo) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]domain.ExtractionResult, error) {
	args := m.Called(ctx, prescriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExtractionResult), args.Error(1)
}

func (m *MockResultRepo) ListAll(ctx context.Context) ([]domain.ExtractionResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExtractionResult), args.Error(1)
}

func (m *MockResultRepo) UpdateValueByFieldKey(ctx context.Context, prescriptionID uuid.UUID, fieldKey, value string) (int64, error) {
	args := m.Called(ctx, prescriptionID, fieldKey, value)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResultRepo) DeleteByPrescription(ctx context.Context, prescriptionID uuid.UUID) error {
	args := m.Called(ctx, prescriptionID)
	return args.Error(0)
}
