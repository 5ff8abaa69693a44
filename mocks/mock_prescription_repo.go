package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rxlens/internal/domain"
)

// MockPrescriptionRepo is a mock implementation of port.PrescriptionRepository.
type MockPrescriptionRepo struct {
	mock.Mock
}

func (m *MockPrescriptionRepo) Create(ctx context.Context, p *domain.Prescription) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPrescriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Prescription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prescription), args.Error(1)
}

func (m *MockPrescriptionRepo) List(ctx context.Context) ([]domain.Prescription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Prescription), args.Error(1)
}

func (m *MockPrescriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProcessingStatus, requeuedAt *time.Time) error {
	args := m.Called(ctx, id, status, requeuedAt)
	return args.Error(0)
}

func (m *MockPrescriptionRepo) UpdateExtractedData(ctx context.Context, id uuid.UUID, data json.RawMessage) error {
	args := m.Called(ctx, id, data)
	return args.Error(0)
}

func (m *MockPrescriptionRepo) UpdateImage(ctx context.Context, id uuid.UUID, imageData []byte, contentType, fileName string, fileSize int64) error {
	args := m.Called(ctx, id, imageData, contentType, fileName, fileSize)
	return args.Error(0)
}

func (m *MockPrescriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPrescriptionRepo) ClaimRequeued(ctx context.Context, limit int) ([]domain.Prescription, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Prescription), args.Error(1)
}
