package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rxlens/internal/domain"
	"rxlens/internal/service"
)

// MockPrescriptionService is a mock implementation of service.PrescriptionService.
type MockPrescriptionService struct {
	mock.Mock
}

func (m *MockPrescriptionService) Upload(ctx context.Context, files []service.UploadFileInput) ([]domain.Prescription, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Prescription), args.Error(1)
}

func (m *MockPrescriptionService) List(ctx context.Context) ([]domain.Prescription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Prescription), args.Error(1)
}

func (m *MockPrescriptionService) Get(ctx context.Context, id uuid.UUID) (*service.PrescriptionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PrescriptionDetail), args.Error(1)
}

func (m *MockPrescriptionService) GetImage(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockPrescriptionService) Process(ctx context.Context, id uuid.UUID, file *service.UploadFileInput, input service.ProcessInput) (*service.PrescriptionDetail, error) {
	args := m.Called(ctx, id, file, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PrescriptionDetail), args.Error(1)
}

func (m *MockPrescriptionService) ProcessExisting(ctx context.Context, id uuid.UUID, input service.ProcessInput) (*service.PrescriptionDetail, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PrescriptionDetail), args.Error(1)
}

func (m *MockPrescriptionService) Retry(ctx context.Context, id uuid.UUID) (*domain.Prescription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prescription), args.Error(1)
}

func (m *MockPrescriptionService) Reprocess(ctx context.Context, id uuid.UUID) (*domain.Prescription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prescription), args.Error(1)
}

func (m *MockPrescriptionService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	args := m.Called(ctx, id, force)
	return args.Error(0)
}

func (m *MockPrescriptionService) ApplyFieldCorrections(ctx context.Context, id uuid.UUID, fieldUpdates map[string]string) (*service.PrescriptionDetail, error) {
	args := m.Called(ctx, id, fieldUpdates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PrescriptionDetail), args.Error(1)
}
