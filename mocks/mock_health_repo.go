package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rxlens/internal/port"
)

// MockHealthRepo is a mock implementation of port.HealthRepository.
type MockHealthRepo struct {
	mock.Mock
}

func (m *MockHealthRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHealthRepo) Stats(ctx context.Context) (*port.DBStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.DBStats), args.Error(1)
}
