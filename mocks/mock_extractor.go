package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rxlens/internal/port"
)

// MockExtractor is a mock implementation of port.ModelExtractor.
type MockExtractor struct {
	mock.Mock
	ProviderName string
}

func (m *MockExtractor) Name() string {
	return m.ProviderName
}

func (m *MockExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ExtractOutput), args.Error(1)
}
