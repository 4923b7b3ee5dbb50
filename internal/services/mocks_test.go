package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"groobi/internal/changes"
)

// MockProcessor is a mock for the Processor interface
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, path string) (*changes.Result, error) {
	args := m.Called(ctx, path)
	if result := args.Get(0); result != nil {
		return result.(*changes.Result), args.Error(1)
	}
	return nil, args.Error(1)
}
