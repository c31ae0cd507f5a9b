package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/theblitlabs/thz-setup/internal/execution/executils"
)

// MockRunner is a mock implementation of executils.Runner
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Capture(ctx context.Context, name string, args ...string) (*executils.Result, error) {
	called := m.Called(ctx, name, args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).(*executils.Result), called.Error(1)
}

func (m *MockRunner) Stream(ctx context.Context, name string, args ...string) (*executils.Result, error) {
	called := m.Called(ctx, name, args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).(*executils.Result), called.Error(1)
}

var _ executils.Runner = (*MockRunner)(nil)
