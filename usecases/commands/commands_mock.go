package commands

import (
	"context"

	"github.com/stretchr/testify/mock"

	"krowbot/models"
)

// MockCommandDispatcher implements the usecases.CommandDispatcherInterface for testing
type MockCommandDispatcher struct {
	mock.Mock
}

func (m *MockCommandDispatcher) Dispatch(ctx context.Context, invocation models.CommandInvocation) {
	m.Called(ctx, invocation)
}
