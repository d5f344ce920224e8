//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
)

// MockTaskLaunchService is a mock implementation of TaskLaunchService
type MockTaskLaunchService struct {
	mock.Mock
}

func (m *MockTaskLaunchService) Launch(ctx context.Context, taskName string, params, fwSpec spec.Spec) (*tasks.Action, *launches.LaunchMeta, error) {
	args := m.Called(ctx, taskName, params, fwSpec)

	var action *tasks.Action
	if args.Get(0) != nil {
		action = args.Get(0).(*tasks.Action)
	}
	var meta *launches.LaunchMeta
	if args.Get(1) != nil {
		meta = args.Get(1).(*launches.LaunchMeta)
	}
	return action, meta, args.Error(2)
}

func (m *MockTaskLaunchService) ListTasks() map[string][]string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string][]string)
}

// MockLaunchMetadataService is a mock implementation of LaunchMetadataService
type MockLaunchMetadataService struct {
	mock.Mock
}

func (m *MockLaunchMetadataService) List(ctx context.Context, query *launches.LaunchQuery) ([]*launches.LaunchMeta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*launches.LaunchMeta), args.Error(1)
}

func (m *MockLaunchMetadataService) GetByID(ctx context.Context, launchID string) (*launches.LaunchMeta, error) {
	args := m.Called(ctx, launchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*launches.LaunchMeta), args.Error(1)
}

func (m *MockLaunchMetadataService) DeleteByID(ctx context.Context, launchID string) error {
	args := m.Called(ctx, launchID)
	return args.Error(0)
}
