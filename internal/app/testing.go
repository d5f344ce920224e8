//go:build integration
// +build integration

package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
	"github.com/jotelha/jlhfw/internal/infrastructure/persistence"
	"github.com/jotelha/jlhfw/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// TestTaskPackage is the namespace test tasks are registered under
const TestTaskPackage = "jlhfw.testtasks"

// echoTask copies its params into stored data, or fails on demand when
// params carry "fail": true.
type echoTask struct {
	params spec.Spec
}

func (t *echoTask) Name() string { return "EchoTask" }

func (t *echoTask) RunTask(_ context.Context, _ spec.Spec) (*tasks.Action, error) {
	if fail, _ := t.params["fail"].(bool); fail {
		return nil, fmt.Errorf("echo task told to fail")
	}
	return &tasks.Action{StoredData: spec.Spec{"params": map[string]any(t.params)}}, nil
}

// RegisterEchoTask registers the echo test task with automatic cleanup
func RegisterEchoTask(t *testing.T) {
	t.Helper()

	tasks.Register(TestTaskPackage, "EchoTask", func(params spec.Spec) (tasks.FireTask, error) {
		return &echoTask{params: params}, nil
	})
	t.Cleanup(func() {
		tasks.Unregister(TestTaskPackage)
	})
}

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	TaskLaunchService     launches.TaskLaunchService
	LaunchMetadataService launches.LaunchMetadataService

	// Infrastructure
	DBContext *persistence.TestContext
}

// SetupTestServices initializes all application services for integration tests
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)

	// Setup database
	dbContext := persistence.SetupTestDB(t, dbType)

	// Setup task registry with the echo test task
	RegisterEchoTask(t)
	registry := tasks.NewRegistry([]string{TestTaskPackage})

	taskLaunchService, err := NewTaskLaunchService(registry, dbContext.LaunchRepo, t.TempDir(), logger)
	require.NoError(t, err, "Failed to create TaskLaunchService")

	launchMetadataService, err := NewLaunchMetadataService(dbContext.LaunchRepo, logger)
	require.NoError(t, err, "Failed to create LaunchMetadataService")

	return &TestServices{
		TaskLaunchService:     taskLaunchService,
		LaunchMetadataService: launchMetadataService,
		DBContext:             dbContext,
	}
}
