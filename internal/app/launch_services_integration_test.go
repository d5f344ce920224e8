//go:build integration
// +build integration

package app

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskLaunchService_Launch(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	params := spec.Spec{"message": "hello"}
	action, meta, err := services.TaskLaunchService.Launch(context.Background(), "EchoTask", params, spec.Spec{})
	require.NoError(t, err)
	require.NotNil(t, action)
	require.NotNil(t, meta)

	assert.Equal(t, "EchoTask", meta.TaskName)
	assert.Equal(t, TestTaskPackage, meta.Package)
	assert.Equal(t, launches.StateCompleted, meta.State)

	// Launch directory was created on disk
	info, err := os.Stat(meta.LaunchDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Stored data made it into the persisted record
	fetched, err := services.LaunchMetadataService.GetByID(context.Background(), meta.ID)
	require.NoError(t, err)

	var storedData map[string]any
	require.NoError(t, json.Unmarshal(fetched.StoredData, &storedData))
	assert.Equal(t, map[string]any{"message": "hello"}, storedData["params"])
}

func TestTaskLaunchService_Launch_Fizzled(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	params := spec.Spec{"fail": true}
	action, meta, err := services.TaskLaunchService.Launch(context.Background(), "EchoTask", params, spec.Spec{})
	require.Error(t, err)
	assert.Nil(t, action)
	require.NotNil(t, meta)
	assert.Equal(t, launches.StateFizzled, meta.State)

	// The fizzled launch is recorded
	fetched, err := services.LaunchMetadataService.GetByID(context.Background(), meta.ID)
	require.NoError(t, err)
	assert.Equal(t, launches.StateFizzled, fetched.State)
	assert.Contains(t, fetched.Error, "told to fail")
}

func TestTaskLaunchService_Launch_UnknownTask(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	_, _, err := services.TaskLaunchService.Launch(context.Background(), "NoSuchTask", spec.Spec{}, spec.Spec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task")
}

func TestTaskLaunchService_ListTasks(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	listed := services.TaskLaunchService.ListTasks()
	assert.Equal(t, []string{"EchoTask"}, listed[TestTaskPackage])
}

func TestLaunchMetadataService_ListAndDelete(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	_, meta, err := services.TaskLaunchService.Launch(context.Background(), "EchoTask", spec.Spec{}, spec.Spec{})
	require.NoError(t, err)

	query := launches.NewLaunchQuery()
	list, err := services.LaunchMetadataService.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, services.LaunchMetadataService.DeleteByID(context.Background(), meta.ID))

	_, err = services.LaunchMetadataService.GetByID(context.Background(), meta.ID)
	assert.Error(t, err)
}
