//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchPsqlRepository_CreateAndList(t *testing.T) {
	ctx := SetupTestDB(t, config.PostgresDbType)

	completed := CreateTestLaunch(t, "RecoverTask")
	fizzled := CreateFizzledTestLaunch(t, "FetchItemTask", "item not found")

	require.NoError(t, ctx.LaunchRepo.Create(context.Background(), completed))
	require.NoError(t, ctx.LaunchRepo.Create(context.Background(), fizzled))

	query := launches.NewLaunchQuery()
	list, err := ctx.LaunchRepo.List(context.Background(), query)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestLaunchPsqlRepository_DeleteByID(t *testing.T) {
	ctx := SetupTestDB(t, config.PostgresDbType)

	launch := CreateTestLaunch(t, "RecoverTask")
	require.NoError(t, ctx.LaunchRepo.Create(context.Background(), launch))

	require.NoError(t, ctx.LaunchRepo.DeleteByID(context.Background(), launch.ID))

	_, err := ctx.LaunchRepo.GetByID(context.Background(), launch.ID)
	assert.Error(t, err)
}
