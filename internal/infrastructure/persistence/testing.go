//go:build integration
// +build integration

package persistence

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/infrastructure/persistence/models"
	"github.com/jotelha/jlhfw/internal/pkg/config"
	"github.com/jotelha/jlhfw/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB         *gorm.DB
	LaunchRepo launches.LaunchRepository
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	var cleanupFunc func()

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type:   config.SqliteDbType,
			DSN:    ":memory:",
			DBName: "jlhfw_test",
		}
		cleanupFunc = func() {
			// SQLite in-memory cleanup is automatic
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type:   config.PostgresDbType,
			DSN:    "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			DBName: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	// Create connection
	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	// Register cleanup
	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	// Migrate schema
	err = db.AutoMigrate(&models.LaunchModel{})
	require.NoError(t, err, "Failed to migrate schema")

	// Create repositories
	logger := testutil.SetupTestLogger(t)

	launchRepo, err := NewGormLaunchRepository(db, logger)
	require.NoError(t, err, "Failed to create launch repository")

	return &TestContext{
		DB:         db,
		LaunchRepo: launchRepo,
	}
}

// CreateTestLaunch creates a completed launch record with default values
func CreateTestLaunch(t *testing.T, taskName string) *launches.LaunchMeta {
	t.Helper()

	if taskName == "" {
		taskName = "RecoverTask"
	}

	storedData, err := json.Marshal(map[string]any{"output": "ok"})
	require.NoError(t, err)

	now := time.Now()
	return &launches.LaunchMeta{
		ID:                uuid.NewString(),
		TaskName:          taskName,
		Package:           "jlhfw.firetasks",
		State:             launches.StateCompleted,
		LaunchDir:         "/tmp/launch-" + uuid.NewString(),
		StoredData:        storedData,
		DateTimeCreated:   now,
		DateTimeCompleted: now,
	}
}

// CreateFizzledTestLaunch creates a fizzled launch record
func CreateFizzledTestLaunch(t *testing.T, taskName, errMsg string) *launches.LaunchMeta {
	t.Helper()

	launch := CreateTestLaunch(t, taskName)
	launch.State = launches.StateFizzled
	launch.Error = errMsg
	return launch
}
