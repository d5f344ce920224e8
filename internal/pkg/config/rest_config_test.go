//go:build unit
// +build unit

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rest-app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInitializeRestConfig(t *testing.T) {
	configPath := writeConfigFile(t, `
port: "9090"
launch_root: "/var/lib/jlhfw/launches"
task_packages:
  - "jlhfw.firetasks"
logger:
  log_level: "debug"
  log_type: "console"
database:
  type: "sqlite"
  dsn: "jlhfw.db"
  db_name: "jlhfw"
dataset_server:
  base_url: "https://lookup.example.org"
  timeout_seconds: 10
  verify_ssl: false
`)

	cfg, err := InitializeRestConfig(configPath)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "/var/lib/jlhfw/launches", cfg.LaunchRoot)
	require.Equal(t, []string{"jlhfw.firetasks"}, cfg.TaskPackages)
	require.Equal(t, "debug", cfg.Logger.LogLevel)
	require.Equal(t, SqliteDbType, cfg.Database.Type)
	require.Equal(t, "https://lookup.example.org", cfg.DatasetServer.BaseURL)
	require.Equal(t, 10, cfg.DatasetServer.TimeoutSeconds)
	require.False(t, cfg.DatasetServer.VerifySSL)
}

func TestInitializeRestConfig_Defaults(t *testing.T) {
	configPath := writeConfigFile(t, `
dataset_server:
  base_url: "https://lookup.example.org"
`)

	cfg, err := InitializeRestConfig(configPath)
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "launches", cfg.LaunchRoot)
	require.Equal(t, []string{"jlhfw.firetasks"}, cfg.TaskPackages)
	require.Equal(t, LogLevelInfo, cfg.Logger.LogLevel)
	require.Equal(t, SqliteDbType, cfg.Database.Type)
	require.Equal(t, 30, cfg.DatasetServer.TimeoutSeconds)
	require.True(t, cfg.DatasetServer.VerifySSL)
}

func TestInitializeRestConfig_MissingFile(t *testing.T) {
	_, err := InitializeRestConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDatasetServerSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *DatasetServerSettings
		expectedError bool
	}{
		{
			name: "valid settings",
			settings: &DatasetServerSettings{
				BaseURL:        "https://lookup.example.org",
				TimeoutSeconds: 30,
			},
			expectedError: false,
		},
		{
			name:          "missing base url",
			settings:      &DatasetServerSettings{TimeoutSeconds: 30},
			expectedError: true,
		},
		{
			name: "invalid base url",
			settings: &DatasetServerSettings{
				BaseURL: "not a url",
			},
			expectedError: true,
		},
		{
			name: "negative timeout",
			settings: &DatasetServerSettings{
				BaseURL:        "https://lookup.example.org",
				TimeoutSeconds: -1,
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
