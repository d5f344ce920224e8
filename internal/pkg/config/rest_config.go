package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// RestConfig aggregates the settings of the REST service: server port,
// launch directory root, enabled task package namespaces and the
// nested logger, database and dataset server settings.
type RestConfig struct {
	Port          string                `mapstructure:"port" validate:"required"`
	LaunchRoot    string                `mapstructure:"launch_root" validate:"required"`
	TaskPackages  []string              `mapstructure:"task_packages" validate:"required,min=1"`
	Logger        LoggerSettings        `mapstructure:"logger"`
	Database      DatabaseSettings      `mapstructure:"database"`
	DatasetServer DatasetServerSettings `mapstructure:"dataset_server"`
}

// Validate checks that all fields in RestConfig are valid
func (c *RestConfig) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed for RestConfig: %w", err)
	}
	return nil
}

// InitializeRestConfig loads the REST service configuration from a
// YAML file, applying defaults and JLHFW_* environment overrides.
func InitializeRestConfig(configPath string) (*RestConfig, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("JLHFW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("launch_root", "launches")
	v.SetDefault("task_packages", []string{"jlhfw.firetasks"})
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", ":memory:")
	v.SetDefault("database.db_name", "jlhfw")
	v.SetDefault("dataset_server.timeout_seconds", 30)
	v.SetDefault("dataset_server.verify_ssl", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := &RestConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
