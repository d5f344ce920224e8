package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotelha/jlhfw/internal/domain/datasets"
	"github.com/jotelha/jlhfw/internal/infrastructure/connector"
	"github.com/jotelha/jlhfw/internal/pkg/config"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// In commands/common.go
func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: "info",
		LogType:  "console",
		FilePath: "",
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// addDatasetServerFlags registers the dataset lookup server flags shared
// by all commands that talk to the server.
func addDatasetServerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("lookup-url", "", "", "Base URL of the dataset lookup server")
	cmd.Flags().StringP("token", "", "", "Bearer token for the dataset lookup server")
	cmd.Flags().IntP("timeout", "", 30, "Request timeout in seconds")
	cmd.Flags().BoolP("insecure", "", false, "Skip TLS certificate verification")
}

// datasetConnectorFromFlags builds a dataset connector from the shared
// dataset server flags.
func datasetConnectorFromFlags(cmd *cobra.Command, loggerInstance logger.Logger) (datasets.DatasetConnector, error) {
	baseURL, err := cmd.Flags().GetString("lookup-url")
	if err != nil {
		return nil, fmt.Errorf("invalid lookup-url flag: %w", err)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("lookup-url flag is required")
	}

	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return nil, fmt.Errorf("invalid token flag: %w", err)
	}

	timeout, err := cmd.Flags().GetInt("timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid timeout flag: %w", err)
	}

	insecure, err := cmd.Flags().GetBool("insecure")
	if err != nil {
		return nil, fmt.Errorf("invalid insecure flag: %w", err)
	}

	settings := &config.DatasetServerSettings{
		BaseURL:        baseURL,
		Token:          token,
		TimeoutSeconds: timeout,
		VerifySSL:      !insecure,
	}

	return connector.NewHTTPDatasetConnector(settings, loggerInstance)
}
