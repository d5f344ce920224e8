package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/infrastructure/persistence"
	"github.com/jotelha/jlhfw/internal/pkg/config"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// LedgerCommandHandler encapsulates logic for reading the launch ledger
// via CLI.
type LedgerCommandHandler struct {
	logger logger.Logger
}

// NewLedgerCommandHandler initializes and returns a LedgerCommandHandler
// instance with a configured logger.
func NewLedgerCommandHandler() (*LedgerCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &LedgerCommandHandler{
		logger: loggerInstance,
	}, nil
}

// ListLaunchesCmd lists recorded launches from the ledger database
func (commandHandler *LedgerCommandHandler) ListLaunchesCmd(cmd *cobra.Command, _ []string) {
	dbType, err := cmd.Flags().GetString("db-type")
	if err != nil {
		commandHandler.logger.Error("invalid db-type flag ", err)
		return
	}

	dbDSN, err := cmd.Flags().GetString("db-dsn")
	if err != nil {
		commandHandler.logger.Error("invalid db-dsn flag ", err)
		return
	}

	dbName, err := cmd.Flags().GetString("db-name")
	if err != nil {
		commandHandler.logger.Error("invalid db-name flag ", err)
		return
	}

	taskName, err := cmd.Flags().GetString("task-name")
	if err != nil {
		commandHandler.logger.Error("invalid task-name flag ", err)
		return
	}

	state, err := cmd.Flags().GetString("state")
	if err != nil {
		commandHandler.logger.Error("invalid state flag ", err)
		return
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		commandHandler.logger.Error("invalid limit flag ", err)
		return
	}

	settings := config.DatabaseSettings{
		Type:   dbType,
		DSN:    dbDSN,
		DBName: dbName,
	}
	if err := settings.Validate(); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	db, err := persistence.NewDBConnection(settings)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() {
		if err := persistence.CloseDB(db); err != nil {
			commandHandler.logger.Error("failed to close database ", err)
		}
	}()

	launchRepo, err := persistence.NewGormLaunchRepository(db, commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	query := launches.NewLaunchQuery()
	query.TaskName = taskName
	query.State = state
	query.Limit = limit
	if err := query.Validate(); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	launchMetas, err := launchRepo.List(context.Background(), query)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	encoded, err := json.MarshalIndent(launchMetas, "", "  ")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	fmt.Println(string(encoded))
}

// InitLedgerCommands registers launch ledger commands
func InitLedgerCommands(rootCmd *cobra.Command) error {
	handler, err := NewLedgerCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create ledger command handler %w", err)
	}

	var listLaunchesCmd = &cobra.Command{
		Use:   "list-launches",
		Short: "List recorded launches from the ledger database",
		Run:   handler.ListLaunchesCmd,
	}
	listLaunchesCmd.Flags().StringP("db-type", "", config.SqliteDbType, "Database type (sqlite or postgres)")
	listLaunchesCmd.Flags().StringP("db-dsn", "", "jlhfw.db", "Database DSN")
	listLaunchesCmd.Flags().StringP("db-name", "", "jlhfw", "Database name")
	listLaunchesCmd.Flags().StringP("task-name", "", "", "Filter by task name")
	listLaunchesCmd.Flags().StringP("state", "", "", "Filter by launch state (COMPLETED or FIZZLED)")
	listLaunchesCmd.Flags().IntP("limit", "", 10, "Maximum number of records")
	rootCmd.AddCommand(listLaunchesCmd)

	return nil
}
