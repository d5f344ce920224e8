// Package main is the entry point for the jlhfw-cli application.
// It initializes the root command and registers the task execution and
// dataset lookup sub-commands, then executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/jotelha/jlhfw/cmd/jlhfw-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "jlhfw-cli",
		Short: "Workflow task execution CLI tool",
		Long: `jlhfw-cli is a command-line tool for running workflow tasks outside
the execution engine. It runs recovery and dataset tasks against a
firework spec read from local JSON files and prints the resulting
action, and it queries a dataset lookup server for readme documents,
item manifests and raw item content.`,
	}

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	// Register task execution commands
	if err := commands.InitLaunchCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize launch commands: %w", err)
	}

	// Register dataset lookup commands
	if err := commands.InitDatasetCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize dataset commands: %w", err)
	}

	// Register launch ledger commands
	if err := commands.InitLedgerCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize ledger commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}
