package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jotelha/jlhfw/internal/domain/datasets"
	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
	"github.com/jotelha/jlhfw/internal/firetasks"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// LaunchCommandHandler encapsulates logic for running tasks via CLI.
type LaunchCommandHandler struct {
	logger logger.Logger
}

// NewLaunchCommandHandler initializes and returns a LaunchCommandHandler
// instance with a configured logger.
func NewLaunchCommandHandler() (*LaunchCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &LaunchCommandHandler{
		logger: loggerInstance,
	}, nil
}

// readDocumentFile loads a JSON document from a file path, returning an
// empty document for an empty path.
func readDocumentFile(path string) (spec.Spec, error) {
	if path == "" {
		return spec.Spec{}, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return spec.Spec(doc), nil
}

// RunTaskCmd runs a single task against a firework spec and prints the
// resulting action
func (commandHandler *LaunchCommandHandler) RunTaskCmd(cmd *cobra.Command, _ []string) {
	taskName, err := cmd.Flags().GetString("task")
	if err != nil {
		commandHandler.logger.Error("invalid task flag ", err)
		return
	}

	paramsFile, err := cmd.Flags().GetString("params-file")
	if err != nil {
		commandHandler.logger.Error("invalid params-file flag ", err)
		return
	}

	fwSpecFile, err := cmd.Flags().GetString("fw-spec-file")
	if err != nil {
		commandHandler.logger.Error("invalid fw-spec-file flag ", err)
		return
	}

	launchDir, err := cmd.Flags().GetString("launch-dir")
	if err != nil {
		commandHandler.logger.Error("invalid launch-dir flag ", err)
		return
	}

	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}

	params, err := readDocumentFile(paramsFile)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	fwSpec, err := readDocumentFile(fwSpecFile)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	// Dataset tasks need a connector; the flag is optional for tasks
	// that work purely on the local filesystem.
	var datasetConnector datasets.DatasetConnector
	if lookupURL, _ := cmd.Flags().GetString("lookup-url"); lookupURL != "" {
		datasetConnector, err = datasetConnectorFromFlags(cmd, commandHandler.logger)
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
	}

	firetasks.Register(firetasks.Deps{
		Datasets: datasetConnector,
		Logger:   commandHandler.logger,
	})
	registry := tasks.NewRegistry([]string{firetasks.Package})

	task, err := registry.New(taskName, params)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	ctx := context.Background()
	if launchDir != "" {
		ctx = tasks.WithLaunchDir(ctx, launchDir)
	}

	action, err := task.RunTask(ctx, fwSpec)
	if err != nil {
		commandHandler.logger.Error("task ", taskName, " fizzled: ", err)
		return
	}

	encoded, err := json.MarshalIndent(action, "", "  ")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, encoded, 0600); err != nil {
			commandHandler.logger.Error(err)
			return
		}
		commandHandler.logger.Info("Action saved to ", outputFile)
		return
	}

	fmt.Println(string(encoded))
}

// ListTasksCmd prints the registered task names grouped by package
func (commandHandler *LaunchCommandHandler) ListTasksCmd(_ *cobra.Command, _ []string) {
	firetasks.Register(firetasks.Deps{
		Logger: commandHandler.logger,
	})
	registry := tasks.NewRegistry([]string{firetasks.Package})

	for pkg, names := range registry.Tasks() {
		for _, name := range names {
			fmt.Printf("%s.%s\n", pkg, name)
		}
	}
}

// InitLaunchCommands registers task execution commands
func InitLaunchCommands(rootCmd *cobra.Command) error {
	handler, err := NewLaunchCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create launch command handler %w", err)
	}

	var runTaskCmd = &cobra.Command{
		Use:   "launch",
		Short: "Run a single task against a firework spec",
		Run:   handler.RunTaskCmd,
	}
	runTaskCmd.Flags().StringP("task", "", "", "Name of the task to run")
	runTaskCmd.Flags().StringP("params-file", "", "", "Path to a JSON file with task parameters")
	runTaskCmd.Flags().StringP("fw-spec-file", "", "", "Path to a JSON file with the firework spec")
	runTaskCmd.Flags().StringP("launch-dir", "", "", "Directory the task runs in (default current directory)")
	runTaskCmd.Flags().StringP("output-file", "", "", "Path the resulting action is written to (default stdout)")
	addDatasetServerFlags(runTaskCmd)
	rootCmd.AddCommand(runTaskCmd)

	var listTasksCmd = &cobra.Command{
		Use:   "list-tasks",
		Short: "List the registered task names",
		Run:   handler.ListTasksCmd,
	}
	rootCmd.AddCommand(listTasksCmd)

	return nil
}
