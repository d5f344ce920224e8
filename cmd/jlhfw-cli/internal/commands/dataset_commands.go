package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// DatasetCommandHandler encapsulates logic for querying the dataset
// lookup server via CLI.
type DatasetCommandHandler struct {
	logger logger.Logger
}

// NewDatasetCommandHandler initializes and returns a DatasetCommandHandler
// instance with a configured logger.
func NewDatasetCommandHandler() (*DatasetCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &DatasetCommandHandler{
		logger: loggerInstance,
	}, nil
}

// printDocument writes a document as indented JSON to stdout or a file
func (commandHandler *DatasetCommandHandler) printDocument(doc any, outputFile string) {
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, encoded, 0600); err != nil {
			commandHandler.logger.Error(err)
			return
		}
		commandHandler.logger.Info("Document saved to ", outputFile)
		return
	}

	fmt.Println(string(encoded))
}

// ReadmeCmd fetches and prints a dataset's readme document
func (commandHandler *DatasetCommandHandler) ReadmeCmd(cmd *cobra.Command, _ []string) {
	uri, err := cmd.Flags().GetString("uri")
	if err != nil {
		commandHandler.logger.Error("invalid uri flag ", err)
		return
	}

	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}

	datasetConnector, err := datasetConnectorFromFlags(cmd, commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	readme, err := datasetConnector.Readme(context.Background(), uri)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.printDocument(readme, outputFile)
}

// ManifestCmd fetches and prints a dataset's item manifest
func (commandHandler *DatasetCommandHandler) ManifestCmd(cmd *cobra.Command, _ []string) {
	uri, err := cmd.Flags().GetString("uri")
	if err != nil {
		commandHandler.logger.Error("invalid uri flag ", err)
		return
	}

	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}

	datasetConnector, err := datasetConnectorFromFlags(cmd, commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	manifest, err := datasetConnector.Manifest(context.Background(), uri)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.printDocument(manifest.Document(), outputFile)
}

// FetchItemCmd downloads a single dataset item to a local file
func (commandHandler *DatasetCommandHandler) FetchItemCmd(cmd *cobra.Command, _ []string) {
	uri, err := cmd.Flags().GetString("uri")
	if err != nil {
		commandHandler.logger.Error("invalid uri flag ", err)
		return
	}

	itemID, err := cmd.Flags().GetString("item-id")
	if err != nil {
		commandHandler.logger.Error("invalid item-id flag ", err)
		return
	}

	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}
	if outputFile == "" {
		commandHandler.logger.Error("output-file flag is required")
		return
	}

	datasetConnector, err := datasetConnectorFromFlags(cmd, commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	written, err := datasetConnector.FetchItem(context.Background(), uri, itemID, outputFile)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Fetched ", written, " bytes to ", outputFile)
}

// InitDatasetCommands registers dataset lookup commands
func InitDatasetCommands(rootCmd *cobra.Command) error {
	handler, err := NewDatasetCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create dataset command handler %w", err)
	}

	var readmeCmd = &cobra.Command{
		Use:   "dataset-readme",
		Short: "Fetch a dataset's readme document",
		Run:   handler.ReadmeCmd,
	}
	readmeCmd.Flags().StringP("uri", "", "", "Dataset URI")
	readmeCmd.Flags().StringP("output-file", "", "", "Path the readme is written to (default stdout)")
	addDatasetServerFlags(readmeCmd)
	rootCmd.AddCommand(readmeCmd)

	var manifestCmd = &cobra.Command{
		Use:   "dataset-manifest",
		Short: "Fetch a dataset's item manifest",
		Run:   handler.ManifestCmd,
	}
	manifestCmd.Flags().StringP("uri", "", "", "Dataset URI")
	manifestCmd.Flags().StringP("output-file", "", "", "Path the manifest is written to (default stdout)")
	addDatasetServerFlags(manifestCmd)
	rootCmd.AddCommand(manifestCmd)

	var fetchItemCmd = &cobra.Command{
		Use:   "dataset-fetch",
		Short: "Download a single dataset item",
		Run:   handler.FetchItemCmd,
	}
	fetchItemCmd.Flags().StringP("uri", "", "", "Dataset URI")
	fetchItemCmd.Flags().StringP("item-id", "", "", "Item id within the dataset manifest")
	fetchItemCmd.Flags().StringP("output-file", "", "", "Path the item is written to")
	addDatasetServerFlags(fetchItemCmd)
	rootCmd.AddCommand(fetchItemCmd)

	return nil
}
