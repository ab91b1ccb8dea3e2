package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage indexed datasets",
	Long:  `Commands for listing and removing indexed datasets.`,
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed datasets",
	RunE:  runDatasetsList,
}

var datasetsRemoveCmd = &cobra.Command{
	Use:   "remove [dataset-id]",
	Short: "Remove a dataset and its indexed chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsRemove,
}

func init() {
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsRemoveCmd)
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasetsList(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	datasets, err := datasetService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}

	if len(datasets) == 0 {
		cmd.Println("No datasets indexed.")
		return nil
	}

	cmd.Println("Indexed datasets:")
	cmd.Println()
	for i := range datasets {
		ds := &datasets[i]
		cmd.Printf("  %s  %s (%s, %s)\n", ds.ID, ds.Name, ds.FileType, ds.Status)
		cmd.Printf("      %s\n", ds.SourceLocation)
	}

	return nil
}

func runDatasetsRemove(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	id := args[0]
	if err := datasetService.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("remove dataset %s: %w", id, err)
	}

	cmd.Printf("Dataset %s removed.\n", id)
	return nil
}
