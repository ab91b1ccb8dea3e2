package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

func TestDatasetsCmd_Use(t *testing.T) {
	assert.Equal(t, "datasets", datasetsCmd.Use)
}

func TestDatasetsCmd_HasSubcommands(t *testing.T) {
	commands := datasetsCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "remove")
}

func TestDatasetsListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"datasets", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No datasets indexed.")
}

func TestDatasetsListCmd_ShowsDatasets(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	datasetService.(*mockDatasetService).datasets = []domain.Dataset{
		{
			ID:             "ds-1",
			Name:           "crop_production",
			FileType:       domain.FileTypeCSV,
			SourceLocation: "/data/crop_production.csv",
			Status:         domain.StatusReady,
			CreatedAt:      time.Now(),
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"datasets", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "crop_production")
	assert.Contains(t, buf.String(), "csv")
	assert.Contains(t, buf.String(), "ready")
	assert.Contains(t, buf.String(), "/data/crop_production.csv")
}

func TestDatasetsRemoveCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"datasets", "remove"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDatasetsRemoveCmd_RemovesDataset(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"datasets", "remove", "ds-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Dataset ds-1 removed.")
	assert.Equal(t, []string{"ds-1"}, datasetService.(*mockDatasetService).deleted)
}

func TestDatasetsRemoveCmd_PropagatesError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	datasetService.(*mockDatasetService).deleteErr = domain.ErrNotFound

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"datasets", "remove", "missing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
