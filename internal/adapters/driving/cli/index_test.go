package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [path]", indexCmd.Use)
}

func TestIndexCmd_Short(t *testing.T) {
	assert.Equal(t, "Index a data file or folder", indexCmd.Short)
}

func TestIndexCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIndexCmd_ErrorsWithoutServices(t *testing.T) {
	oldDataset := datasetService
	oldIndexing := indexingService
	datasetService = nil
	indexingService = nil
	defer func() {
		datasetService = oldDataset
		indexingService = oldIndexing
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "somewhere.csv"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestIndexCmd_IndexesCSVFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	path := writeTestFile(t, dir, "crops.csv", "crop,state,2020\nrice,punjab,100\nwheat,haryana,200\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed crops")

	dsMock := datasetService.(*mockDatasetService)
	require.Len(t, dsMock.datasets, 1)
	assert.Equal(t, "crops", dsMock.datasets[0].Name)
	assert.Equal(t, domain.FileTypeCSV, dsMock.datasets[0].FileType)

	idxMock := indexingService.(*mockIndexingService)
	chunks := idxMock.indexed["ds-1"]
	// Two row chunks plus the summary chunk.
	require.Len(t, chunks, 3)
	assert.Contains(t, chunks[0].Content, "rice")
}

func TestIndexCmd_IndexesTXTFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	path := writeTestFile(t, dir, "soil_notes.txt", "Alluvial soil suits rice. Black soil suits cotton.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)

	dsMock := datasetService.(*mockDatasetService)
	require.Len(t, dsMock.datasets, 1)
	assert.Equal(t, "soil_notes", dsMock.datasets[0].Name)
	assert.Equal(t, domain.FileTypeTXT, dsMock.datasets[0].FileType)

	idxMock := indexingService.(*mockIndexingService)
	require.NotEmpty(t, idxMock.indexed["ds-1"])
	assert.Contains(t, idxMock.indexed["ds-1"][0].Content, "Alluvial soil")
}

func TestIndexCmd_NameFlagOverridesFileName(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	path := writeTestFile(t, dir, "raw.csv", "crop,yield\nrice,10\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--name", "Crop Production", path})
	defer func() {
		rootCmd.SetArgs(nil)
		indexName = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)

	dsMock := datasetService.(*mockDatasetService)
	require.Len(t, dsMock.datasets, 1)
	assert.Equal(t, "Crop Production", dsMock.datasets[0].Name)
}

func TestIndexCmd_UnsupportedExtension(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	path := writeTestFile(t, dir, "photo.png", "not really an image")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIndexCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", filepath.Join(t.TempDir(), "absent.csv")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestIndexCmd_IndexesFolder(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	writeTestFile(t, dir, "crops.csv", "crop,yield\nrice,10\n")
	writeTestFile(t, dir, "notes.txt", "Monsoon arrived early this year.")
	writeTestFile(t, dir, "ignore.json", `{"not": "supported"}`)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", dir})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed 2 file(s), 0 failed.")

	dsMock := datasetService.(*mockDatasetService)
	assert.Len(t, dsMock.datasets, 2)
}

func TestIndexCmd_FolderFailureIsIsolated(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	// Header-only CSV fails row reading; the text file still indexes.
	writeTestFile(t, dir, "empty.csv", "")
	writeTestFile(t, dir, "notes.txt", "Monsoon arrived early this year.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", dir})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed 1 file(s), 1 failed.")
}

func TestFileTypeOf(t *testing.T) {
	tests := []struct {
		path     string
		fileType domain.FileType
		ok       bool
	}{
		{"data.csv", domain.FileTypeCSV, true},
		{"data.CSV", domain.FileTypeCSV, true},
		{"notes.txt", domain.FileTypeTXT, true},
		{"report.pdf", domain.FileTypePDF, true},
		{"photo.png", "", false},
		{"no-extension", "", false},
	}

	for _, tt := range tests {
		fileType, ok := fileTypeOf(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.fileType, fileType, tt.path)
	}
}
