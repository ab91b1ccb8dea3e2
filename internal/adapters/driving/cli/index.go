package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

var indexName string

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a data file or folder",
	Long: `Indexes a CSV, TXT or PDF file so its content becomes queryable.
When given a folder, every supported file in it is indexed; a failure on
one file does not stop the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexName, "name", "", "dataset name (defaults to the file name)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if datasetService == nil || indexingService == nil {
		return errors.New("indexing service not configured")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	ctx := context.Background()

	if info.IsDir() {
		return indexFolder(ctx, cmd, path)
	}

	ds, err := indexFile(ctx, path, indexName)
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %s (dataset %s)\n", ds.Name, ds.ID)
	return nil
}

// indexFolder indexes every supported file in the folder. Per-file
// failures are reported and skipped.
func indexFolder(ctx context.Context, cmd *cobra.Command, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read folder %s: %w", dir, err)
	}

	indexed := 0
	failed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, ok := fileTypeOf(path); !ok {
			continue
		}

		ds, err := indexFile(ctx, path, "")
		if err != nil {
			failed++
			cmd.Printf("  %s: %v\n", entry.Name(), err)
			continue
		}
		indexed++
		cmd.Printf("  %s indexed (dataset %s)\n", ds.Name, ds.ID)
	}

	cmd.Printf("Indexed %d file(s), %d failed.\n", indexed, failed)
	return nil
}

// indexFile runs one file through the full pipeline: extract, register,
// chunk, embed, store.
func indexFile(ctx context.Context, path, name string) (*domain.Dataset, error) {
	fileType, ok := fileTypeOf(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", filepath.Ext(path), domain.ErrUnsupportedType)
	}

	content, rows, err := extractFile(ctx, path, fileType)
	if err != nil {
		return nil, err
	}

	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ds, err := datasetService.Create(ctx, name, fileType, path)
	if err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}

	chunks, err := textChunker.ForDataset(*ds, content, rows)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", name, err)
	}

	if err := indexingService.Index(ctx, ds.ID, chunks); err != nil {
		return nil, fmt.Errorf("index %s: %w", name, err)
	}

	return ds, nil
}

// extractFile loads the raw material the chunker needs: rows for CSV,
// text for everything else.
func extractFile(ctx context.Context, path string, fileType domain.FileType) (string, []domain.Row, error) {
	switch fileType {
	case domain.FileTypeCSV:
		rows, err := rowReader.ReadRows(ctx, path)
		if err != nil {
			return "", nil, fmt.Errorf("read rows: %w", err)
		}
		return "", rows, nil

	case domain.FileTypeTXT:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil, fmt.Errorf("read file: %w", err)
		}
		return string(data), nil, nil

	case domain.FileTypePDF:
		text, err := pdfExtractor.Extract(ctx, path)
		if err != nil {
			return "", nil, fmt.Errorf("extract text: %w", err)
		}
		return text, nil, nil

	default:
		return "", nil, fmt.Errorf("%s: %w", fileType, domain.ErrUnsupportedType)
	}
}

// fileTypeOf maps a file extension to a dataset file type.
func fileTypeOf(path string) (domain.FileType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return domain.FileTypeCSV, true
	case ".txt":
		return domain.FileTypeTXT, true
	case ".pdf":
		return domain.FileTypePDF, true
	default:
		return "", false
	}
}
