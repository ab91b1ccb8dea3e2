package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/harvest-labs/agrolens-cli/internal/logger"
)

// settleDelay gives the writing process time to finish before the new
// file is read for indexing.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Watch a folder and index new data files",
	Long: `Watches a folder and indexes supported files (CSV, TXT, PDF) as they
appear. A failure on one file is reported and does not stop the watcher.
Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if datasetService == nil || indexingService == nil {
		return errors.New("indexing service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a folder", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for new data files. Press Ctrl-C to stop.\n", dir)
	return watchLoop(ctx, cmd, watcher)
}

func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nWatcher stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if _, supported := fileTypeOf(event.Name); !supported {
				logger.Debug("Ignoring %s", event.Name)
				continue
			}

			time.Sleep(settleDelay)

			ds, err := indexFile(ctx, event.Name, "")
			if err != nil {
				cmd.Printf("  %s: %v\n", event.Name, err)
				continue
			}
			cmd.Printf("  %s indexed (dataset %s)\n", ds.Name, ds.ID)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
