package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/watch"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

var (
	watchIsolate  bool
	watchExisting bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep a directory indexed",
	Long: `Watch a directory and keep its files indexed.

New files are ingested under a fresh doc_id. Modified files are deleted
and re-ingested. Removed files are deleted from both indexes. Hidden
files and subdirectories are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchIsolate, "isolate", false, "continue past per-page PDF failures")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", true, "ingest files already in the directory")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	closeRuntime, err := ensureRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime()
	if ingestService == nil || documentService == nil {
		return errors.New("ingest service not configured")
	}

	policy := domain.FailurePolicy("")
	if watchIsolate {
		policy = domain.FailurePolicyIsolate
	}

	watcher := watch.New(args[0])
	defer watcher.Close()
	syncer := watch.NewSyncer(ingestService, documentService, policy)

	if watchExisting {
		paths, err := watcher.Existing()
		if err != nil {
			return err
		}
		for _, path := range paths {
			if err := syncer.Apply(ctx, watch.Change{Type: watch.ChangeCreated, Path: path}); err != nil {
				logger.Error("%v", err)
			}
		}
	}

	changes, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", watcher.Root())
	syncer.Run(ctx, changes)
	return nil
}
