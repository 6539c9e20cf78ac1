package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sheetqa/internal/golden"
)

var updateSetWatch bool

// updateSetCmd ingests a directory of batch-approved candidates into the
// golden set, either as a one-shot scan or as a watch loop.
var updateSetCmd = &cobra.Command{
	Use:   "update-set [batchDir]",
	Short: "Update the golden set from a batch-approved directory",
	Long: `Scans a directory of candidate subdirectories, each containing a
metadata.json (configId, qualityScores, approvalInfo) plus worksheet.pdf
and optionally worksheet.html, and creates a golden reference from every
structurally valid one. Malformed candidates are skipped silently.

With --watch the directory is monitored and new candidates are ingested
as they land; a candidate is picked up once both its metadata.json and
worksheet.pdf exist.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batchDir := args[0]
		if updateSetWatch {
			return watchBatchDir(batchDir)
		}

		count, err := app.manager.UpdateGoldenSet(batchDir)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("%s %d golden reference(s) created or updated\n", okMark(), count)
		return nil
	},
}

func init() {
	updateSetCmd.Flags().BoolVar(&updateSetWatch, "watch", false, "keep watching for new candidates")
}

// watchBatchDir ingests existing candidates, then watches for new ones
// until interrupted. Ingestion is tracked per candidate directory so a
// reference is not re-versioned every time the directory is touched.
func watchBatchDir(batchDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fail(fmt.Errorf("start watcher: %w", err))
	}
	defer watcher.Close()

	if err := watcher.Add(batchDir); err != nil {
		return fail(fmt.Errorf("watch %s: %w", batchDir, err))
	}

	ingested := make(map[string]bool)
	scan := func() {
		entries, err := os.ReadDir(batchDir)
		if err != nil {
			logger.Warn("batch dir scan failed", zap.Error(err))
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() || ingested[entry.Name()] {
				continue
			}
			dir := filepath.Join(batchDir, entry.Name())
			ref, err := app.manager.IngestCandidate(dir)
			if errors.Is(err, golden.ErrMalformedCandidate) {
				// Probably still being written; retry on the next event.
				continue
			}
			if err != nil {
				logger.Warn("candidate ingest failed", zap.String("dir", dir), zap.Error(err))
				continue
			}
			ingested[entry.Name()] = true
			fmt.Printf("%s ingested %s as %s v%s\n",
				okMark(), entry.Name(), ref.Metadata.ReferenceID, ref.Metadata.Version)
		}
	}

	scan()
	fmt.Printf("%s watching %s for new candidates (ctrl-c to stop)\n",
		headerStyle.Render("▸"), batchDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Debounce bursts of events from multi-file candidate drops.
	var pending <-chan time.Time
	for {
		select {
		case _, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			pending = time.After(200 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-pending:
			pending = nil
			scan()
		case <-sigCh:
			fmt.Println(mutedStyle.Render("stopping watch"))
			return nil
		}
	}
}
