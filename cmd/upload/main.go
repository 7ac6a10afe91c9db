package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"page-slicer/internal/app"
	"page-slicer/internal/jsonl"
	"page-slicer/internal/retry"
	"page-slicer/internal/slices"
	"page-slicer/internal/store"
)

const (
	saveAttempts = 3
	saveBackoff  = 500 * time.Millisecond
)

func main() {
	deps, err := app.Build(app.WithStore)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := jsonl.Open(deps.Config.SliceFile)
	if err != nil {
		deps.Log.Error("failed to open slice file", "err", err)
		os.Exit(1)
	}
	defer r.Close()

	stats, err := upload(ctx, deps.Log, deps.Store, r, deps.Config.UploadBatchSize)
	if err != nil {
		deps.Log.Error("upload failed", "err", err, "slices_saved", stats.Slices)
		os.Exit(1)
	}
	deps.Log.Info("upload complete", "file", deps.Config.SliceFile, "slices", stats.Slices, "pages", stats.Pages)
}

// batchReader yields slice records in batches; io.EOF ends the stream.
type batchReader interface {
	ReadBatch(n int) ([]slices.Record, error)
}

// upload saves every record of r in batches of batchSize. Records that fail
// validation are logged and skipped.
func upload(ctx context.Context, log *slog.Logger, st store.Store, r batchReader, batchSize int) (store.Stats, error) {
	var total store.Stats
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		batch, err := r.ReadBatch(batchSize)
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("failed to read batch %d: %w", n, err)
		}

		valid := batch[:0]
		for _, rec := range batch {
			if err := rec.Validate(); err != nil {
				log.Warn("skipping invalid slice", "err", err)
				continue
			}
			valid = append(valid, rec)
		}

		var stats store.Stats
		err = retry.Do(ctx, saveAttempts, saveBackoff, func(ctx context.Context) error {
			var saveErr error
			stats, saveErr = st.SaveSlices(ctx, valid)
			return saveErr
		})
		if err != nil {
			return total, fmt.Errorf("failed to save batch %d: %w", n, err)
		}
		total = total.Add(stats)
		log.Info("batch uploaded", "batch", n, "slices", stats.Slices, "total", total.Slices)
	}
}
