package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"page-slicer/internal/app"
	"page-slicer/internal/batch"
	"page-slicer/internal/jsonl"
	"page-slicer/internal/loader"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, deps); err != nil {
		deps.Log.Error("slicing failed", "err", err)
		os.Exit(1)
	}
}

// run slices every document under DATA_DIR and writes OUT_PATH.
func run(ctx context.Context, deps app.Deps) error {
	cfg := deps.Config
	start := time.Now()

	files, err := loader.Discover(cfg.DataDir, cfg.IncludePDF)
	if err != nil {
		return err
	}
	deps.Log.Info("documents discovered", "dir", cfg.DataDir, "files", len(files), "workers", deps.Runner.Workers)

	res, err := deps.Runner.Run(ctx, files)
	if err != nil {
		return fmt.Errorf("batch interrupted after %d documents: %w", res.Documents, err)
	}

	if err := write(cfg.OutPath, res); err != nil {
		return err
	}
	deps.Log.Info("slices written",
		"path", cfg.OutPath,
		"documents", res.Documents,
		"failed", res.Failed,
		"cached", res.Cached,
		"slices", len(res.Records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func write(path string, res batch.Result) error {
	w, err := jsonl.Create(path)
	if err != nil {
		return err
	}
	if err := w.WriteAll(res.Records); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
