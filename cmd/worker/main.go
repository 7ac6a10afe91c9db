package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"page-slicer/internal/app"
	"page-slicer/internal/httputil"
	"page-slicer/internal/loader"
	"page-slicer/internal/queue"
)

func main() {
	deps, err := app.Build(app.WithStore, app.WithQueue)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()
	deps.Log.Info("slice worker starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeSlice, func(ctx context.Context, task queue.Task) error {
			return handleSlice(ctx, deps, task)
		})
	})

	g.Go(func() error {
		return httputil.ServeHealth(ctx, deps.Log, deps.Config.Port, "worker")
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("slice worker stopped", "err", err)
	}
}

// handleSlice slices the document carried by task and saves its records.
func handleSlice(ctx context.Context, deps app.Deps, task queue.Task) error {
	payload, err := queue.DecodeSlice(task)
	if err != nil {
		return err
	}
	log := deps.Log.With("task_id", task.ID, "document", payload.Name)

	doc := loader.NewDocument(payload.Name, payload.Metadata, payload.Text)
	recs, cached, err := deps.Runner.Document(ctx, doc)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		log.Info("document produced no slices")
		return nil
	}

	stats, err := deps.Store.SaveSlices(ctx, recs)
	if err != nil {
		return err
	}
	log.Info("document sliced", "slices", stats.Slices, "pages", stats.Pages, "cached", cached)
	return nil
}
