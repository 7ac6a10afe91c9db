// Package batch slices many documents concurrently and collects their records.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"page-slicer/internal/cache"
	"page-slicer/internal/chunker"
	"page-slicer/internal/loader"
	"page-slicer/internal/slices"
)

// Runner turns document files into slice records.
type Runner struct {
	Selector chunker.Selector
	// Load reads one file; loader.Load when nil.
	Load      func(path string) (loader.Document, error)
	Cache     cache.Cache
	CacheTTL  time.Duration
	MaxImages int
	// Workers bounds the documents processed at once; NumCPU when zero.
	Workers int
	Log     *slog.Logger
}

// Result summarises a batch run. Records follow the order of the input files.
type Result struct {
	Documents int
	Failed    int
	Cached    int
	Records   []slices.Record
}

type outcome struct {
	records []slices.Record
	cached  bool
	err     error
}

// Run slices every file. A file that fails to load or slice is logged and
// counted in Result.Failed; it never stops the batch. When ctx is cancelled
// no further files are started and ctx.Err() is returned along with what
// finished.
func (r Runner) Run(ctx context.Context, files []string) (Result, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	outcomes := make([]*outcome, len(files))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			recs, cached, err := r.File(ctx, path)
			outcomes[i] = &outcome{records: recs, cached: cached, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var res Result
	for i, o := range outcomes {
		if o == nil {
			continue
		}
		res.Documents++
		if o.err != nil {
			res.Failed++
			r.log().Error("failed to slice document", "file", files[i], "err", o.err)
			continue
		}
		if o.cached {
			res.Cached++
		}
		res.Records = append(res.Records, o.records...)
	}
	if res.Records == nil {
		res.Records = []slices.Record{}
	}
	return res, ctx.Err()
}

// File loads and slices a single file.
func (r Runner) File(ctx context.Context, path string) ([]slices.Record, bool, error) {
	load := r.Load
	if load == nil {
		load = loader.Load
	}
	doc, err := load(path)
	if err != nil {
		return nil, false, err
	}
	return r.Document(ctx, doc)
}

// Document slices doc, consulting the cache first. The bool result reports
// a cache hit.
func (r Runner) Document(ctx context.Context, doc loader.Document) ([]slices.Record, bool, error) {
	log := r.log().With("document", doc.Name)

	key, err := r.key(doc)
	if err != nil {
		return nil, false, err
	}
	if r.Cache != nil {
		recs, ok, err := r.Cache.GetSlices(ctx, key)
		if err != nil {
			log.Warn("cache lookup failed", "err", err)
		} else if ok {
			log.Debug("slices served from cache", "slices", len(recs))
			return recs, true, nil
		}
	}

	strategy, chunks := r.Selector.Split(doc.Pages)
	recs, err := slices.Build(doc.Name, chunks, r.MaxImages)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build slices for %s: %w", doc.Name, err)
	}
	log.Debug("document sliced", "strategy", strategy, "pages", len(doc.Pages), "slices", len(recs))

	if r.Cache != nil {
		if err := r.Cache.SetSlices(ctx, key, recs, r.CacheTTL); err != nil {
			log.Warn("cache store failed", "err", err)
		}
	}
	return recs, false, nil
}

// key identifies the records of doc under the current settings.
func (r Runner) key(doc loader.Document) (string, error) {
	parts := make([][]byte, 0, 2*len(doc.Pages)+3)
	parts = append(parts,
		[]byte(r.Selector.Fingerprint()),
		[]byte(strconv.Itoa(r.MaxImages)),
		[]byte(doc.Name),
	)
	for _, p := range doc.Pages {
		m, err := json.Marshal(p.Meta)
		if err != nil {
			return "", fmt.Errorf("failed to encode metadata of %s: %w", doc.Name, err)
		}
		parts = append(parts, m, []byte(p.Text))
	}
	return cache.Key(parts...), nil
}

func (r Runner) log() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}
