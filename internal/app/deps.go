package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"page-slicer/internal/batch"
	"page-slicer/internal/cache"
	"page-slicer/internal/chunker"
	"page-slicer/internal/config"
	"page-slicer/internal/logger"
	"page-slicer/internal/queue"
	"page-slicer/internal/store"
)

// Component names an optional backend a binary asks Build for.
type Component int

const (
	WithStore Component = iota
	WithQueue
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	Runner batch.Runner
	Cache  cache.Cache
	Store  store.Store
	Queue  queue.Queue
}

// Build loads env, config, and shared components. Store and queue are only
// connected when requested.
func Build(components ...Component) (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return Deps{}, err
	}
	log := logger.New(cfg.LogLevel)

	counter, err := chunker.NewCounter(cfg.TokenCounter, cfg.EncodingModel)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize token counter: %w", err)
	}
	c := buildCache(cfg, log)

	deps := Deps{
		Config: cfg,
		Log:    log,
		Cache:  c,
		Runner: NewRunner(cfg, log, counter, c),
	}
	for _, comp := range components {
		switch comp {
		case WithStore:
			st, err := buildStore(cfg, log)
			if err != nil {
				return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
			}
			deps.Store = st
		case WithQueue:
			q, err := buildQueue(cfg, log)
			if err != nil {
				return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
			}
			deps.Queue = q
		}
	}
	return deps, nil
}

// Close releases every connected backend.
func (d Deps) Close() {
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			d.Log.Warn("failed to close cache", "err", err)
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Log.Warn("failed to close store", "err", err)
		}
	}
}

// NewSelector builds the strategy selector described by cfg.
func NewSelector(cfg config.Config, counter chunker.TokenCounter) chunker.Selector {
	return chunker.Selector{
		Threshold: cfg.MaxObjectLen,
		Simple:    chunker.NewSimple(cfg.MaxObjectLen),
		Sentence: chunker.NewSentence(counter, chunker.SentenceOptions{
			MaxTokensPerSection: cfg.MaxTokens,
			MaxSectionLength:    cfg.MaxSectionLength,
			OverlapPercent:      cfg.OverlapPercent,
			SentenceSearchLimit: cfg.SentenceSearchLimit,
		}),
	}
}

// NewRunner builds the batch runner described by cfg.
func NewRunner(cfg config.Config, log *slog.Logger, counter chunker.TokenCounter, c cache.Cache) batch.Runner {
	return batch.Runner{
		Selector:  NewSelector(cfg, counter),
		Cache:     c,
		CacheTTL:  cfg.CacheTTL,
		MaxImages: cfg.MaxImages,
		Workers:   cfg.Workers(),
		Log:       log,
	}
}

func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, slice cache disabled")
		return cache.NewNoOpCache()
	}
	rc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Warn("redis unavailable, slice cache disabled", "addr", cfg.RedisAddr, "err", err)
		return cache.NewNoOpCache()
	}
	log.Info("using Redis slice cache", "addr", cfg.RedisAddr)
	return rc
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, error) {
	if cfg.DBURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}
	db, err := store.NewPostgres(cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	log.Info("using Postgres store")
	return db, nil
}

func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, error) {
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("QUEUE_URL is required")
	}
	nc, err := nats.Connect(cfg.QueueURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info("using NATS queue")
	return queue.NewNATS(log, nc), nil
}
