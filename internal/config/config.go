package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration shared by every binary.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// Batch input/output
	DataDir    string `env:"DATA_DIR" envDefault:"scraped_data_async"`
	OutPath    string `env:"OUT_PATH" envDefault:"slices.jsonl.gz" validate:"required"`
	IncludePDF bool   `env:"INCLUDE_PDF" envDefault:"false"`
	NumWorkers int    `env:"NUM_WORKERS" envDefault:"0" validate:"gte=0"` // 0 means one per CPU

	// Splitting
	MaxTokens           int    `env:"MAX_TOKENS" envDefault:"450" validate:"gte=1"`
	MaxObjectLen        int    `env:"MAX_OBJECT_LEN" envDefault:"1200" validate:"gte=1"` // simple splitter ceiling and strategy threshold
	MaxSectionLength    int    `env:"MAX_SECTION_LENGTH" envDefault:"1000" validate:"gte=1"`
	OverlapPercent      int    `env:"OVERLAP_PERCENT" envDefault:"10" validate:"gte=0,lt=100"`
	SentenceSearchLimit int    `env:"SENTENCE_SEARCH_LIMIT" envDefault:"100" validate:"gte=1"`
	MaxImages           int    `env:"MAX_IMAGES" envDefault:"3" validate:"gte=0"`
	TokenCounter        string `env:"TOKEN_COUNTER" envDefault:"tiktoken" validate:"oneof=tiktoken words"`
	EncodingModel       string `env:"ENCODING_MODEL" envDefault:"text-embedding-ada-002"`

	// Cache
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	// Store
	DBURL           string `env:"DB_URL"`
	SliceFile       string `env:"SLICE_FILE" envDefault:"slices.jsonl.gz"`
	UploadBatchSize int    `env:"UPLOAD_BATCH_SIZE" envDefault:"500" validate:"gte=1"`

	// Queue & HTTP
	QueueURL      string `env:"QUEUE_URL"`
	Port          int    `env:"PORT" envDefault:"8080"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Validate checks value ranges of the loaded configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Workers returns the batch worker count, resolving 0 to the CPU count.
func (c Config) Workers() int {
	if c.NumWorkers > 0 {
		return c.NumWorkers
	}
	return runtime.NumCPU()
}
