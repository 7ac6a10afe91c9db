package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-slicer/internal/cache"
	"page-slicer/internal/chunker"
	"page-slicer/internal/config"
	"page-slicer/internal/logger"
)

func TestNewSelectorUsesConfig(t *testing.T) {
	cfg := config.Config{
		MaxObjectLen:        1200,
		MaxTokens:           450,
		MaxSectionLength:    1000,
		OverlapPercent:      10,
		SentenceSearchLimit: 100,
	}
	sel := NewSelector(cfg, chunker.Words{})

	assert.Equal(t, 1200, sel.Threshold)
	assert.Equal(t, 1200, sel.Simple.MaxLength)
	assert.Equal(t, 100, sel.Sentence.SectionOverlap())
	assert.Equal(t, chunker.StrategySimple, sel.Select(1200).Strategy())
	assert.Equal(t, chunker.StrategySentence, sel.Select(1201).Strategy())
}

func TestBuildCacheFallsBackToNoOp(t *testing.T) {
	c := buildCache(config.Config{}, logger.Discard())
	_, ok := c.(*cache.NoOpCache)
	assert.True(t, ok, "expected NoOpCache without REDIS_ADDR, got %T", c)
}

func TestBuildWithoutBackends(t *testing.T) {
	t.Setenv("TOKEN_COUNTER", "words")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("NUM_WORKERS", "3")

	deps, err := Build()
	require.NoError(t, err)
	defer deps.Close()

	assert.Nil(t, deps.Store)
	assert.Nil(t, deps.Queue)
	assert.Equal(t, 3, deps.Runner.Workers)
	assert.Equal(t, 450, deps.Config.MaxTokens)
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	t.Setenv("OVERLAP_PERCENT", "150")
	_, err := Build()
	assert.Error(t, err)
}

func TestBuildRequiresStoreURL(t *testing.T) {
	t.Setenv("TOKEN_COUNTER", "words")
	t.Setenv("DB_URL", "")
	_, err := Build(WithStore)
	assert.ErrorContains(t, err, "DB_URL")
}
