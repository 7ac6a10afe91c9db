package slices

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-slicer/internal/page"
)

func TestMakeID(t *testing.T) {
	assert.Equal(t, "aW5kZXhfdGV4dA__000", MakeID("index_text", 0))
	assert.Equal(t, "aW5kZXhfdGV4dA__042", MakeID("index_text", 42))
	assert.Equal(t, "aW5kZXhfdGV4dA__1234", MakeID("index_text", 1234))

	// URL-safe alphabet, no padding.
	id := MakeID("??>>", 1)
	assert.NotContains(t, id, "=")
	assert.NotContains(t, id, "+")
	assert.NotContains(t, id, "/")
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(id, "__001"))
	require.NoError(t, err)
	assert.Equal(t, "??>>", string(raw))
}

func TestBuild(t *testing.T) {
	meta := page.Metadata{
		"url":      "https://example.com/r",
		"title":    "Recipes",
		"category": "Food",
		"images": []any{
			map[string]any{"url": "1.png", "alt": "one"},
			map[string]any{"url": "2.png", "alt": "two"},
			map[string]any{"url": "3.png"},
			map[string]any{"url": "4.png", "alt": "four"},
		},
	}
	chunks := []page.Chunk{
		{PageIndex: 0, Text: "  First slice.\n", Meta: meta},
		{PageIndex: 0, Text: " \n ", Meta: meta},
		{PageIndex: 1, Text: "Second slice.", Meta: meta},
	}

	records, err := Build("recipes_text", chunks, 3)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, MakeID("recipes_text", 0), first.ID)
	assert.Equal(t, "First slice.", first.Content)
	assert.Equal(t, "https://example.com/r", first.URL)
	assert.Equal(t, "Recipes", first.Title)
	assert.Equal(t, "Food", first.Category)
	assert.Equal(t, []string{"1.png", "2.png", "3.png"}, first.Images)
	assert.Equal(t, []string{"one", "two", ""}, first.ImageTitles)

	assert.Equal(t, MakeID("recipes_text", 1), records[1].ID)
}

func TestBuildWithoutImages(t *testing.T) {
	meta := page.Metadata{"url": "u", "title": "t", "category": "c"}
	records, err := Build("doc", []page.Chunk{{Text: "x", Meta: meta}}, 3)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotNil(t, records[0].Images)
	assert.Empty(t, records[0].Images)
}

func TestBuildRejectsMissingMetadata(t *testing.T) {
	_, err := Build("doc", []page.Chunk{{Text: "x", Meta: page.Metadata{"url": "u"}}}, 3)
	assert.Error(t, err)
}
