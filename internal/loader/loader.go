// Package loader reads extracted documents from disk into ordered pages.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"page-slicer/internal/page"
)

// TextSuffix marks the JSON text files written by the crawler.
const TextSuffix = "_text.json"

// DefaultCategory is used when a document names none.
const DefaultCategory = "Uncategorized"

var ErrUnsupported = errors.New("unsupported document type")

// Document is one source file turned into pages.
type Document struct {
	// Name is the file name without its final extension; slice ids derive from it.
	Name  string
	Path  string
	Pages []page.Page
}

// Discover walks root and returns every *_text.json file, plus *.pdf files
// when includePDF is set, sorted by path.
func Discover(root string, includePDF bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.HasSuffix(name, TextSuffix) || (includePDF && strings.HasSuffix(name, ".pdf")) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Load reads the document at path.
func Load(path string) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return ParseJSON(path, data)
	case ".pdf":
		return LoadPDF(path)
	default:
		return Document{}, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
}

type textDocument struct {
	Metadata page.Metadata  `json:"metadata"`
	Text     json.RawMessage `json:"text"`
}

// ParseJSON decodes a text document. The payload is either an object with
// "metadata" and "text" (a string or an array of strings), a bare array of
// strings, or a bare string.
func ParseJSON(path string, data []byte) (Document, error) {
	var (
		meta   page.Metadata
		blocks []string
	)
	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, "{"):
		var doc textDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		meta = doc.Metadata
		b, err := decodeBlocks(doc.Text)
		if err != nil {
			return Document{}, fmt.Errorf("failed to decode text of %s: %w", path, err)
		}
		blocks = b
	default:
		b, err := decodeBlocks(json.RawMessage(data))
		if err != nil {
			return Document{}, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		blocks = b
	}
	return NewDocument(path, meta, blocks), nil
}

func decodeBlocks(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, err
	}
	return many, nil
}

// NewDocument builds a document from text blocks, filling in missing url,
// title and category metadata from path.
func NewDocument(path string, meta page.Metadata, blocks []string) Document {
	name := Stem(path)
	return Document{
		Name:  name,
		Path:  path,
		Pages: page.FromBlocks(blocks, WithDefaults(meta, path, name)),
	}
}

// WithDefaults returns meta with url, title and category set when missing.
// meta itself is not modified.
func WithDefaults(meta page.Metadata, url, title string) page.Metadata {
	out := make(page.Metadata, len(meta)+3)
	for k, v := range meta {
		out[k] = v
	}
	setDefault(out, "url", url)
	setDefault(out, "title", title)
	setDefault(out, "category", DefaultCategory)
	return out
}

func setDefault(meta page.Metadata, key, value string) {
	if s, ok := meta[key].(string); !ok || s == "" {
		meta[key] = value
	}
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
