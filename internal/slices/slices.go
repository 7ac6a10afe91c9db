// Package slices turns chunks into the records written to the slice file.
package slices

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"page-slicer/internal/page"
)

// Record is one line of the slice file.
type Record struct {
	ID          string   `json:"id" validate:"required"`
	URL         string   `json:"url" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Images      []string `json:"images"`
	ImageTitles []string `json:"image_titles"`
	Content     string   `json:"content" validate:"required"`
}

var validate = validator.New()

// Validate reports missing required fields.
func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid slice %q: %w", r.ID, err)
	}
	return nil
}

// MakeID derives a stable slice id from the document name and the chunk's
// position: unpadded URL-safe base64 of name, "__", and the index padded to
// three digits.
func MakeID(name string, index int) string {
	return fmt.Sprintf("%s__%03d", base64.RawURLEncoding.EncodeToString([]byte(name)), index)
}

// Build turns the chunks of document name into records, keeping at most
// maxImages images per record. Chunks whose trimmed text is empty are
// skipped without consuming an index.
func Build(name string, chunks []page.Chunk, maxImages int) ([]Record, error) {
	records := make([]Record, 0, len(chunks))
	for _, c := range chunks {
		content := strings.TrimSpace(c.Text)
		if content == "" {
			continue
		}
		images := c.Meta.Images()
		if maxImages >= 0 && len(images) > maxImages {
			images = images[:maxImages]
		}
		rec := Record{
			ID:          MakeID(name, len(records)),
			URL:         c.Meta.URL(),
			Title:       c.Meta.Title(),
			Category:    c.Meta.Category(),
			Images:      make([]string, len(images)),
			ImageTitles: make([]string, len(images)),
			Content:     content,
		}
		for i, img := range images {
			rec.Images[i] = img.URL
			rec.ImageTitles[i] = img.Alt
		}
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
