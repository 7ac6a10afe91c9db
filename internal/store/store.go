package store

import (
	"context"

	"page-slicer/internal/slices"
)

// Store persists slice records together with the pages and categories they
// belong to. Implementations upsert, so saving the same batch twice is safe.
type Store interface {
	SaveSlices(ctx context.Context, recs []slices.Record) (Stats, error)
	Close() error
}

// Stats counts what a SaveSlices call touched.
type Stats struct {
	Categories int
	Pages      int
	Slices     int
}

// Add returns the element-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Categories: s.Categories + o.Categories,
		Pages:      s.Pages + o.Pages,
		Slices:     s.Slices + o.Slices,
	}
}

// pageKey groups records by their source page.
type pageKey struct {
	url      string
	title    string
	category string
}

// group splits recs into distinct categories and pages, preserving first-seen order.
func group(recs []slices.Record) (categories []string, pages []pageKey) {
	seenCat := make(map[string]bool)
	seenPage := make(map[string]bool)
	for _, r := range recs {
		if !seenCat[r.Category] {
			seenCat[r.Category] = true
			categories = append(categories, r.Category)
		}
		if !seenPage[r.URL] {
			seenPage[r.URL] = true
			pages = append(pages, pageKey{url: r.URL, title: r.Title, category: r.Category})
		}
	}
	return categories, pages
}
