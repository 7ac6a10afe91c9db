package chunker

import (
	"iter"

	"page-slicer/internal/page"
)

// Simple cuts the concatenated text into fixed-size, non-overlapping
// windows without looking at its content.
//
// PageIndex of a Simple chunk is the window ordinal, not the page the window
// came from; callers must not use it as a page reference. Meta is taken from
// the page containing the window start.
type Simple struct {
	MaxLength int
}

// NewSimple returns a Simple splitter with windows of maxLength runes.
func NewSimple(maxLength int) *Simple {
	if maxLength <= 0 {
		maxLength = DefaultSectionLength
	}
	return &Simple{MaxLength: maxLength}
}

func (s *Simple) Strategy() Strategy { return StrategySimple }

func (s *Simple) sealed() {}

func (s *Simple) Split(pages []page.Page) iter.Seq[page.Chunk] {
	return func(yield func(page.Chunk) bool) {
		text := concat(pages)
		if isBlank(text) {
			return
		}
		if len(text) <= s.MaxLength {
			yield(page.Chunk{PageIndex: 0, Text: string(text), Meta: pages[0].Meta})
			return
		}
		for start := 0; start < len(text); start += s.MaxLength {
			end := min(start+s.MaxLength, len(text))
			window := text[start:end]
			if isBlank(window) {
				continue
			}
			src := page.At(pages, page.Locate(pages, start))
			if !yield(page.Chunk{PageIndex: start / s.MaxLength, Text: string(window), Meta: src.Meta}) {
				return
			}
		}
	}
}
