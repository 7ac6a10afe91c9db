// Package chunker cuts ordered pages of text into embedding-sized chunks.
//
// Two strategies exist: Simple (fixed-length windows) and Sentence
// (sentence- and token-aware windows with overlap). Selector routes a
// document to one of them by its total length.
package chunker

import (
	"fmt"
	"iter"
	"strings"

	"page-slicer/internal/page"
)

const (
	// DefaultSectionLength is the character budget of one sliding window.
	DefaultSectionLength = 1000
	// DefaultOverlapPercent is the share of a window repeated in the next one.
	// The token fallback bisection always uses this value.
	DefaultOverlapPercent = 10
	// DefaultSentenceSearchLimit bounds the forward scan for a clean cut.
	DefaultSentenceSearchLimit = 100
	// DefaultMaxTokensPerSection is the token budget of one emitted chunk.
	DefaultMaxTokensPerSection = 500
)

// Strategy names a splitting strategy.
type Strategy string

const (
	StrategySimple   Strategy = "simple"
	StrategySentence Strategy = "sentence"
)

// Splitter is implemented only by *Simple and *Sentence.
type Splitter interface {
	// Split lazily yields the chunks of pages in document order. The
	// sequence can be ranged over again to recompute it.
	Split(pages []page.Page) iter.Seq[page.Chunk]
	Strategy() Strategy
	sealed()
}

// Selector picks the strategy for a document.
type Selector struct {
	// Threshold is the largest total length still handled by Simple.
	Threshold int
	Simple    *Simple
	Sentence  *Sentence
}

// Select returns Sentence when totalChars exceeds the threshold and Simple
// otherwise.
func (s Selector) Select(totalChars int) Splitter {
	if totalChars > s.Threshold {
		return s.Sentence
	}
	return s.Simple
}

// Split selects a strategy for pages and collects every chunk it yields.
func (s Selector) Split(pages []page.Page) (Strategy, []page.Chunk) {
	splitter := s.Select(page.TotalLength(pages))
	var out []page.Chunk
	for c := range splitter.Split(pages) {
		out = append(out, c)
	}
	return splitter.Strategy(), out
}

// Fingerprint describes every setting that affects the output of Split.
// Two selectors with equal fingerprints produce the same chunks.
func (s Selector) Fingerprint() string {
	return fmt.Sprintf("threshold=%d simple=%d %s", s.Threshold, s.Simple.MaxLength, s.Sentence)
}

func concat(pages []page.Page) []rune {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Text)
	}
	return []rune(sb.String())
}

func isBlank(r []rune) bool {
	for _, c := range r {
		if !isSpace(c) {
			return false
		}
	}
	return true
}
