package chunker

import (
	"fmt"
	"iter"

	"page-slicer/internal/page"
)

// SentenceOptions configures a Sentence splitter. Zero fields take the
// package defaults.
type SentenceOptions struct {
	MaxTokensPerSection int
	MaxSectionLength    int
	OverlapPercent      int
	SentenceSearchLimit int
}

// Sentence slides a window of MaxSectionLength runes over the document,
// stretches each window to the next sentence ending or word break, and then
// halves every window until it fits the token budget.
type Sentence struct {
	counter             TokenCounter
	maxTokens           int
	maxSectionLength    int
	sectionOverlap      int
	sentenceSearchLimit int
}

// NewSentence builds a Sentence splitter counting tokens with counter, or
// with Words when counter is nil.
func NewSentence(counter TokenCounter, opts SentenceOptions) *Sentence {
	if counter == nil {
		counter = Words{}
	}
	if opts.MaxTokensPerSection <= 0 {
		opts.MaxTokensPerSection = DefaultMaxTokensPerSection
	}
	if opts.MaxSectionLength <= 0 {
		opts.MaxSectionLength = DefaultSectionLength
	}
	if opts.OverlapPercent < 0 || opts.OverlapPercent >= 100 {
		opts.OverlapPercent = DefaultOverlapPercent
	}
	if opts.SentenceSearchLimit <= 0 {
		opts.SentenceSearchLimit = DefaultSentenceSearchLimit
	}
	return &Sentence{
		counter:             counter,
		maxTokens:           opts.MaxTokensPerSection,
		maxSectionLength:    opts.MaxSectionLength,
		sectionOverlap:      opts.MaxSectionLength * opts.OverlapPercent / 100,
		sentenceSearchLimit: opts.SentenceSearchLimit,
	}
}

func (s *Sentence) Strategy() Strategy { return StrategySentence }

func (s *Sentence) sealed() {}

func (s *Sentence) String() string {
	return fmt.Sprintf("sentence(tokens=%d length=%d overlap=%d search=%d counter=%v)",
		s.maxTokens, s.maxSectionLength, s.sectionOverlap, s.sentenceSearchLimit, s.counter)
}

// SectionOverlap is the number of runes shared by consecutive windows.
func (s *Sentence) SectionOverlap() int { return s.sectionOverlap }

func (s *Sentence) Split(pages []page.Page) iter.Seq[page.Chunk] {
	return func(yield func(page.Chunk) bool) {
		text := concat(pages)
		if isBlank(text) {
			return
		}
		total := len(text)
		if total <= s.maxSectionLength {
			s.splitByTokens(pages, page.Locate(pages, 0), text, yield)
			return
		}

		start := 0
		for start < total {
			end := s.extend(text, min(start+s.maxSectionLength, total))
			if !s.splitByTokens(pages, page.Locate(pages, start), text[start:end], yield) {
				return
			}
			// The window reaching the end of the buffer is the last one.
			if end >= total {
				return
			}
			start = end - s.sectionOverlap
		}
	}
}

// extend moves end forward to a sentence ending found within the search
// limit. When the limit runs out first, it cuts just past the last word
// break seen, or at the cursor if there was none.
func (s *Sentence) extend(text []rune, end int) int {
	cursor := end
	lastBreak := -1
	for cursor < len(text) && cursor-end < s.sentenceSearchLimit && !isSentenceEnd(text[cursor]) {
		if isWordBreak(text[cursor]) {
			lastBreak = cursor
		}
		cursor++
	}
	switch {
	case cursor < len(text) && isSentenceEnd(text[cursor]):
		return cursor
	case cursor < len(text) && lastBreak >= end:
		return lastBreak + 1
	default:
		return cursor
	}
}

// splitByTokens yields text as one chunk when it fits the token budget and
// otherwise halves it and recurses on both halves, first half first. It
// reports false once yield asked to stop.
func (s *Sentence) splitByTokens(pages []page.Page, pageIndex int, text []rune, yield func(page.Chunk) bool) bool {
	str := string(text)
	if len(text) <= 1 || s.counter.Count(str) <= s.maxTokens {
		if isBlank(text) {
			return true
		}
		return yield(page.Chunk{PageIndex: pageIndex, Text: str, Meta: page.At(pages, pageIndex).Meta})
	}

	first, second := bisect(text)
	if !s.splitByTokens(pages, pageIndex, first, yield) {
		return false
	}
	return s.splitByTokens(pages, pageIndex, second, yield)
}

// bisect splits text right after the sentence ending closest to its middle,
// searching a third of the length to either side and preferring the left.
// Without such an ending it cuts at the middle and lets both halves share
// DefaultOverlapPercent of the text on each side of the cut.
func bisect(text []rune) (first, second []rune) {
	n := len(text)
	center := n / 2
	boundary := n / 3
	for offset := 0; offset < boundary; offset++ {
		if left := center - offset; left > 0 && isSentenceEnd(text[left]) {
			return text[:left+1], text[left+1:]
		}
		if right := center + offset; right < n && isSentenceEnd(text[right]) {
			return text[:right+1], text[right+1:]
		}
	}
	mid := n / 2
	pad := n * DefaultOverlapPercent / 100
	return text[:mid+pad], text[mid-pad:]
}
