package chunker

import (
	"strings"
	"testing"

	"page-slicer/internal/page"
)

func TestSentenceBlankInput(t *testing.T) {
	s := NewSentence(fieldsCounter{}, SentenceOptions{})
	for _, blocks := range [][]string{nil, {""}, {" ", "\n\n", "\t"}} {
		if chunks := collect(s, page.FromBlocks(blocks, nil)); len(chunks) != 0 {
			t.Errorf("blocks %q: expected 0 chunks, got %d", blocks, len(chunks))
		}
	}
}

func TestSentenceSingleChunk(t *testing.T) {
	text := "Hello world. This is a test!"
	s := NewSentence(fieldsCounter{}, SentenceOptions{MaxTokensPerSection: 100})
	chunks := collect(s, page.FromBlocks([]string{text}, page.Metadata{"url": "u"}))

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text || chunks[0].PageIndex != 0 {
		t.Errorf("expected whole text on page 0, got %q on page %d", chunks[0].Text, chunks[0].PageIndex)
	}
	if chunks[0].Meta.URL() != "u" {
		t.Errorf("expected inherited metadata, got %v", chunks[0].Meta)
	}
}

func TestSentenceSlidingWindows(t *testing.T) {
	text := digits(2400)
	pages := page.FromBlocks([]string{text[:800], text[800:1600], text[1600:]}, nil)
	s := NewSentence(fieldsCounter{}, SentenceOptions{
		MaxTokensPerSection: 10,
		MaxSectionLength:    1000,
		OverlapPercent:      10,
	})
	if s.SectionOverlap() != 100 {
		t.Fatalf("expected section overlap 100, got %d", s.SectionOverlap())
	}

	chunks := collect(s, pages)

	// No sentence endings or word breaks: each window stretches the full
	// search limit, and the next one starts one overlap before its end.
	want := []struct {
		start, end, page int
	}{
		{0, 1100, 0},
		{1000, 2100, 1},
		{2000, 2400, 2},
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Text != text[w.start:w.end] {
			t.Errorf("chunk %d: expected text[%d:%d]", i, w.start, w.end)
		}
		if chunks[i].PageIndex != w.page {
			t.Errorf("chunk %d: expected page %d, got %d", i, w.page, chunks[i].PageIndex)
		}
	}
}

func TestSentenceExtend(t *testing.T) {
	s := NewSentence(fieldsCounter{}, SentenceOptions{MaxSectionLength: 10, SentenceSearchLimit: 5})

	tests := []struct {
		name string
		text string
		want int
	}{
		{"sentence ending within limit", "aaaaaaaaaaaa.bbbbbb", 12},
		{"sentence ending at end", "aaaaaaaaaa.bbbb", 10},
		{"word break when limit runs out", "aaaaaaaaaa bb cccccccc", 14},
		{"mid-word when no break", strings.Repeat("a", 20), 15},
		{"buffer ends inside limit", "aaaaaaaaaaa b", 13},
		{"end already at buffer end", strings.Repeat("a", 10), 10},
		{"wide punctuation", "aaaaaaaaaaa。bbbbbbb", 11},
		{"wide word break", "aaaaaaaaaaa、bbbbbbbb", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.extend([]rune(tt.text), 10); got != tt.want {
				t.Errorf("expected end %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSentenceTokenBudgetCleanSplits(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("Go is fun. ", 40))
	s := NewSentence(fieldsCounter{}, SentenceOptions{MaxTokensPerSection: 7})
	chunks := collect(s, page.FromBlocks([]string{text}, nil))

	if len(chunks) < 2 {
		t.Fatalf("expected the text to be split, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if n := (fieldsCounter{}).Count(c.Text); n > 7 {
			t.Errorf("chunk %d has %d tokens, budget is 7", i, n)
		}
		if !strings.HasSuffix(strings.TrimSpace(c.Text), ".") {
			t.Errorf("chunk %d should end on a sentence ending, got %q", i, c.Text)
		}
	}
	// Clean bisections neither lose nor repeat characters.
	if got := strings.Join(texts(chunks), ""); got != text {
		t.Errorf("chunks do not reconstruct the input:\n got %q\nwant %q", got, text)
	}
}

func TestSentenceFallbackBisection(t *testing.T) {
	text := digits(2000)
	counter := runeCounter{per: 10}
	s := NewSentence(counter, SentenceOptions{MaxTokensPerSection: 20, MaxSectionLength: 5000})
	chunks := collect(s, page.FromBlocks([]string{text}, nil))

	if len(chunks) < 2 {
		t.Fatalf("expected fallback halves, got %d chunks", len(chunks))
	}

	// The overlapping halves are emitted first-half-first, so a later leaf
	// may start before an earlier one ends; check coverage instead of order.
	hits := make([]int, len(text))
	for i, c := range chunks {
		if n := counter.Count(c.Text); n > 20 {
			t.Errorf("chunk %d has %d tokens, budget is 20", i, n)
		}
		start := strings.Index(text, c.Text)
		if start < 0 {
			t.Fatalf("chunk %d is not a substring of the input", i)
		}
		for j := start; j < start+len(c.Text); j++ {
			hits[j]++
		}
	}
	overlapped := false
	for j, h := range hits {
		if h == 0 {
			t.Fatalf("character %d is not covered by any chunk", j)
		}
		if h > 1 {
			overlapped = true
		}
	}
	if !overlapped {
		t.Error("expected fallback halves to overlap")
	}
	if !strings.HasPrefix(text, chunks[0].Text) || !strings.HasSuffix(text, chunks[len(chunks)-1].Text) {
		t.Error("expected the first and last leaves to anchor the input ends")
	}
}

func TestSentenceBisectPrefersLeft(t *testing.T) {
	// center 10; endings at 8 and 12 are equally far, the left one wins.
	text := []rune("aaaaaaaa.aaa.aaaaaaa")
	first, second := bisect(text)
	if string(first) != "aaaaaaaa." || string(second) != "aaa.aaaaaaa" {
		t.Errorf("unexpected split %q | %q", string(first), string(second))
	}
}

func TestSentenceBisectFallbackOverlap(t *testing.T) {
	text := []rune(strings.Repeat("b", 40))
	first, second := bisect(text)
	// mid 20, pad 4
	if len(first) != 24 || len(second) != 24 {
		t.Errorf("expected halves of 24 runes, got %d and %d", len(first), len(second))
	}
}

func TestSentencePageAttributionMonotonic(t *testing.T) {
	var blocks []string
	for i := 0; i < 6; i++ {
		blocks = append(blocks, strings.Repeat("Page text keeps going here. ", 20))
	}
	pages := page.FromBlocks(blocks, nil)
	s := NewSentence(fieldsCounter{}, SentenceOptions{MaxTokensPerSection: 30, MaxSectionLength: 400})

	last := -1
	chunks := collect(s, pages)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if c.PageIndex < last {
			t.Errorf("chunk %d: page index went back from %d to %d", i, last, c.PageIndex)
		}
		last = c.PageIndex
	}
	if last != 5 {
		t.Errorf("expected the final chunk on the last page, got %d", last)
	}
}

func TestSentenceStopsEarly(t *testing.T) {
	s := NewSentence(runeCounter{per: 1}, SentenceOptions{MaxTokensPerSection: 5, MaxSectionLength: 50})
	pages := page.FromBlocks([]string{digits(500)}, nil)
	n := 0
	for range s.Split(pages) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("expected to stop after 3 chunks, got %d", n)
	}
}

func TestSentenceSingleRuneOverBudget(t *testing.T) {
	s := NewSentence(runeCounter{per: 1}, SentenceOptions{MaxTokensPerSection: 1})
	// Every rune costs a token; two-rune texts must still terminate.
	chunks := collect(s, page.FromBlocks([]string{"abcdefg"}, nil))
	if got := strings.Join(texts(chunks), ""); !strings.Contains(got, "a") || !strings.Contains(got, "g") {
		t.Errorf("expected leaves covering the input, got %q", texts(chunks))
	}
	for _, c := range chunks {
		if len([]rune(c.Text)) != 1 {
			t.Errorf("expected single-rune leaves, got %q", c.Text)
		}
	}
}
