package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"page-slicer/internal/page"
)

// fieldsCounter counts whitespace separated fields.
type fieldsCounter struct{}

func (fieldsCounter) Count(text string) int { return len(strings.Fields(text)) }

// runeCounter charges one token per `per` runes, rounded up.
type runeCounter struct{ per int }

func (c runeCounter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + c.per - 1) / c.per
}

// digits returns n runes of a zero-padded counting sequence with no
// punctuation and no word breaks, so every long substring is unique.
func digits(n int) string {
	var sb strings.Builder
	for i := 0; sb.Len() < n; i++ {
		fmt.Fprintf(&sb, "%05d", i)
	}
	return sb.String()[:n]
}

func collect(s Splitter, pages []page.Page) []page.Chunk {
	var out []page.Chunk
	for c := range s.Split(pages) {
		out = append(out, c)
	}
	return out
}

func texts(chunks []page.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
