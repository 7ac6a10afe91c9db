package page

import "unicode/utf8"

// Image describes one picture referenced by a source page.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Metadata is the open key/value bag attached to a page. It is shared by
// reference between a page and every chunk cut from it and must not be
// mutated once chunking has started.
type Metadata map[string]any

// URL returns the "url" entry or "" when it is absent.
func (m Metadata) URL() string { return m.str("url") }

// Title returns the "title" entry or "" when it is absent.
func (m Metadata) Title() string { return m.str("title") }

// Category returns the "category" entry or "" when it is absent.
func (m Metadata) Category() string { return m.str("category") }

func (m Metadata) str(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Images returns the image descriptors stored under "images". Both typed
// []Image values and decoded JSON ([]any of objects) are understood.
func (m Metadata) Images() []Image {
	switch v := m["images"].(type) {
	case []Image:
		return v
	case []any:
		out := make([]Image, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			img := Image{}
			img.URL, _ = obj["url"].(string)
			img.Alt, _ = obj["alt"].(string)
			out = append(out, img)
		}
		return out
	default:
		return nil
	}
}

// Page is one addressable unit of source text.
type Page struct {
	// Index is the page ordinal within its document.
	Index int
	// Offset is the number of characters (runes) of all preceding pages.
	Offset int
	Text   string
	Meta   Metadata
}

// Chunk is a contiguous span of text attributed to exactly one page.
type Chunk struct {
	PageIndex int
	Text      string
	Meta      Metadata
}

// FromBlocks turns ordered text blocks into pages with sequential indexes
// and cumulative rune offsets. All pages share meta.
func FromBlocks(blocks []string, meta Metadata) []Page {
	pages := make([]Page, 0, len(blocks))
	offset := 0
	for i, text := range blocks {
		pages = append(pages, Page{Index: i, Offset: offset, Text: text, Meta: meta})
		offset += utf8.RuneCountInString(text)
	}
	return pages
}

// TotalLength returns the rune length of the concatenated page texts.
func TotalLength(pages []Page) int {
	n := 0
	for _, p := range pages {
		n += utf8.RuneCountInString(p.Text)
	}
	return n
}
