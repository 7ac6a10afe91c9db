package page

// Locate returns the index of the page whose half-open range
// [Offset_i, Offset_i+1) contains offset. Offsets at or past the start of the
// last page resolve to the last page. pages must be sorted by Offset and
// non-empty.
func Locate(pages []Page, offset int) int {
	for i := 0; i < len(pages)-1; i++ {
		if pages[i].Offset <= offset && offset < pages[i+1].Offset {
			return pages[i].Index
		}
	}
	return pages[len(pages)-1].Index
}

// At returns the page with the given index, falling back to the last page
// when no page carries it.
func At(pages []Page, index int) Page {
	for _, p := range pages {
		if p.Index == index {
			return p
		}
	}
	return pages[len(pages)-1]
}
