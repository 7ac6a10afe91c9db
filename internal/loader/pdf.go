package loader

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// LoadPDF reads a PDF file into one page per PDF page. Pages without a
// content stream or whose text cannot be extracted become empty pages so
// page indexes keep matching PDF page numbers minus one.
func LoadPDF(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()
	return NewDocument(path, nil, pdfBlocks(r)), nil
}

func pdfBlocks(r *pdf.Reader) []string {
	n := r.NumPage()
	blocks := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() || p.V.Key("Contents").Kind() == pdf.Null {
			blocks = append(blocks, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			blocks = append(blocks, "")
			continue
		}
		blocks = append(blocks, text)
	}
	return blocks
}

// ReadPDF extracts the text of every page of an in-memory PDF.
func ReadPDF(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	return pdfBlocks(r), nil
}
