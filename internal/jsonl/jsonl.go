// Package jsonl reads and writes line-delimited JSON slice files, gzip
// compressed when the file name ends in .gz.
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"page-slicer/internal/slices"
)

// Compressed reports whether path names a gzip file.
func Compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// Writer writes one compact JSON object per line.
type Writer struct {
	file  io.Closer
	gz    *gzip.Writer
	buf   *bufio.Writer
	enc   *json.Encoder
	count int
}

// Create truncates or creates path and returns a Writer for it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := NewWriter(f, Compressed(path))
	w.file = f
	return w, nil
}

// NewWriter wraps w. Close flushes but does not close w.
func NewWriter(w io.Writer, compress bool) *Writer {
	out := &Writer{}
	if compress {
		out.gz = gzip.NewWriter(w)
		w = out.gz
	}
	out.buf = bufio.NewWriter(w)
	out.enc = json.NewEncoder(out.buf)
	out.enc.SetEscapeHTML(false)
	return out
}

// Write appends rec as one line.
func (w *Writer) Write(rec slices.Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode slice %q: %w", rec.ID, err)
	}
	w.count++
	return nil
}

// WriteAll appends every record in order.
func (w *Writer) WriteAll(recs []slices.Record) error {
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int { return w.count }

// Close flushes buffered data, finishes the gzip stream and closes the file
// opened by Create.
func (w *Writer) Close() error {
	err := w.buf.Flush()
	if w.gz != nil {
		err = errors.Join(err, w.gz.Close())
	}
	if w.file != nil {
		err = errors.Join(err, w.file.Close())
	}
	return err
}

// Reader decodes records written by Writer.
type Reader struct {
	closers []io.Closer
	dec     *json.Decoder
}

// Open opens path for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	r, err := NewReader(f, Compressed(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closers = append(r.closers, f)
	return r, nil
}

// NewReader wraps r. Close does not close r.
func NewReader(r io.Reader, compressed bool) (*Reader, error) {
	out := &Reader{}
	if compressed {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		out.closers = append(out.closers, gz)
		r = gz
	}
	out.dec = json.NewDecoder(bufio.NewReader(r))
	return out, nil
}

// Next returns the next record or io.EOF after the last one.
func (r *Reader) Next() (slices.Record, error) {
	var rec slices.Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return slices.Record{}, io.EOF
		}
		return slices.Record{}, fmt.Errorf("failed to decode slice: %w", err)
	}
	return rec, nil
}

// ReadBatch returns up to n records. It returns io.EOF only when no record
// was left to read.
func (r *Reader) ReadBatch(n int) ([]slices.Record, error) {
	batch := make([]slices.Record, 0, n)
	for len(batch) < n {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			if len(batch) == 0 {
				return nil, io.EOF
			}
			return batch, nil
		}
		if err != nil {
			return nil, err
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

// Close releases the gzip stream and the file opened by Open.
func (r *Reader) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, r.closers[i].Close())
	}
	return err
}
