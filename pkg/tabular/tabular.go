// Package tabular reads and writes delimited text tables, choosing comma or
// tab separation from the file extension or an explicit format name.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a delimited text dialect.
type Format string

const (
	CSV Format = "csv"
	TSV Format = "tsv"
)

var ErrUnsupportedFormat = errors.New("unsupported table format")

// ParseFormat validates a format name such as "csv" or "TSV".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, TSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a .csv or .tsv extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

func (f Format) delimiter() rune {
	if f == TSV {
		return '\t'
	}
	return ','
}

// Row is one record addressed by column name.
type Row struct {
	header []string
	values []string
}

// Get returns the value in column, or "" when the column is absent.
func (r Row) Get(column string) string {
	for i, h := range r.header {
		if h == column && i < len(r.values) {
			return r.values[i]
		}
	}
	return ""
}

// Values returns the record in header order, padded to the header length.
func (r Row) Values() []string {
	out := make([]string, len(r.header))
	copy(out, r.values)
	return out
}

// Table is a header and the records beneath it.
type Table struct {
	Header []string
	Rows   []Row
}

// HasColumn reports whether the header contains column.
func (t *Table) HasColumn(column string) bool {
	for _, h := range t.Header {
		if h == column {
			return true
		}
	}
	return false
}

// Read parses a table with a header line from r.
func Read(r io.Reader, f Format) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = f.delimiter()
	cr.FieldsPerRecord = -1
	if f == TSV {
		cr.LazyQuotes = true
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{Header: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, Row{header: header, values: record})
	}

	return t, nil
}

// Open reads the table at path, inferring the format from its extension.
func Open(path string) (*Table, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer file.Close()

	t, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Writer writes records in one format.
type Writer struct {
	w *csv.Writer
}

// NewWriter returns a Writer that writes f-formatted records to w.
func NewWriter(w io.Writer, f Format) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = f.delimiter()
	return &Writer{w: cw}
}

// Write writes one record.
func (w *Writer) Write(record []string) error {
	return w.w.Write(record)
}

// Flush writes buffered records and reports any write error.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
