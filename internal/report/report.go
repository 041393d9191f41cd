// Package report flattens pipeline results into one table row per
// annotation, next to the input row that produced them.
package report

import (
	"fmt"
	"slices"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/pkg/tabular"
)

// Columns appended to every input header.
var Columns = []string{"ner_text", "ner_label", "ner_curie", "ner_biolink_type"}

// Options controls how annotations are spread across output rows.
type Options struct {
	// DuplicateData repeats the input columns on every annotation row
	// instead of only the first.
	DuplicateData bool
	// AllowDuplicateIDs keeps annotations whose curie was already written
	// for the same input row.
	AllowDuplicateIDs bool
}

// Writer writes report rows for tables that share one header.
type Writer struct {
	out    *tabular.Writer
	header []string
	opts   Options
}

// NewWriter returns a Writer for input rows with the given header.
func NewWriter(out *tabular.Writer, header []string, opts Options) *Writer {
	return &Writer{
		out:    out,
		header: slices.Clone(header),
		opts:   opts,
	}
}

// Header returns the input header followed by Columns.
func (w *Writer) Header() []string {
	return slices.Concat(w.header, Columns)
}

// WriteHeader writes the output header line.
func (w *Writer) WriteHeader() error {
	return w.out.Write(w.Header())
}

// WriteRow writes the records for one input row and returns how many were written.
func (w *Writer) WriteRow(input []string, result *annotation.AnnotatedText) (int, error) {
	records := Records(input, len(w.header), result, w.opts)
	for _, rec := range records {
		if err := w.out.Write(rec); err != nil {
			return 0, fmt.Errorf("write report row: %w", err)
		}
	}
	return len(records), nil
}

// Flush flushes the underlying table writer.
func (w *Writer) Flush() error {
	return w.out.Flush()
}

// Records builds the output records for one input row of width columns.
// An input row without annotations yields a single record with empty
// annotation columns.
func Records(input []string, width int, result *annotation.AnnotatedText, opts Options) [][]string {
	data := make([]string, width)
	copy(data, input)
	blank := make([]string, width)

	if result == nil || len(result.Annotations) == 0 {
		return [][]string{slices.Concat(data, make([]string, len(Columns)))}
	}

	var (
		records [][]string
		seen    = make(map[string]struct{})
	)

	for _, e := range result.Annotations {
		curie := annotation.Curie(e)
		if !opts.AllowDuplicateIDs {
			if _, dup := seen[curie]; dup {
				continue
			}
			seen[curie] = struct{}{}
		}

		prefix := blank
		if len(records) == 0 || opts.DuplicateData {
			prefix = data
		}

		base := e.Base()
		records = append(records, slices.Concat(prefix, []string{
			base.Text,
			base.Label,
			curie,
			annotation.BiolinkType(e),
		}))
	}

	return records
}
