package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/internal/pipeline"
	"github.com/JaimeStill/renci-ner/internal/report"
	"github.com/JaimeStill/renci-ner/pkg/tabular"
)

type annotateOptions struct {
	columns           []string
	method            string
	output            string
	format            string
	limit             int
	duplicateData     bool
	allowDuplicateIDs bool
	concurrency       int
	props             []string
	normalizerProps   []string
}

func newAnnotateCommand(a *app) *cobra.Command {
	var opts annotateOptions

	cmd := &cobra.Command{
		Use:   "annotate [OPTIONS] FILE...",
		Short: "Annotate columns of CSV or TSV files",
		Long: "Annotate the chosen columns of every row and write one output row per\n" +
			"annotation. All input files must share the same header.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd.Context(), a, cmd.OutOrStdout(), args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.columns, "column", "c", nil, "Column to annotate (repeatable; default all columns)")
	flags.StringVar(&opts.method, "method", pipeline.MethodSAPBERT, "Annotation method: "+strings.Join(pipeline.Methods, " or "))
	flags.StringVarP(&opts.output, "output", "O", "-", "Output file, or - for stdout")
	flags.StringVar(&opts.format, "output-format", string(tabular.CSV), "Output format: csv or tsv")
	flags.IntVar(&opts.limit, "ner-limit", 1, "Linker results kept per recognized span")
	flags.BoolVar(&opts.duplicateData, "duplicate-data", false, "Repeat input columns on every annotation row")
	flags.BoolVar(&opts.allowDuplicateIDs, "allow-duplicate-ids", false, "Keep repeated identifiers within a row")
	flags.IntVar(&opts.concurrency, "concurrency", 4, "Rows annotated in parallel")
	flags.StringArrayVar(&opts.props, "prop", nil, "Linker property as key=value (repeatable)")
	flags.StringArrayVar(&opts.normalizerProps, "normalizer-prop", nil, "Normalizer property as key=value (repeatable)")

	return cmd
}

func runAnnotate(ctx context.Context, a *app, stdout io.Writer, files []string, opts annotateOptions) error {
	logger := a.infra.Logger.With("command", "annotate", "method", opts.method)

	format, err := tabular.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.limit < 1 {
		return fmt.Errorf("--ner-limit must be at least 1, got %d", opts.limit)
	}
	if opts.concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", opts.concurrency)
	}

	p, err := a.infra.Pipelines.Pipeline(opts.method)
	if err != nil {
		return err
	}

	req := pipeline.Request{Limit: opts.limit}
	if req.Props, err = parseProps("prop", opts.props); err != nil {
		return err
	}
	if req.NormalizerProps, err = parseProps("normalizer-prop", opts.normalizerProps); err != nil {
		return err
	}
	if err := p.Validate(req); err != nil {
		return err
	}

	header, rows, err := readTables(files)
	if err != nil {
		return err
	}

	columns, err := selectColumns(header, opts.columns)
	if err != nil {
		return err
	}
	if len(opts.columns) == 0 {
		logger.WarnContext(ctx, "no columns given, annotating every column", "columns", columns)
	}

	stop, err := a.start(ctx)
	if err != nil {
		return err
	}
	defer stop()

	start := time.Now()
	results, err := annotateRows(ctx, p, rows, columns, req, opts.concurrency)
	if err != nil {
		return err
	}

	out := stdout
	if opts.output != "-" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	rw := report.NewWriter(tabular.NewWriter(out, format), header, report.Options{
		DuplicateData:     opts.duplicateData,
		AllowDuplicateIDs: opts.allowDuplicateIDs,
	})
	if err := rw.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	written := 0
	for i, row := range rows {
		n, err := rw.WriteRow(row.Values(), results[i])
		if err != nil {
			return err
		}
		written += n
	}
	if err := rw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	logger.InfoContext(
		ctx, "annotation complete",
		"files", len(files),
		"rows", len(rows),
		"records", written,
		"duration", time.Since(start),
	)
	return nil
}

// readTables reads every file and concatenates their rows. Headers must match.
func readTables(files []string) ([]string, []tabular.Row, error) {
	var (
		header []string
		rows   []tabular.Row
	)

	for i, path := range files {
		t, err := tabular.Open(path)
		if err != nil {
			return nil, nil, err
		}
		if i == 0 {
			header = t.Header
		} else if !slices.Equal(header, t.Header) {
			return nil, nil, fmt.Errorf("%s: header %v does not match %s header %v", path, t.Header, files[0], header)
		}
		rows = append(rows, t.Rows...)
	}

	return header, rows, nil
}

func selectColumns(header, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return slices.Clone(header), nil
	}
	for _, c := range requested {
		if !slices.Contains(header, c) {
			return nil, fmt.Errorf("column %q not found in header %v", c, header)
		}
	}
	return requested, nil
}

// rowText joins the non-blank values of columns, one per line.
func rowText(row tabular.Row, columns []string) string {
	var parts []string
	for _, c := range columns {
		if v := strings.TrimSpace(row.Get(c)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

func annotateRows(
	ctx context.Context,
	p *pipeline.Pipeline,
	rows []tabular.Row,
	columns []string,
	req pipeline.Request,
	concurrency int,
) ([]*annotation.AnnotatedText, error) {
	results := make([]*annotation.AnnotatedText, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, row := range rows {
		g.Go(func() error {
			res, err := p.Run(gctx, rowText(row, columns), req)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			results[i] = res.Result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
