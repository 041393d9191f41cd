package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/renci-ner/internal/pipeline"
)

type textOptions struct {
	method          string
	limit           int
	props           []string
	normalizerProps []string
}

func newTextCommand(a *app) *cobra.Command {
	var opts textOptions

	cmd := &cobra.Command{
		Use:   "text [TEXT...]",
		Short: "Annotate text from arguments or stdin and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			req := pipeline.Request{Limit: opts.limit}
			var err error
			if req.Props, err = parseProps("prop", opts.props); err != nil {
				return err
			}
			if req.NormalizerProps, err = parseProps("normalizer-prop", opts.normalizerProps); err != nil {
				return err
			}

			stop, err := a.start(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			result, err := a.infra.Pipelines.Run(cmd.Context(), opts.method, text, req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.method, "method", "", "Annotation method (default from config)")
	flags.IntVar(&opts.limit, "ner-limit", 0, "Linker results kept per recognized span (default from config)")
	flags.StringArrayVar(&opts.props, "prop", nil, "Linker property as key=value (repeatable)")
	flags.StringArrayVar(&opts.normalizerProps, "normalizer-prop", nil, "Normalizer property as key=value (repeatable)")

	return cmd
}
