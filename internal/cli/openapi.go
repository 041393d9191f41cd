package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/renci-ner/internal/api"
	"github.com/JaimeStill/renci-ner/pkg/openapi"
)

func newOpenAPICommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := api.NewSpec(a.cfg)
			if output != "" {
				return openapi.WriteJSON(spec, output)
			}

			data, err := openapi.MarshalJSON(spec)
			if err != nil {
				return fmt.Errorf("marshal openapi: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}
