package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newServicesCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the remote services with their versions and properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stop, err := a.start(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			services := a.infra.Pipelines.Services()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(services)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROLE\tNAME\tVERSION\tURL\tPROPERTIES")
			for _, s := range services {
				props := slices.Sorted(maps.Keys(s.SupportedProperties))
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					s.Role,
					s.Provenance.Name,
					s.Provenance.Version,
					s.Provenance.URL,
					strings.Join(props, ","),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}
