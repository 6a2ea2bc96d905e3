package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newKindsCommand(a *app) *cobra.Command {
	var strategies bool
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List field kinds and the strategy each resolves to",
		Long: `List field kinds and the strategy each resolves to.

With --strategies, list the strategy identifiers that field_faker_map
entries may point a kind at.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.settings.Registry()
			if err != nil {
				return err
			}
			if strategies {
				for _, id := range reg.Strategies() {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tSTRATEGY\tCLASS")
			for _, kind := range reg.Kinds() {
				s, err := reg.Lookup(kind)
				if err != nil {
					return err
				}
				id, _ := reg.Resolve(kind)
				class := s.FakerClass()
				if class == "" {
					class = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", kind, id, class)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&strategies, "strategies", false, "list available strategy identifiers instead")
	return cmd
}
