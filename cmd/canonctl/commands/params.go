package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func paramsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the normalized domain params for --host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.resolver().Resolve(cmd.Context(), o.host)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}
