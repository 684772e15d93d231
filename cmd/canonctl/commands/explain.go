package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/yanizio/localegate/internal/canon"
)

func explainCmd(o *options) *cobra.Command {
	var maxHops int
	cmd := &cobra.Command{
		Use:   "explain <path[?query]>",
		Short: "Print every redirect a request goes through",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse %q: %w", args[0], err)
			}
			req := canon.FromURL(u, o.host)

			out := cmd.OutOrStdout()
			chain := o.engine().Trace(cmd.Context(), req, maxHops)
			for i, d := range chain {
				if d.IsRedirect() {
					fmt.Fprintf(out, "%d  %-22s 307 %s\n", i+1, d.Rule, d.Location)
					continue
				}
				fmt.Fprintf(out, "%d  %-22s x-pathname=%s x-language=%s x-domain=%s\n",
					i+1, d.Rule, d.Info.Pathname, d.Info.Language, d.Info.Domain)
			}
			if last := chain[len(chain)-1]; last.IsRedirect() {
				return fmt.Errorf("no passthrough after %d hops", len(chain))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxHops, "max-hops", canon.DefaultMaxHops, "stop after this many redirects")
	return cmd
}
