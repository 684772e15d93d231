package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/localegate/internal/canon"
	"github.com/yanizio/localegate/internal/domainconfig"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := canon.New(domainconfig.ResolverFunc(nil), canon.DefaultSettings())
			for i, name := range e.RuleNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", i+1, name)
			}
			return nil
		},
	}
}
