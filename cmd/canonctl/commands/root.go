// Package commands implements canonctl, an offline view of the canon
// engine: which rule fires for a URL, where the redirect chain ends, and
// what the domain params endpoint answers for a host.
package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanizio/localegate/internal/canon"
	"github.com/yanizio/localegate/internal/domainconfig"
)

// options are shared by every subcommand.
type options struct {
	host        string
	resolverURL string
	timeout     time.Duration

	// static tenant, used instead of the resolver when any is set
	language string
	currency string
	theme    string
}

func (o *options) static() bool {
	return o.language != "" || o.currency != "" || o.theme != ""
}

func (o *options) resolver() domainconfig.Resolver {
	if o.static() {
		cfg := domainconfig.Normalize(domainconfig.Config{
			Language: o.language,
			Currency: o.currency,
			Theme:    o.theme,
		})
		return domainconfig.ResolverFunc(func(context.Context, string) (domainconfig.Config, error) {
			return cfg, nil
		})
	}
	return domainconfig.NewClient(o.resolverURL, o.timeout, nil)
}

func (o *options) engine() *canon.Engine {
	return canon.New(o.resolver(), canon.DefaultSettings())
}

// Execute runs canonctl against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:          "canonctl",
		Short:        "Inspect locale, currency, and theme canonicalization",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.host, "host", "localhost", "tenant host the request arrives on")
	pf.StringVar(&o.resolverURL, "resolver", "http://127.0.0.1:8080", "domain params base URL")
	pf.DurationVar(&o.timeout, "timeout", domainconfig.DefaultTimeout, "resolver timeout")
	pf.StringVar(&o.language, "language", "", "static tenant language (skips the resolver)")
	pf.StringVar(&o.currency, "currency", "", "static tenant currency (skips the resolver)")
	pf.StringVar(&o.theme, "theme", "", "static tenant theme (skips the resolver)")

	root.AddCommand(explainCmd(o), paramsCmd(o), rulesCmd())
	return root
}
