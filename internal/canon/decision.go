package canon

import (
	"context"

	"github.com/yanizio/localegate/internal/domainconfig"
	"github.com/yanizio/localegate/internal/requestinfo"
)

// Kind tells a redirect apart from a passthrough.
type Kind int

const (
	Passthrough Kind = iota
	Redirect
)

func (k Kind) String() string {
	if k == Redirect {
		return "redirect"
	}
	return "passthrough"
}

// Decision is the single outcome of one evaluation.  Location is set only
// for redirects; Info only for passthroughs.
type Decision struct {
	Kind     Kind
	Rule     string
	Location string
	Info     requestinfo.Info
}

// IsRedirect reports whether d sends the client elsewhere.
func (d Decision) IsRedirect() bool { return d.Kind == Redirect }

func redirectTo(rule string, r Request) Decision {
	return Decision{Kind: Redirect, Rule: rule, Location: r.URI()}
}

// Evaluation is the per-request state rules inspect.  It is built once by
// the engine and discarded after the decision.
type Evaluation struct {
	Request Request
	// PathLanguage is the explicit non-default locale prefix, or "".
	PathLanguage string
	// Skip is true for reserved, non-page path namespaces.
	Skip bool

	settings *settings
	domain   *domainconfig.Once
}

// DomainConfig resolves the request host's tenant defaults.  The resolver
// is contacted at most once per Evaluation; later calls see the memoized
// result, failure included.
func (ev *Evaluation) DomainConfig(ctx context.Context) (domainconfig.Config, error) {
	return ev.domain.Resolve(ctx)
}

// ResolverCalls reports how many resolver round trips this evaluation made.
func (ev *Evaluation) ResolverCalls() int { return ev.domain.Calls() }
