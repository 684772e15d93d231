// Package canon decides whether a page request is already canonical.
//
// The Engine runs a fixed, ordered list of rules against one Request.  The
// first rule that matches produces a redirect; when none does, the request
// passes through with its normalized context.  The engine never fails: a
// resolver error only turns the rule that needed it into a no-op.
package canon

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/yanizio/localegate/internal/domainconfig"
	"github.com/yanizio/localegate/internal/metrics"
	"github.com/yanizio/localegate/internal/requestinfo"
)

// DefaultMaxHops bounds Trace.  The longest chain for a single locale
// prefix is four redirects (/en on a non-English tenant).
const DefaultMaxHops = 5

// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	resolver domainconfig.Resolver
	settings settings
	rules    []Rule
}

// New builds an Engine around resolver with the given settings.
func New(resolver domainconfig.Resolver, s Settings) *Engine {
	return &Engine{
		resolver: resolver,
		settings: compile(s),
		rules:    rules(),
	}
}

// RuleNames lists the rules in evaluation order.
func (e *Engine) RuleNames() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Evaluate returns the single decision for req.
func (e *Engine) Evaluate(ctx context.Context, req Request) Decision {
	ev := &Evaluation{
		Request:      req,
		PathLanguage: e.settings.pathLanguage(req.Path),
		Skip:         e.settings.isReserved(req.Path),
		settings:     &e.settings,
		domain:       domainconfig.NewOnce(e.resolver, req.Host),
	}

	d, ok := e.match(ctx, ev)
	if !ok {
		lang := ev.PathLanguage
		if lang == "" {
			lang = e.settings.defaultLanguage
		}
		d = Decision{
			Kind: Passthrough,
			Rule: RulePassthrough,
			Info: requestinfo.New(req.Path, lang, req.Host),
		}
	}

	metrics.DecisionsTotal.WithLabelValues(d.Rule).Inc()
	zap.L().Debug("canon decision",
		zap.String("host", req.Host),
		zap.String("uri", req.URI()),
		zap.String("rule", d.Rule),
		zap.String("location", d.Location),
		zap.Int("resolver_calls", ev.ResolverCalls()))
	return d
}

func (e *Engine) match(ctx context.Context, ev *Evaluation) (Decision, bool) {
	for _, r := range e.rules {
		if d, ok := r.Match(ctx, ev); ok {
			return d, true
		}
	}
	return Decision{}, false
}

// Trace follows the redirect chain for req in-process and returns every
// decision, ending in a passthrough unless maxHops is exhausted first.
// maxHops <= 0 uses DefaultMaxHops.
func (e *Engine) Trace(ctx context.Context, req Request, maxHops int) []Decision {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	var chain []Decision
	for i := 0; i <= maxHops; i++ {
		d := e.Evaluate(ctx, req)
		chain = append(chain, d)
		if !d.IsRedirect() {
			return chain
		}
		u, err := url.Parse(d.Location)
		if err != nil {
			return chain
		}
		req = FromURL(u, req.Host)
	}
	return chain
}
