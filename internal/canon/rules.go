package canon

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Rule names, as reported in Decision.Rule, logs, and metrics.
const (
	RuleStripLanguageQuery = "strip-language-query"
	RuleEnrichDomainParams = "enrich-domain-params"
	RuleStripDefaultPrefix = "strip-default-prefix"
	RuleRootLocale         = "root-locale"
	RulePassthrough        = "passthrough"
)

// Query keys the engine manages.
const (
	KeyLanguage = "language"
	KeyCurrency = "currency"
	KeyTheme    = "theme"
)

// Rule is one step of the canonicalization chain.  Match returns ok=false
// to let the next rule run.  Each redirecting rule changes exactly the
// state its own condition tests, so it cannot fire twice in a row.
type Rule interface {
	Name() string
	Match(ctx context.Context, ev *Evaluation) (Decision, bool)
}

// rules is the fixed evaluation order.  Reordering can reintroduce loops.
func rules() []Rule {
	return []Rule{
		stripLanguageQuery{},
		enrichDomainParams{},
		stripDefaultPrefix{},
		rootLocale{},
	}
}

//
// 1. strip-language-query
//

// A locale prefix is the single source of truth; a lingering ?language=
// is removed.
type stripLanguageQuery struct{}

func (stripLanguageQuery) Name() string { return RuleStripLanguageQuery }

func (r stripLanguageQuery) Match(_ context.Context, ev *Evaluation) (Decision, bool) {
	if ev.PathLanguage == "" || !ev.Request.Query.Has(KeyLanguage) {
		return Decision{}, false
	}
	next := ev.Request
	next.Query = next.Query.Without(KeyLanguage)
	return redirectTo(r.Name(), next), true
}

//
// 2. enrich-domain-params
//

// Adds whichever of language, currency, and theme are missing, using the
// tenant's defaults.  After it fires all three are present, so it cannot
// match again.  Resolver failure makes it a no-op.
type enrichDomainParams struct{}

func (enrichDomainParams) Name() string { return RuleEnrichDomainParams }

func (r enrichDomainParams) Match(ctx context.Context, ev *Evaluation) (Decision, bool) {
	if ev.Skip {
		return Decision{}, false
	}
	q := ev.Request.Query
	hasLanguage := q.Has(KeyLanguage) || ev.PathLanguage != ""
	hasCurrency := q.Has(KeyCurrency)
	hasTheme := q.Has(KeyTheme)
	if hasLanguage && hasCurrency && hasTheme {
		return Decision{}, false
	}

	cfg, err := ev.DomainConfig(ctx)
	if err != nil {
		zap.L().Warn("enrichment skipped, domain config unavailable",
			zap.String("host", ev.Request.Host),
			zap.String("path", ev.Request.Path),
			zap.Error(err))
		return Decision{}, false
	}

	next := ev.Request
	if !hasLanguage {
		next.Query = next.Query.With(KeyLanguage, cfg.Language)
	}
	if !hasCurrency {
		next.Query = next.Query.With(KeyCurrency, cfg.Currency)
	}
	if !hasTheme {
		next.Query = next.Query.With(KeyTheme, cfg.Theme)
	}
	return redirectTo(r.Name(), next), true
}

//
// 3. strip-default-prefix
//

// The default language never carries a prefix: /en/about → /about.
type stripDefaultPrefix struct{}

func (stripDefaultPrefix) Name() string { return RuleStripDefaultPrefix }

func (r stripDefaultPrefix) Match(_ context.Context, ev *Evaluation) (Decision, bool) {
	if firstSegment(ev.Request.Path) != ev.settings.defaultLanguage {
		return Decision{}, false
	}
	next := ev.Request
	rest := strings.TrimPrefix(strings.TrimPrefix(next.Path, "/"), ev.settings.defaultLanguage)
	next.Path = "/" + strings.TrimPrefix(rest, "/")
	return redirectTo(r.Name(), next), true
}

//
// 4. root-locale
//

// Sends the bare root to the tenant's default locale when that locale is
// supported and not the implicit default.
type rootLocale struct{}

func (rootLocale) Name() string { return RuleRootLocale }

func (r rootLocale) Match(ctx context.Context, ev *Evaluation) (Decision, bool) {
	if ev.PathLanguage != "" {
		return Decision{}, false
	}
	if p := ev.Request.Path; p != "/" && p != "" {
		return Decision{}, false
	}

	cfg, err := ev.DomainConfig(ctx)
	if err != nil {
		zap.L().Warn("root locale skipped, domain config unavailable",
			zap.String("host", ev.Request.Host),
			zap.Error(err))
		return Decision{}, false
	}
	lang := cfg.Language
	if lang == ev.settings.defaultLanguage || !ev.settings.isSupported(lang) {
		return Decision{}, false
	}

	next := ev.Request
	next.Path = "/" + lang
	return redirectTo(r.Name(), next), true
}
