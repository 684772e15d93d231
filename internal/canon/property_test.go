package canon

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/yanizio/localegate/internal/domainconfig"
)

// Worst case is /en on a non-English tenant: enrich, strip /en, root
// locale, strip ?language, passthrough.  /en is not a locale prefix, so
// ?language= on it neither triggers the strip rule nor a second enrichment.
const maxRedirects = 4

func genRequest(t *rapid.T) Request {
	first := rapid.SampledFrom([]string{
		"", "en", "ru", "he", "es", "api", "config", "usage", "plans", "english", "zz",
	}).Draw(t, "first")
	rest := rapid.SampledFrom([]string{"", "/about", "/plans/42", "/"}).Draw(t, "rest")
	path := "/" + first + rest
	if first == "" {
		path = rest
		if path == "" {
			path = rapid.SampledFrom([]string{"/", ""}).Draw(t, "root")
		}
	}

	var parts []string
	for _, key := range []string{KeyLanguage, KeyCurrency, KeyTheme, "ref"} {
		if rapid.Bool().Draw(t, "has_"+key) {
			v := rapid.SampledFrom([]string{"", "en", "ru", "USD", "dark", "x%20y"}).Draw(t, "val_"+key)
			parts = append(parts, key+"="+v)
		}
	}
	return NewRequest(path, strings.Join(parts, "&"), "www.example.com")
}

func genResolver(t *rapid.T) domainconfig.Resolver {
	if rapid.Bool().Draw(t, "resolver_fails") {
		return failing()
	}
	lang := rapid.SampledFrom([]string{"", "en", "ru", "he", "ar", "zz"}).Draw(t, "lang")
	cur := rapid.SampledFrom([]string{"", "usd", "EUR", "bogus"}).Draw(t, "cur")
	theme := rapid.SampledFrom([]string{"", "dark", "white", "LIGHT"}).Draw(t, "theme")
	return &fakeResolver{hosts: map[string]domainconfig.Config{
		"www.example.com": {Language: lang, Currency: cur, Theme: theme},
	}}
}

func TestProperty_ChainReachesFixedPoint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(genResolver(t), DefaultSettings())
		req := genRequest(t)

		chain := e.Trace(context.Background(), req, maxRedirects+1)
		last := chain[len(chain)-1]
		if last.IsRedirect() {
			t.Fatalf("no fixed point for %q: %+v", req.URI(), chain)
		}
		if len(chain)-1 > maxRedirects {
			t.Fatalf("%d redirects for %q", len(chain)-1, req.URI())
		}

		// The canonical URL stays put when requested again.
		final := req
		if len(chain) > 1 {
			u, err := url.Parse(chain[len(chain)-2].Location)
			if err != nil {
				t.Fatalf("bad location: %v", err)
			}
			final = FromURL(u, req.Host)
		}
		if again := e.Evaluate(context.Background(), final); again.IsRedirect() {
			t.Fatalf("canonical %q redirected again to %q", final.URI(), again.Location)
		}

		// No hop ever repeats the same location.
		seen := map[string]bool{}
		for _, d := range chain {
			if !d.IsRedirect() {
				continue
			}
			if seen[d.Location] {
				t.Fatalf("loop through %q for %q", d.Location, req.URI())
			}
			seen[d.Location] = true
		}
	})
}

func TestProperty_EnrichmentKeysUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(genResolver(t), DefaultSettings())
		req := genRequest(t)

		d := e.Evaluate(context.Background(), req)
		if d.Rule != RuleEnrichDomainParams {
			return
		}
		_, raw, _ := strings.Cut(d.Location, "?")
		for _, key := range []string{KeyLanguage, KeyCurrency, KeyTheme} {
			n := strings.Count("&"+raw, "&"+key+"=")
			if key == KeyLanguage && e.settings.pathLanguage(req.Path) != "" {
				if n != 0 {
					t.Fatalf("language added under a locale prefix: %q", d.Location)
				}
				continue
			}
			if n != 1 {
				t.Fatalf("key %s appears %d times in %q", key, n, d.Location)
			}
		}
	})
}
