package canon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/localegate/internal/domainconfig"
	"github.com/yanizio/localegate/internal/requestinfo"
)

// fakeResolver answers from a host map and counts calls.
type fakeResolver struct {
	mu    sync.Mutex
	hosts map[string]domainconfig.Config
	err   error
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, host string) (domainconfig.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domainconfig.Config{}, f.err
	}
	return domainconfig.Normalize(f.hosts[host]), nil
}

func (f *fakeResolver) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func resolverFor(lang, currency, theme string) *fakeResolver {
	return &fakeResolver{hosts: map[string]domainconfig.Config{
		"example.com": {Language: lang, Currency: currency, Theme: theme},
	}}
}

func failing() *fakeResolver {
	return &fakeResolver{err: domainconfig.ErrUnavailable}
}

func evaluate(t *testing.T, r domainconfig.Resolver, target string) Decision {
	t.Helper()
	path, raw, _ := strings.Cut(target, "?")
	return New(r, DefaultSettings()).Evaluate(context.Background(), NewRequest(path, raw, "example.com"))
}

func TestRuleOrder(t *testing.T) {
	e := New(failing(), DefaultSettings())
	assert.Equal(t, []string{
		RuleStripLanguageQuery,
		RuleEnrichDomainParams,
		RuleStripDefaultPrefix,
		RuleRootLocale,
	}, e.RuleNames())
}

func TestStripLanguageQuery_SingleHopNoResolver(t *testing.T) {
	res := resolverFor("en", "USD", "light")
	d := evaluate(t, res, "/ru?language=ru")

	require.True(t, d.IsRedirect())
	assert.Equal(t, RuleStripLanguageQuery, d.Rule)
	assert.Equal(t, "/ru", d.Location)
	assert.Zero(t, res.Calls())
}

func TestStripLanguageQuery_KeepsOtherKeys(t *testing.T) {
	d := evaluate(t, failing(), "/he/plans?currency=ILS&language=he&theme=dark")
	require.True(t, d.IsRedirect())
	assert.Equal(t, "/he/plans?currency=ILS&theme=dark", d.Location)
}

func TestEnrich_AddsAllMissingKeys(t *testing.T) {
	res := resolverFor("ru", "eur", "dark")
	d := evaluate(t, res, "/plans")

	require.True(t, d.IsRedirect())
	assert.Equal(t, RuleEnrichDomainParams, d.Rule)
	assert.Equal(t, "/plans?language=ru&currency=EUR&theme=dark", d.Location)
	assert.Equal(t, 1, res.Calls())
}

func TestEnrich_NeverOverwritesPresentKeys(t *testing.T) {
	res := resolverFor("ru", "EUR", "dark")
	d := evaluate(t, res, "/plans?theme=light&currency=ILS")

	require.True(t, d.IsRedirect())
	assert.Equal(t, "/plans?theme=light&currency=ILS&language=ru", d.Location)
}

func TestEnrich_PathLanguageCountsAsPresent(t *testing.T) {
	res := resolverFor("en", "USD", "light")
	d := evaluate(t, res, "/fr/plans")

	require.True(t, d.IsRedirect())
	assert.Equal(t, "/fr/plans?currency=USD&theme=light", d.Location)
}

func TestEnrich_DefaultsWhenResolverOmitsFields(t *testing.T) {
	res := resolverFor("", "", "")
	d := evaluate(t, res, "/")
	require.True(t, d.IsRedirect())
	assert.Equal(t, "/?language=en&currency=USD&theme=light", d.Location)
}

func TestEnrich_NoQueryDuplication(t *testing.T) {
	res := resolverFor("de", "EUR", "dark")
	d := evaluate(t, res, "/plans?currency=EUR&currency=GBP")

	require.True(t, d.IsRedirect())
	assert.Equal(t, "/plans?currency=EUR&currency=GBP&language=de&theme=dark", d.Location)
}

func TestRedirects_LeaveUnrelatedQueryAlone(t *testing.T) {
	d := evaluate(t, failing(), "/en/about?x=1&x=2&flag")
	require.True(t, d.IsRedirect())
	assert.Equal(t, RuleStripDefaultPrefix, d.Rule)
	assert.Equal(t, "/about?x=1&x=2&flag", d.Location)

	d = evaluate(t, failing(), "/ru/plans?flag&language=ru&q=a%20b&language=en")
	require.True(t, d.IsRedirect())
	assert.Equal(t, RuleStripLanguageQuery, d.Rule)
	assert.Equal(t, "/ru/plans?flag&q=a%20b", d.Location)

	d = evaluate(t, resolverFor("ru", "RUB", "dark"), "/plans?x=1&x=2&flag")
	require.True(t, d.IsRedirect())
	assert.Equal(t, "/plans?x=1&x=2&flag&language=ru&currency=RUB&theme=dark", d.Location)
}

func TestSkipList_NeverEnriches(t *testing.T) {
	for _, path := range []string{"/api/plans", "/config", "/auth/callback", "/my-esims", "/data-usage/1", "/usage"} {
		res := resolverFor("ru", "EUR", "dark")
		d := evaluate(t, res, path)
		assert.False(t, d.IsRedirect(), "path %s", path)
		assert.Zero(t, res.Calls(), "path %s", path)
	}
}

func TestSkipList_SegmentBoundary(t *testing.T) {
	res := resolverFor("en", "USD", "light")
	d := evaluate(t, res, "/apiary")
	require.True(t, d.IsRedirect())
	assert.Equal(t, RuleEnrichDomainParams, d.Rule)
}

func TestStripDefaultPrefix(t *testing.T) {
	d := evaluate(t, failing(), "/en/about")
	require.True(t, d.IsRedirect())
	assert.Equal(t, RuleStripDefaultPrefix, d.Rule)
	assert.Equal(t, "/about", d.Location)

	d = evaluate(t, resolverFor("en", "USD", "light"), "/en/about?language=en&currency=USD&theme=light")
	require.True(t, d.IsRedirect())
	assert.Equal(t, "/about?language=en&currency=USD&theme=light", d.Location)

	d = evaluate(t, failing(), "/en")
	require.True(t, d.IsRedirect())
	assert.Equal(t, "/", d.Location)

	d = evaluate(t, failing(), "/english")
	assert.False(t, d.IsRedirect())
}

func TestRootLocale(t *testing.T) {
	res := resolverFor("ru", "RUB", "light")
	d := evaluate(t, res, "/?language=ru&currency=RUB&theme=light")

	require.True(t, d.IsRedirect())
	assert.Equal(t, RuleRootLocale, d.Rule)
	assert.Equal(t, "/ru?language=ru&currency=RUB&theme=light", d.Location)
	assert.Equal(t, 1, res.Calls())

	chain := New(res, DefaultSettings()).Trace(context.Background(),
		NewRequest("/", "", "example.com"), 0)
	last := chain[len(chain)-1]
	require.False(t, last.IsRedirect())
	assert.Equal(t, "ru", last.Info.Language)
	assert.Equal(t, "/ru", last.Info.Pathname)
}

func TestTrace_LongestChain(t *testing.T) {
	res := resolverFor("ru", "RUB", "dark")
	chain := New(res, DefaultSettings()).Trace(context.Background(),
		NewRequest("/en", "language=en", "example.com"), 0)

	rules := make([]string, 0, len(chain))
	for _, d := range chain {
		rules = append(rules, d.Rule)
	}
	assert.Equal(t, []string{
		RuleEnrichDomainParams,
		RuleStripDefaultPrefix,
		RuleRootLocale,
		RuleStripLanguageQuery,
		RulePassthrough,
	}, rules)
	assert.Equal(t, "/en?language=en&currency=RUB&theme=dark", chain[0].Location)
	assert.Equal(t, "/ru?currency=RUB&theme=dark", chain[len(chain)-2].Location)
}

func TestTrace_StopsAtMaxHops(t *testing.T) {
	res := resolverFor("ru", "RUB", "dark")
	chain := New(res, DefaultSettings()).Trace(context.Background(),
		NewRequest("/en", "language=en", "example.com"), 2)
	assert.Len(t, chain, 3)
	assert.True(t, chain[2].IsRedirect())
}

func TestRootLocale_IgnoresDefaultAndUnsupported(t *testing.T) {
	for _, lang := range []string{"en", "zz"} {
		res := resolverFor(lang, "USD", "light")
		d := evaluate(t, res, "/?language=x&currency=USD&theme=light")
		assert.False(t, d.IsRedirect(), "lang %s", lang)
	}
}

func TestResolverFailure_SilentAndSingleCall(t *testing.T) {
	res := failing()
	d := evaluate(t, res, "/")

	require.False(t, d.IsRedirect())
	assert.Equal(t, RulePassthrough, d.Rule)
	assert.Equal(t, requestinfo.Info{Pathname: "/", Language: "en", Domain: "example.com"}, d.Info)
	assert.Equal(t, 1, res.Calls(), "rules 2 and 4 share one resolver call")
}

func TestResolverFailure_RealClient(t *testing.T) {
	for name, h := range map[string]http.HandlerFunc{
		"500": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			client := domainconfig.NewClient(srv.URL, 50*time.Millisecond, nil)
			d := evaluate(t, client, "/plans")
			require.False(t, d.IsRedirect())
			assert.Equal(t, "/plans", d.Info.Pathname)
		})
	}
}

func TestPassthrough_HeaderContract(t *testing.T) {
	e := New(failing(), DefaultSettings())
	d := e.Evaluate(context.Background(),
		NewRequest("/ru/plans", "currency=USD&theme=dark", "www.Example.com:443"))

	require.False(t, d.IsRedirect())
	assert.Equal(t, requestinfo.Info{
		Pathname: "/ru/plans",
		Language: "ru",
		Domain:   "example.com",
	}, d.Info)
}

func TestLocation_NeverProtocolRelative(t *testing.T) {
	d := evaluate(t, resolverFor("en", "USD", "light"), "//evil.example/x")
	require.True(t, d.IsRedirect())
	assert.False(t, strings.HasPrefix(d.Location, "//"), d.Location)
}

func TestSettings_AreCopied(t *testing.T) {
	s := DefaultSettings()
	e := New(failing(), s)
	s.Supported[6] = "it"

	d := e.Evaluate(context.Background(), NewRequest("/ru", "currency=USD&theme=light", "example.com"))
	assert.Equal(t, "ru", d.Info.Language)
}

func TestEvaluate_ConcurrentRequestsIsolated(t *testing.T) {
	res := &fakeResolver{hosts: map[string]domainconfig.Config{
		"ru.example.com": {Language: "ru"},
		"he.example.com": {Language: "he"},
	}}
	e := New(res, DefaultSettings())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		host, want := "ru.example.com", "/ru?language=ru&currency=USD&theme=light"
		if i%2 == 1 {
			host, want = "he.example.com", "/he?language=he&currency=USD&theme=light"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := e.Evaluate(context.Background(),
				NewRequest("/", "language="+host[:2]+"&currency=USD&theme=light", host))
			assert.Equal(t, want, d.Location)
		}()
	}
	wg.Wait()
}
