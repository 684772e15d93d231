// internal/routing/legacy.go
//
// Permanent redirects from long-form language prefixes.
//
// Older links used "/hebrew/…", "/russian/…", and so on.  They now live
// under the two-letter code, so "/hebrew/plans?x=1" becomes
// "/he/plans?x=1" with a 308.  Only an exact first segment matches;
// "/hebrewish" is left alone.

package routing

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/localegate/internal/metrics"
)

// DefaultLegacyLocales maps old prefixes to locale codes.
func DefaultLegacyLocales() map[string]string {
	return map[string]string{
		"hebrew":  "he",
		"arabic":  "ar",
		"russian": "ru",
		"german":  "de",
		"french":  "fr",
		"spanish": "es",
	}
}

// LegacyLocales returns middleware issuing the redirects in aliases.
func LegacyLocales(aliases map[string]string) func(http.Handler) http.Handler {
	table := make(map[string]string, len(aliases))
	for from, to := range aliases {
		table[strings.Trim(from, "/")] = strings.Trim(to, "/")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seg, rest := splitFirst(r.URL.Path)
			code, ok := table[seg]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			target := BuildPath(code, rest)
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			zap.L().Debug("legacy locale redirect",
				zap.String("from", r.URL.Path),
				zap.String("to", target))
			metrics.LegacyRedirectsTotal.Inc()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
		})
	}
}

// splitFirst turns "/hebrew/plans/1" into ("hebrew", "plans/1").
func splitFirst(path string) (string, string) {
	p := strings.TrimPrefix(path, "/")
	seg, rest, _ := strings.Cut(p, "/")
	return seg, rest
}

// BuildPath joins parent and child with exactly one leading slash and no
// duplicate separators.  A trailing slash on child is dropped.
func BuildPath(parent, child string) string {
	parent = strings.Trim(parent, "/")
	child = strings.Trim(child, "/")

	switch {
	case parent == "" && child == "":
		return "/"
	case parent == "":
		return "/" + child
	case child == "":
		return "/" + parent
	default:
		return "/" + parent + "/" + child
	}
}
