// internal/routing/scope.go
//
// Route scope for the canonicalization engine.
//
// Context
// -------
// Only human-facing page paths go through the redirect engine.  Build
// artifacts, API routes, well-known root files, and anything that looks
// like a file (a "." anywhere in the path) are served untouched.  This is
// the primary filter; the engine's own reserved-prefix check is a second
// layer.
//
// A path is out of scope when the text after its leading "/" starts with
// one of the bypass prefixes, or contains a ".".  Prefixes match as plain
// string prefixes, so "api" also bypasses "/apiary".
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package routing

import (
	"net/http"
	"strings"
)

// DefaultBypass lists the prefixes served without canonicalization.
func DefaultBypass() []string {
	return []string{"_next", "api", "favicon.ico", "manifest.json", "robots.txt", "sitemap.xml"}
}

// Scope is immutable after NewScope.
type Scope struct {
	bypass []string
}

// NewScope copies prefixes.  Leading slashes are ignored.
func NewScope(prefixes []string) Scope {
	s := Scope{bypass: make([]string, 0, len(prefixes))}
	for _, p := range prefixes {
		if p = strings.TrimLeft(p, "/"); p != "" {
			s.bypass = append(s.bypass, p)
		}
	}
	return s
}

// IsPage reports whether path must be canonicalized.
func (s Scope) IsPage(path string) bool {
	rest := strings.TrimPrefix(path, "/")
	if strings.Contains(rest, ".") {
		return false
	}
	for _, p := range s.bypass {
		if strings.HasPrefix(rest, p) {
			return false
		}
	}
	return true
}

// Gate applies mw only to page paths; everything else goes straight to
// next.
func (s Scope) Gate(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.IsPage(r.URL.Path) {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
