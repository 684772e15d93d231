// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects the headers every page and asset response carries:
//
//   • X-Content-Type-Options  –  MIME-sniffing defence
//   • Referrer-Policy         –  origin only on cross-origin navigation
//   • Permissions-Policy      –  payment request API allowed for checkout
//
// Notes
// -----
// • Headers are set *before* next.ServeHTTP, since anything added after
//   the first Write is lost.  Handlers may still overwrite them.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// Security header values.
const (
	NoSniff           = "nosniff"
	ReferrerPolicy    = "origin-when-cross-origin"
	PermissionsPolicy = "payment=*"
)

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		setDefault(h, "X-Content-Type-Options", NoSniff)
		setDefault(h, "Referrer-Policy", ReferrerPolicy)
		setDefault(h, "Permissions-Policy", PermissionsPolicy)
		next.ServeHTTP(w, r)
	})
}

func setDefault(h http.Header, key, val string) {
	if h.Get(key) == "" {
		h.Set(key, val)
	}
}
