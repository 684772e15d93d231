// internal/middleware/canonicalize.go
//
// HTTP adapter around the redirect engine.
//
// Context
// -------
// Builds a canon.Request from the incoming *http.Request, asks the engine
// for its decision, and either
//
//   • writes a 307 with Location (redirect), or
//   • sets x-pathname, x-language, and x-domain on the response, stores the
//     same Info on the request context, and calls next (passthrough).
//
// The wrapper never writes an error status of its own.
//
// Notes
// -----
// • 307 keeps the method and is not cached by browsers, so a tenant that
//   changes its default language takes effect on the next visit.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"context"
	"net/http"

	"github.com/yanizio/localegate/internal/canon"
	"github.com/yanizio/localegate/internal/requestinfo"
)

// Decider is the part of *canon.Engine this wrapper needs.
type Decider interface {
	Evaluate(ctx context.Context, req canon.Request) canon.Decision
}

// Canonicalize returns middleware that enforces the engine's decision.
func Canonicalize(engine Decider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := canon.NewRequest(r.URL.Path, r.URL.RawQuery, r.Host)
			d := engine.Evaluate(r.Context(), req)

			if d.IsRedirect() {
				http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
				return
			}

			requestinfo.Propagate(w.Header(), d.Info)
			next.ServeHTTP(w, r.WithContext(requestinfo.WithInfo(r.Context(), d.Info)))
		})
	}
}
