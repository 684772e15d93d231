// Package upstream forwards canonical requests to the page renderer.
//
// The proxy keeps the original Host so the renderer sees the tenant's
// domain, sets the usual X-Forwarded-* headers, and copies the propagated
// context (x-pathname, x-language, x-domain) onto the outbound request.
// Client-supplied copies of those headers are always dropped first, so
// the renderer can trust them.
package upstream

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"github.com/yanizio/localegate/internal/requestinfo"
)

// New returns a reverse proxy to target.
func New(target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host

			for _, name := range requestinfo.Headers {
				pr.Out.Header.Del(name)
			}
			if info, ok := requestinfo.FromContext(pr.In.Context()); ok {
				requestinfo.Propagate(pr.Out.Header, info)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			zap.L().Error("upstream request failed",
				zap.String("host", r.Host),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			w.WriteHeader(http.StatusBadGateway)
		},
	}
}
