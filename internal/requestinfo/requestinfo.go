//
//  internal/requestinfo/requestinfo.go
//
//  Canonical request context handed from the edge to downstream renderers.
//  An Info value is produced only for passthrough requests, that is, once
//  the redirect engine has decided the URL is already canonical.  It is
//  inert, safe to log, and safe to share between goroutines.
//
//  Header contract
//  • x-pathname  original request path
//  • x-language  resolved locale code ("en" when the path has no prefix)
//  • x-domain    host without port or leading "www.", lower-cased
//

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
)

//
//  -----------------------------
//  Header names
//  -----------------------------
//

const (
	HeaderPathname = "x-pathname"
	HeaderLanguage = "x-language"
	HeaderDomain   = "x-domain"
)

// Headers lists the propagated header names in a stable order.
var Headers = []string{HeaderPathname, HeaderLanguage, HeaderDomain}

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Info is the normalized context of one canonical request.
type Info struct {
	Pathname string // "/ru/plans"
	Language string // "ru"
	Domain   string // "example.com"
}

// New builds Info from the raw path, the resolved language, and the raw
// Host header.
func New(path, language, host string) Info {
	return Info{
		Pathname: path,
		Language: language,
		Domain:   NormalizeHost(host),
	}
}

//
//  -----------------------------
//  Propagation
//  -----------------------------
//

// Propagate writes the three context headers into h.  Existing values are
// replaced so a response never carries two x-language values.
func Propagate(h http.Header, info Info) {
	h.Set(HeaderPathname, info.Pathname)
	h.Set(HeaderLanguage, info.Language)
	h.Set(HeaderDomain, info.Domain)
}

// FromHeader reads Info back from headers written by Propagate.  ok is
// false when any of the three headers is missing.
func FromHeader(h http.Header) (Info, bool) {
	info := Info{
		Pathname: h.Get(HeaderPathname),
		Language: h.Get(HeaderLanguage),
		Domain:   h.Get(HeaderDomain),
	}
	ok := info.Pathname != "" && info.Language != "" && info.Domain != ""
	return info, ok
}

// NormalizeHost strips the port and a leading "www." and lower-cases the
// result.  "www.Example.com:443" becomes "example.com" and "[::1]:8080"
// becomes "::1".
func NormalizeHost(host string) string {
	h := strings.TrimSpace(host)
	if hp, _, err := net.SplitHostPort(h); err == nil {
		h = hp
	}
	h = strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")
	h = strings.ToLower(h)
	return strings.TrimPrefix(h, "www.")
}

//
//  -----------------------------
//  Context helpers
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// WithInfo returns a child context carrying info.
func WithInfo(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the Info stored by WithInfo.  ok is false on requests
// that never passed through the engine (static assets, API routes).
func FromContext(ctx context.Context) (Info, bool) {
	v, ok := ctx.Value(ctxKey{}).(Info)
	return v, ok
}
