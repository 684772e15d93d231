// internal/domainconfig/domainconfig.go
//
// Tenant defaults (language, currency, theme) keyed by request host.
//
// Context
// -------
// The edge never owns tenant configuration.  It asks the domain params
// endpoint once per eligible request and applies hard-coded defaults to
// anything the answer leaves out.  Nothing here caches across requests;
// every call is a fresh round trip.
//
// Notes
// -----
//   - Resolver is the narrow seam the redirect engine depends on.  A
//     deployment may wrap it with a timeout, a short-lived cache, or a
//     circuit breaker without touching the engine.
//   - Oxford commas, two spaces after periods.
package domainconfig

import (
	"context"
	"errors"
	"strings"
)

// Defaults applied per field when the resolver omits or garbles a value.
const (
	DefaultLanguage = "en"
	DefaultCurrency = "USD"
	DefaultTheme    = ThemeLight
)

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	// ErrUnavailable covers transport errors, timeouts, and non-2xx replies.
	ErrUnavailable = errors.New("domain config unavailable")
	// ErrMalformed is returned when the body is not a JSON object.
	ErrMalformed = errors.New("domain config malformed")
)

// Config is one tenant's resolved defaults.  Values are always populated
// once returned from Normalize.
type Config struct {
	Language string `json:"language"`
	Currency string `json:"currency"`
	Theme    string `json:"theme"`
}

// Resolver maps a raw Host header to a tenant Config.
type Resolver interface {
	Resolve(ctx context.Context, host string) (Config, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(ctx context.Context, host string) (Config, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, host string) (Config, error) {
	return f(ctx, host)
}

// Normalize fills defaults and canonicalizes each field.
func Normalize(c Config) Config {
	return Config{
		Language: NormalizeLanguage(c.Language),
		Currency: NormalizeCurrency(c.Currency),
		Theme:    NormalizeTheme(c.Theme),
	}
}

// NormalizeLanguage lower-cases the code; empty becomes DefaultLanguage.
func NormalizeLanguage(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLanguage
	}
	return s
}

// NormalizeCurrency upper-cases the code.  Anything that is not three ASCII
// letters becomes DefaultCurrency.
func NormalizeCurrency(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return DefaultCurrency
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return DefaultCurrency
		}
	}
	return s
}

// NormalizeTheme maps "dark" to dark and everything else, "white"
// included, to light.
func NormalizeTheme(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ThemeDark:
		return ThemeDark
	default:
		return ThemeLight
	}
}
