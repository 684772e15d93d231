// internal/config/model.go
//
// Typed configuration model for localegate.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                              – dotenv values,
//   • `conf/global.yaml`                           – primary static file,
//   • `LOCALEGATE_`-prefixed environment overrides – highest precedence.
//
// Any secret whose string begins with `vault:` is resolved through the
// Vault client by `ResolveSecrets` before the value is used, so callers
// only ever see plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • Zero values are filled by `applyDefaults` before validation.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

//
// Upstream section
//

// Upstream is the page renderer canonical requests are proxied to.
type Upstream struct {
	URL string `koanf:"url" validate:"required,url"`
}

//
// Resolver section
//

// Resolver points at the domain params endpoint.  Timeout bounds one
// round trip; a slow answer counts as a failure.
type Resolver struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"  validate:"gte=0"`
}

//
// Locale section
//

// Locale lists the supported codes.  Default is implicit in URLs.
type Locale struct {
	Default   string   `koanf:"default"   validate:"required,alpha,lowercase"`
	Supported []string `koanf:"supported" validate:"required,min=1,dive,required,alpha,lowercase"`
}

//
// Routing section
//

// Routing holds the path tables used around the engine.
type Routing struct {
	// ReservedPrefixes are first segments exempt from query enrichment.
	ReservedPrefixes []string `koanf:"reserved_prefixes"`
	// BypassPrefixes never reach the engine at all.
	BypassPrefixes []string `koanf:"bypass_prefixes"`
	// LegacyLocales maps old prefixes ("hebrew") to codes ("he").
	LegacyLocales map[string]string `koanf:"legacy_locales"`
}

//
// Database section
//

// Database configures the control-plane DB behind the domain params
// endpoint.  `DSN` may contain one `%s` verb for the password, which is
// usually a `vault:` reference so credentials stay out of flat files.
type Database struct {
	DSN      string `koanf:"dsn"`
	Password string `koanf:"password"`
}

// DSNWithPassword fills the `%s` verb, if any, with Password.
func (d Database) DSNWithPassword() string {
	return fillPassword(d.DSN, d.Password)
}

//
// Domain params section
//

// DomainParams enables the built-in domain params endpoint.
type DomainParams struct {
	Enabled   bool   `koanf:"enabled"`
	BrandSlug string `koanf:"brand_slug"`
	StoreID   string `koanf:"store_id"`
}

//
// Log section
//

// Log tunes the zap logger.
type Log struct {
	Level     string `koanf:"level"      validate:"omitempty,oneof=debug info warn error"`
	GeoIPPath string `koanf:"geoip_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // LOCALEGATE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP         HTTP         `koanf:"http"`
	Upstream     Upstream     `koanf:"upstream"`
	Resolver     Resolver     `koanf:"resolver"`
	Locale       Locale       `koanf:"locale"`
	Routing      Routing      `koanf:"routing"`
	Database     Database     `koanf:"database"`
	DomainParams DomainParams `koanf:"domain_params"`
	Log          Log          `koanf:"log"`
	Paths        Paths        `koanf:"-"`
}
