package config

import (
	"strings"
	"time"

	"github.com/yanizio/localegate/internal/canon"
	"github.com/yanizio/localegate/internal/domainconfig"
	"github.com/yanizio/localegate/internal/routing"
)

// applyDefaults fills zero values so a minimal YAML file is enough.
func applyDefaults(c *Config) {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Resolver.Timeout == 0 {
		c.Resolver.Timeout = domainconfig.DefaultTimeout
	}

	def := canon.DefaultSettings()
	if c.Locale.Default == "" {
		c.Locale.Default = def.DefaultLanguage
	}
	if len(c.Locale.Supported) == 0 {
		c.Locale.Supported = def.Supported
	}
	if c.Routing.ReservedPrefixes == nil {
		c.Routing.ReservedPrefixes = def.ReservedPrefixes
	}
	if c.Routing.BypassPrefixes == nil {
		c.Routing.BypassPrefixes = routing.DefaultBypass()
	}
	if c.Routing.LegacyLocales == nil {
		c.Routing.LegacyLocales = routing.DefaultLegacyLocales()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// EngineSettings converts the locale and routing sections for canon.New.
func (c *Config) EngineSettings() canon.Settings {
	return canon.Settings{
		DefaultLanguage:  c.Locale.Default,
		Supported:        c.Locale.Supported,
		ReservedPrefixes: c.Routing.ReservedPrefixes,
	}
}

func fillPassword(dsn, pw string) string {
	if pw == "" || strings.Count(dsn, "%s") != 1 {
		return dsn
	}
	return strings.Replace(dsn, "%s", pw, 1)
}
