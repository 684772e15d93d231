// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` immediately after defaults are applied.
// Any validation error aborts startup, so the binary never runs with
// partial, malformed, or missing configuration.
//
// Beyond the struct tags, one cross-field rule is registered here: the
// default locale must be among the supported codes, otherwise the engine
// could never produce a passthrough for it.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if !slices.Contains(c.Locale.Supported, c.Locale.Default) {
		return fmt.Errorf("locale.default %q is not in locale.supported", c.Locale.Default)
	}
	if c.DomainParams.Enabled && c.Database.DSN == "" {
		return fmt.Errorf("domain_params.enabled requires database.dsn")
	}
	return nil
}
