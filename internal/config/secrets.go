package config

import (
	"context"
	"fmt"
	"strings"
)

// VaultPrefix marks a value to be fetched from Vault, in the form
// vault:<mount>/<path>#<key>.
const VaultPrefix = "vault:"

// SecretFetcher is satisfied by *vault.Client.
type SecretFetcher interface {
	GetKV(ctx context.Context, secretPath, key string) (string, error)
}

// HasSecrets reports whether any field still holds a vault reference.
func (c *Config) HasSecrets() bool {
	for _, p := range c.secretFields() {
		if strings.HasPrefix(*p, VaultPrefix) {
			return true
		}
	}
	return false
}

// ResolveSecrets replaces every vault reference in c with its value.
func ResolveSecrets(ctx context.Context, c *Config, f SecretFetcher) error {
	for _, p := range c.secretFields() {
		if !strings.HasPrefix(*p, VaultPrefix) {
			continue
		}
		path, key, err := ParseVaultRef(*p)
		if err != nil {
			return err
		}
		val, err := f.GetKV(ctx, path, key)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", *p, err)
		}
		*p = val
	}
	return nil
}

// ParseVaultRef splits "vault:secret/localegate#password".
func ParseVaultRef(ref string) (path, key string, err error) {
	body, ok := strings.CutPrefix(ref, VaultPrefix)
	if !ok {
		return "", "", fmt.Errorf("not a vault reference: %q", ref)
	}
	path, key, ok = strings.Cut(body, "#")
	if !ok || path == "" || key == "" {
		return "", "", fmt.Errorf("vault reference %q must look like vault:mount/path#key", ref)
	}
	return path, key, nil
}

func (c *Config) secretFields() []*string {
	return []*string{&c.Database.DSN, &c.Database.Password}
}
