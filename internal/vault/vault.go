// internal/vault/vault.go
//
// Vault client wrapper for localegate.
//
// Context
// -------
//   - Provides a concurrency‑safe wrapper around the HashiCorp Vault Go SDK.
//   - Adds background token renewal and a single-field KV‑v2 read.
//   - Used at boot to resolve `vault:` references in the configuration
//     (database DSN and password), so credentials never sit in YAML.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx, zap.L())       // during boot.
//  2. pw,  err := cli.GetKV(ctx, path, key)    // config.ResolveSecrets.
//
// Build tags: none.
package vault

import (
	"context"
	"fmt"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Create once at startup.  Zero value
// is invalid.
type Client struct {
	api *vault.Client
	log *zap.Logger
}

// New builds a client from VAULT_ADDR and VAULT_TOKEN and keeps the token
// renewed until ctx is cancelled.
func New(ctx context.Context, log *zap.Logger) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	c := Wrap(api, log)
	go c.renewLoop(ctx)
	return c, nil
}

// Wrap builds a Client around an existing API client without starting the
// renewal loop.
func Wrap(api *vault.Client, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{api: api, log: log.Named("vault")}
}

// GetKV reads one string field of a KV-v2 secret.  secretPath starts with
// the mount: "secret/localegate/db".  Secrets are read once at boot, so
// nothing is cached.
func (c *Client) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	mount, rel, ok := strings.Cut(secretPath, "/")
	if !ok || mount == "" || rel == "" || key == "" {
		return "", fmt.Errorf("vault ref %q#%q needs mount, path, and key", secretPath, key)
	}

	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}
	switch v := sec.Data[key].(type) {
	case string:
		c.log.Debug("secret read", zap.String("path", secretPath), zap.String("key", key))
		return v, nil
	case nil:
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	default:
		return "", fmt.Errorf("value at %s#%s is %T, not a string", secretPath, key, v)
	}
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	for ctx.Err() == nil {
		// Probe the current token.
		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			c.log.Warn("token renew self failed", zap.Error(err))
			backoff(ctx, 30*time.Second)
			continue
		}

		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			c.log.Info("token is not renewable, sleeping 1h")
			backoff(ctx, time.Hour)
			continue
		}

		w, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{Secret: sec})
		if err != nil {
			c.log.Warn("lifetime watcher init failed", zap.Error(err))
			backoff(ctx, 30*time.Second)
			continue
		}

		c.watch(ctx, w)
		backoff(ctx, 15*time.Second)
	}
}

// watch blocks until the watcher finishes or ctx is cancelled.
func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	go w.Start()
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				c.log.Warn("token renewal stopped", zap.Error(err))
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				c.log.Debug("token renewed", zap.Int("ttl_seconds", ev.Secret.Auth.LeaseDuration))
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
