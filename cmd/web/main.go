// cmd/web/main.go
//
// localegate – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load configuration (.env → conf/global.yaml → LOCALEGATE_ env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Resolve `vault:` references when the config carries any.
//
//  4. Open the control-plane DB when the domain params endpoint is enabled.
//
//  5. Build the canonicalization engine around the domain params client.
//
//  6. Mount the router (see router.go) and serve until SIGINT or SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/yanizio/localegate/internal/accesslog"
	"github.com/yanizio/localegate/internal/canon"
	"github.com/yanizio/localegate/internal/config"
	"github.com/yanizio/localegate/internal/database"
	"github.com/yanizio/localegate/internal/domainconfig"
	"github.com/yanizio/localegate/internal/domainparams"
	"github.com/yanizio/localegate/internal/logger"
	"github.com/yanizio/localegate/internal/server"
	"github.com/yanizio/localegate/internal/upstream"
	"github.com/yanizio/localegate/internal/vault"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("localegate: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zl, err := logger.New(cfg.Paths.Root, cfg.Log.Level, runningInTTY())
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	//
	// ── 1.  Secrets ─────────────────────────────────────────────────────
	//
	if cfg.HasSecrets() {
		vc, err := vault.New(ctx, zl)
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		if err := config.ResolveSecrets(ctx, cfg, vc); err != nil {
			return err
		}
		zl.Info("vault secrets resolved")
	}

	//
	// ── 2.  Domain params store (optional) ──────────────────────────────
	//
	var params domainparams.Looker
	if cfg.DomainParams.Enabled {
		db, err := database.Open(ctx, cfg.Database.DSNWithPassword())
		if err != nil {
			return err
		}
		defer db.Close()
		params = domainparams.NewStore(db, cfg.DomainParams.BrandSlug, cfg.DomainParams.StoreID)
		zl.Info("control db online",
			zap.String("brand", cfg.DomainParams.BrandSlug),
			zap.String("store", cfg.DomainParams.StoreID))
	}

	//
	// ── 3.  Engine, proxy, and access log ───────────────────────────────
	//
	target, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return fmt.Errorf("upstream url: %w", err)
	}

	geo, err := accesslog.OpenGeo(cfg.Log.GeoIPPath)
	if err != nil {
		return fmt.Errorf("open geoip db: %w", err)
	}
	defer geo.Close()

	resolver := domainconfig.NewClient(cfg.Resolver.BaseURL, cfg.Resolver.Timeout, nil)
	engine := canon.New(resolver, cfg.EngineSettings())
	zl.Info("canon engine ready", zap.Strings("rules", engine.RuleNames()))

	h := newRouter(cfg, deps{
		engine:   engine,
		params:   params,
		upstream: upstream.New(target),
		geo:      geo,
		log:      zl,
	})

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, h, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})
	return server.Run(ctx, srv)
}
