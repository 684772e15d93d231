package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/localegate/internal/accesslog"
	"github.com/yanizio/localegate/internal/config"
	"github.com/yanizio/localegate/internal/domainconfig"
	"github.com/yanizio/localegate/internal/domainparams"
	"github.com/yanizio/localegate/internal/middleware"
	"github.com/yanizio/localegate/internal/routing"
)

type deps struct {
	engine   middleware.Decider
	params   domainparams.Looker // nil when the endpoint is disabled
	upstream http.Handler
	geo      *accesslog.Geo
	log      *zap.Logger
}

// newRouter assembles the handler tree.  Page paths run through the legacy
// locale table and then the canon engine; everything else goes straight to
// the upstream.
func newRouter(cfg *config.Config, d deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(accesslog.Middleware(d.log, d.geo))
	r.Use(middleware.Security)
	if cfg.HTTP.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if d.params != nil {
		r.Get(domainconfig.EndpointPath, domainparams.Handler(d.params).ServeHTTP)
	}

	scope := routing.NewScope(cfg.Routing.BypassPrefixes)
	r.Group(func(r chi.Router) {
		r.Use(scope.Gate(routing.LegacyLocales(cfg.Routing.LegacyLocales)))
		r.Use(scope.Gate(middleware.Canonicalize(d.engine)))
		r.Handle("/*", d.upstream)
	})

	return r
}
