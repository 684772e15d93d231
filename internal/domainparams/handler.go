package domainparams

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/localegate/internal/domainconfig"
	"github.com/yanizio/localegate/internal/metrics"
	"github.com/yanizio/localegate/internal/requestinfo"
)

// Looker is the part of *Store the handler needs.
type Looker interface {
	Lookup(ctx context.Context, domain string) (domainconfig.Config, error)
}

// Handler serves GET domainconfig.EndpointPath.  It always answers 200;
// store failures degrade to the defaults.
func Handler(store Looker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Header.Get("X-Forwarded-Host")
		if host == "" {
			host = r.Host
		}
		domain := requestinfo.NormalizeHost(host)

		cfg, err := store.Lookup(r.Context(), domain)
		source := "store"
		if err != nil {
			zap.L().Error("domain params lookup failed",
				zap.String("domain", domain), zap.Error(err))
			cfg = domainconfig.Normalize(domainconfig.Config{})
			source = "defaults"
		}
		metrics.DomainParamsServedTotal.WithLabelValues(source).Inc()

		h := w.Header()
		h.Set("Content-Type", "application/json")
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		h.Set("Pragma", "no-cache")
		_ = json.NewEncoder(w).Encode(cfg)
	})
}
