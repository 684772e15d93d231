// Package metrics holds Prometheus instruments that are used across the
// edge.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolver outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeMalformed   = "malformed"
	OutcomeTimeout     = "timeout"
)

var (
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canon_decisions_total",
			Help: "Engine decisions by the rule that produced them.",
		}, []string{"rule"})

	DomainConfigRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_config_requests_total",
			Help: "Domain config resolver calls by outcome.",
		}, []string{"outcome"})

	DomainConfigDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "domain_config_duration_seconds",
			Help:    "Latency of domain config resolver calls.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		})

	DomainParamsServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_params_served_total",
			Help: "Domain params responses by source (store or defaults).",
		}, []string{"source"})

	LegacyRedirectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "legacy_locale_redirects_total",
			Help: "Cumulative number of legacy locale prefix redirects.",
		})
)

func init() {
	prometheus.MustRegister(
		DecisionsTotal,
		DomainConfigRequestsTotal,
		DomainConfigDuration,
		DomainParamsServedTotal,
		LegacyRedirectsTotal,
	)
}
