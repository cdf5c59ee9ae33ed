package rpc

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter serves the read-only API. `/metrics` is mounted only if `registry` is not nil.
func NewRouter(querier IQuerier, registry *prometheus.Registry) http.Handler {
	h := &handlers{querier: querier}

	r := chi.NewRouter()
	r.Get("/pool", h.QueryPool)
	r.Route("/periods", func(r chi.Router) {
		r.Get("/", h.QueryPeriods)
		r.Get("/current", h.QueryCurrentPeriod)
		r.Get("/{id}", h.QueryPeriod)
	})
	r.Route("/accounts/{addr}", func(r chi.Router) {
		r.Get("/stakes", h.QueryStakes)
		r.Get("/stakes/{id}/reward", h.QueryReward)
		r.Get("/claimable", h.QueryClaimable)
		r.Get("/stats", h.QueryStats)
		r.Get("/balance", h.QueryBalance)
	})
	r.Get("/tokens/{name}/balances/{addr}", h.QueryTokenBalance)

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	return r
}
