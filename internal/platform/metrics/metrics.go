// Package metrics owns the process prometheus registry and its scrape handler
package metrics

import (
	"net/http"

	phttp "roaming/internal/platform/net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric the service exports
const Namespace = "roaming"

// Registry wraps a private prometheus registry so tests never touch the global one
type Registry struct {
	reg *prometheus.Registry
}

// New returns a registry with the Go runtime and process collectors attached
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{reg: reg}
}

// Registerer is where service collectors register
func (r *Registry) Registerer() prometheus.Registerer { return r.reg }

// Gatherer exposes the registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Mount exposes /metrics on r when enabled
func Mount(r phttp.Router, reg *Registry, enabled bool) {
	if !enabled || reg == nil {
		return
	}
	r.Handle("/metrics", reg.Handler())
}
