// Package http serves the liveness, readiness and build endpoints under /meta
package http

import (
	"context"
	"net/http"
	"time"

	"roaming/internal/core/version"
	"roaming/internal/modkit/httpkit"
)

// Guarder checks every backend a store opened; *store.Store satisfies it
type Guarder interface {
	Guard(ctx context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time

	// Store is guarded by /ready; nil reports skipped
	Store Guarder

	// ReadyTimeout bounds each dependency probe, 2s when zero
	ReadyTimeout time.Duration

	now func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.now == nil {
		d.now = time.Now
	}
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

type handlers struct {
	deps Deps
}

// Health is the liveness payload
type Health struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime_seconds"`
}

// Check is one dependency probe; Status is ok, fail or skipped
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Ready is the readiness payload; Status is ok unless a probe failed
type Ready struct {
	Status string  `json:"status"`
	Checks []Check `json:"checks"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	now := h.deps.now()
	return Health{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

func (h *handlers) ready(r *http.Request) (any, error) {
	st := h.check(r.Context(), "store", h.deps.Store)

	status := "ok"
	if st.Status == "fail" {
		status = "fail"
	}
	return Ready{Status: status, Checks: []Check{st}}, nil
}

func (h *handlers) check(ctx context.Context, name string, g Guarder) Check {
	if g == nil {
		return Check{Name: name, Status: "skipped"}
	}
	ctx, cancel := context.WithTimeout(ctx, h.deps.ReadyTimeout)
	defer cancel()
	if err := g.Guard(ctx); err != nil {
		return Check{Name: name, Status: "fail", Error: err.Error()}
	}
	return Check{Name: name, Status: "ok"}
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
