// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"roaming/internal/core/version"
	"roaming/internal/modkit"
	"roaming/internal/modkit/httpkit"
	str "roaming/internal/platform/strings"

	metahttp "roaming/internal/services/api/meta/http"
)

// Module serves version and health endpoints
type Module struct {
	b         modkit.Built
	deps      modkit.Deps
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	return &Module{b: b, deps: deps, startedAt: time.Now()}
}

// MountRoutes mounts /version, /health and /ready under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		d := metahttp.Deps{
			ServiceName: version.APIService,
			StartedAt:   m.startedAt,
		}
		// a nil *store.Store must stay a nil Guarder
		if m.deps.Store != nil {
			d.Store = m.deps.Store
		}
		metahttp.Register(rr, d)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Ports is empty for meta
func (m *Module) Ports() any { return nil }
