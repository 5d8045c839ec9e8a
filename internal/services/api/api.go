// Package api provides the HTTP API for the application
package api

import (
	"context"

	"roaming/internal/platform/config"
	"roaming/internal/platform/logger"
	"roaming/internal/platform/metrics"
	phttp "roaming/internal/platform/net/http"
	"roaming/internal/platform/net/middleware"
	"roaming/internal/platform/store"

	"roaming/internal/modkit"
	"roaming/internal/modkit/httpkit"
	"roaming/internal/modkit/module"
	"roaming/internal/modkit/swaggerkit"

	metamod "roaming/internal/services/api/meta/module"
	retentionmod "roaming/internal/services/retention/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Registry
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool

	// Stack tunes the middleware every /api/v1 route runs through
	Stack httpkit.StackOptions

	// RunConcurrency caps in-flight retention API calls; 0 leaves them unthrottled
	RunConcurrency int
}

// Mount mounts the API service onto the given router.
// Boot work of the mounted modules runs before any route is registered
func Mount(ctx context.Context, r phttp.Router, opt Options) error {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		PG:      opt.Store.PG,
		Store:   opt.Store,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	var ropts []modkit.Option
	if opt.RunConcurrency > 0 {
		ropts = append(ropts, modkit.WithMiddlewares(middleware.Throttle(opt.RunConcurrency)))
	}
	retention := retentionmod.New(deps, ropts...)
	if err := retention.Boot(ctx); err != nil {
		return err
	}

	mods := []module.Module{
		metamod.New(deps),
		retention,
	}

	// Swagger, profiler and scrape endpoint live outside the versioned tree
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	metrics.Mount(r, opt.Metrics, opt.EnableMetrics)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
	return nil
}
