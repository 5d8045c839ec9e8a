// Command roaming-api serves the retention policy and run endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roaming/internal/core/version"
	"roaming/internal/modkit/httpkit"
	"roaming/internal/platform/config"
	"roaming/internal/platform/logger"
	"roaming/internal/platform/metrics"
	phttp "roaming/internal/platform/net/http"
	"roaming/internal/platform/net/middleware"
	"roaming/internal/platform/store"

	"roaming/internal/services/api"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	// bring up logging early
	logger.InitService(version.APIService)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: version.APIService,
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*l),
		store.WithPoolConfig(func(c *pgxpool.Config) {
			c.MaxConnIdleTime = pgCfg.MayDuration("MAX_IDLE", 5*time.Minute)
		}),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// reads CORE_API_API_PORT and CORE_API_SHUTDOWN_GRACE
	srv := phttp.NewServer(apiCfg)

	// modules read their own prefixes (CORE_RETENTION_*, CORE_API_ADMIN_TOKEN) off the root
	if err := api.Mount(ctx, srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Metrics:        metrics.New(),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
		Stack: httpkit.StackOptions{
			CORS:        middleware.CORSOptions{AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil)},
			SlowRequest: apiCfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
			Timeout:     apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		RunConcurrency: apiCfg.MayInt("RETENTION_MAX_INFLIGHT", 4),
	}); err != nil {
		l.Panic().Err(err).Msg("api boot failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
