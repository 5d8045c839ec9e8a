package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roaming/internal/core/version"
	"roaming/internal/modkit"
	"roaming/internal/modkit/module"
	"roaming/internal/platform/config"
	"roaming/internal/platform/logger"
	"roaming/internal/platform/store"

	"roaming/internal/services/retention/domain"
	retentionmod "roaming/internal/services/retention/module"

	"github.com/jackc/pgx/v5/pgxpool"
)

// parseNow accepts RFC3339 or a bare date (midnight UTC); empty means wall clock
func parseNow(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad -now %q: want RFC3339 or YYYY-MM-DD", v)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func main() {
	var (
		fDryRun = flag.Bool("dryrun", false, "report what would be archived/deleted without touching anything")
		fNow    = flag.String("now", "", "evaluate the cutoff as of this instant (RFC3339 or YYYY-MM-DD, UTC)")
		fJSON   = flag.Bool("json", false, "print the run result as JSON instead of a summary")
	)
	flag.Parse()

	os.Exit(run(*fDryRun, *fNow, *fJSON))
}

func run(dryRun bool, nowFlag string, asJSON bool) int {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	logger.InitService(version.RetentionService)
	l := logger.Get()

	now, err := parseNow(nowFlag)
	if err != nil {
		l.Error().Err(err).Msg("invalid flags")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		AppName: version.RetentionService,
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l), store.WithPoolConfig(func(c *pgxpool.Config) {
		// one-shot: never keep spare connections around
		c.MinConns = 0
		c.MaxConnIdleTime = dbCfg.MayDuration("MAX_IDLE", time.Minute)
	}))
	if err != nil {
		l.Error().Err(err).Msg("store.Open failed")
		return 1
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	rm := retentionmod.New(deps)
	module.Register(rm.Name(), rm.Ports())

	res, err := rm.RunOnce(ctx, domain.RunOptions{DryRun: dryRun, Now: now})
	if err != nil {
		l.Error().Err(err).Msg("retention run failed; no datasets were affected")
		return 1
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			l.Error().Err(err).Msg("write result")
			return 1
		}
		return 0
	}
	writeSummary(os.Stdout, res)
	return 0
}
