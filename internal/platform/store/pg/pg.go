// Package pg opens the pgx pool behind the store
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32

	// AppName is reported as application_name in pg_stat_activity
	AppName string

	// Tracer is installed on every connection when set
	Tracer *Tracer
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg into a pool config, applies mut, and opens the pool.
// The pool connects lazily so Open itself does not touch the server
func Open(ctx context.Context, cfg Config, mut ...func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if cfg.Tracer != nil {
		pcfg.ConnConfig.Tracer = cfg.Tracer
	}
	for _, m := range mut {
		m(pcfg)
	}
	return newPool(ctx, pcfg)
}
