package store

import (
	"context"
	"fmt"
	"time"

	"roaming/internal/platform/logger"
	"roaming/internal/platform/store/pg"

	"github.com/jackc/pgx/v5/pgxpool"
)

// openPG opens the pool and waits for the server to answer before publishing the adapter
func openPG(ctx context.Context, cfg Config, log logger.Logger, mut ...func(*pgxpool.Config)) (TxRunner, error) {
	pcfg := pg.Config{URL: cfg.PG.URL, MaxConns: cfg.PG.MaxConns, AppName: cfg.AppName}
	if cfg.PG.LogSQL {
		pcfg.Tracer = pg.NewTracer(log, time.Duration(cfg.PG.SlowQueryMs)*time.Millisecond)
	}
	pool, err := pg.Open(ctx, pcfg, mut...)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}

	backoff := 150 * time.Millisecond
	var lastErr error
	for i := range attempts {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(pool), nil
		}
		log.Debug().Err(lastErr).Int("attempt", i+1).Msg("pg not ready")

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 2*time.Second)
	}

	pool.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}
