// Package guardrails keeps retention runs from overlapping
package guardrails

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"roaming/internal/modkit/repokit"
	perr "roaming/internal/platform/errors"
	"roaming/internal/platform/logger"
	"roaming/internal/platform/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrLeaseHeld signals another process is already running retention
var ErrLeaseHeld = errors.New("retention: run lease already held")

// Lease runs do while holding the run lease
type Lease func(ctx context.Context, do func(context.Context) error) error

// MakeRunLease claims the singleton retention_run_lease row (auto-reclaim via expires_at).
// Claim and release are single autocommit statements so no transaction is held across the run
func MakeRunLease(db repokit.TxRunner, owner string, ttl time.Duration) Lease {
	if db == nil {
		panic("retention.MakeRunLease requires a non nil TxRunner")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	toInterval := func(d time.Duration) string { return fmt.Sprintf("%d seconds", int64(d/time.Second)) }

	return func(ctx context.Context, do func(context.Context) error) error {
		// unique per claim so a stale release never frees somebody else's lease
		token := fmt.Sprintf("%s:%d:%s", owner, os.Getpid(), uuid.NewString())

		if err := ensureLeaseTable(ctx, db); err != nil {
			return err
		}

		claimed, err := store.Scalar[bool](ctx, db, `
			INSERT INTO retention_run_lease (id, owner, claimed_at, expires_at)
			VALUES (1, $1, now(), now() + ($2)::interval)
			ON CONFLICT (id) DO UPDATE
			   SET owner = EXCLUDED.owner, claimed_at = EXCLUDED.claimed_at, expires_at = EXCLUDED.expires_at
			 WHERE retention_run_lease.owner IS NULL OR retention_run_lease.expires_at <= now()
			RETURNING true
		`, token, toInterval(ttl))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return perr.Wrap(err, perr.ErrorCodeDB, "retention: claim lease")
		}
		if !claimed {
			return ErrLeaseHeld
		}

		defer func() {
			// release on a fresh context so a cancelled run still frees the lease
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if _, err := db.Exec(rctx, `
				UPDATE retention_run_lease
				   SET owner = NULL, claimed_at = NULL, expires_at = NULL
				 WHERE id = 1 AND owner = $1`, token); err != nil {
				logger.C(ctx).Warn().Err(err).Str("owner", token).Msg("retention: lease release failed")
			}
		}()

		return do(ctx)
	}
}

func ensureLeaseTable(ctx context.Context, db repokit.Queryer) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS retention_run_lease (
			id         SMALLINT PRIMARY KEY CHECK (id = 1),
			owner      TEXT,
			claimed_at TIMESTAMPTZ,
			expires_at TIMESTAMPTZ
		)`)
	// two first-ever claims can race on the catalog; the loser sees the table anyway
	if err != nil && !perr.IsConcurrentCreate(err) {
		return perr.Wrap(err, perr.ErrorCodeDB, "retention: ensure lease table")
	}
	return nil
}
