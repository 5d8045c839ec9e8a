package guardrails

import (
	"context"
	"fmt"
	"time"

	"roaming/internal/modkit/repokit"
)

// StatementTimeout bounds every statement of a retention transaction.
// The setting is transaction local so pooled connections are left untouched
func StatementTimeout(d time.Duration) repokit.BeginHook {
	ms := fmt.Sprintf("%d", d.Milliseconds())
	return func(ctx context.Context, q repokit.Queryer) error {
		_, err := q.Exec(ctx, `SELECT set_config('statement_timeout', $1, true)`, ms)
		return err
	}
}

// WithStatementTimeout wraps db so each Tx starts with StatementTimeout(d); d <= 0 returns db as is
func WithStatementTimeout(db repokit.TxRunner, d time.Duration) repokit.TxRunner {
	if d <= 0 {
		return db
	}
	return repokit.WithBeginHooks(db, StatementTimeout(d))
}
