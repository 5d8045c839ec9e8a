// Package repo provides the Postgres storage for retention
package repo

import (
	"context"
	"time"

	"roaming/internal/modkit/repokit"
	perr "roaming/internal/platform/errors"
	"roaming/internal/platform/store"
	"roaming/internal/services/retention/domain"

	sq "github.com/Masterminds/squirrel"
)

// psql builds statements with $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewPG returns a binder over the retention tables
func NewPG() repokit.Binder[domain.StorageRepo] {
	return repokit.BindFunc[domain.StorageRepo](func(q repokit.Queryer) domain.StorageRepo {
		return &pgStore{q: q}
	})
}

type pgStore struct {
	q repokit.Queryer
}

func (s *pgStore) EnsurePolicyTable(ctx context.Context) error {
	_, err := s.q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS retention_settings (
			id             SMALLINT PRIMARY KEY CHECK (id = 1),
			enabled        BOOLEAN     NOT NULL DEFAULT false,
			retention_days INT         NOT NULL DEFAULT 0,
			mode           TEXT        NOT NULL DEFAULT 'delete',
			delete_files   BOOLEAN     NOT NULL DEFAULT false,
			interval_hours INT         NOT NULL DEFAULT 24,
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	// a concurrent first load can win the catalog race; the table exists either way
	if perr.IsConcurrentCreate(err) {
		return nil
	}
	return err
}

func (s *pgStore) SeedPolicy(ctx context.Context, p domain.Policy) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO retention_settings (id, enabled, retention_days, mode, delete_files, interval_hours)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		p.Enabled, p.RetentionDays, string(p.Mode), p.DeleteFiles, p.IntervalHours,
	)
	return err
}

// GetPolicy reads the singleton row; a missing row is perr.ErrNotFound
func (s *pgStore) GetPolicy(ctx context.Context) (domain.Policy, error) {
	return store.One(ctx, s.q, scanPolicy, `
		SELECT enabled, retention_days, mode, delete_files, interval_hours, updated_at
		  FROM retention_settings
		 WHERE id = 1`)
}

func (s *pgStore) UpsertPolicy(ctx context.Context, p domain.Policy) (domain.Policy, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO retention_settings (id, enabled, retention_days, mode, delete_files, interval_hours, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE
		   SET enabled        = EXCLUDED.enabled,
		       retention_days = EXCLUDED.retention_days,
		       mode           = EXCLUDED.mode,
		       delete_files   = EXCLUDED.delete_files,
		       interval_hours = EXCLUDED.interval_hours,
		       updated_at     = now()
		RETURNING enabled, retention_days, mode, delete_files, interval_hours, updated_at`,
		p.Enabled, p.RetentionDays, string(p.Mode), p.DeleteFiles, p.IntervalHours,
	)
	return scanPolicy(row)
}

func scanPolicy(row store.Row) (domain.Policy, error) {
	var (
		p       domain.Policy
		mode    string
		updated time.Time
	)
	if err := row.Scan(&p.Enabled, &p.RetentionDays, &mode, &p.DeleteFiles, &p.IntervalHours, &updated); err != nil {
		return domain.Policy{}, err
	}
	p.Mode = domain.Mode(mode)
	updated = updated.UTC()
	p.UpdatedAt = &updated
	return p, nil
}
