// Package service provides the retention engine
package service

import (
	"context"
	"time"

	"roaming/internal/modkit/repokit"
	perr "roaming/internal/platform/errors"
	"roaming/internal/platform/logger"
	"roaming/internal/services/retention/domain"
	"roaming/internal/services/retention/guardrails"
)

// Config controls policy defaults and run guards
type Config struct {
	// Defaults seed the policy row the first time it is read
	Defaults domain.Policy

	// EnableLeases takes the run lease around non-dry runs
	EnableLeases bool
}

// Service wires TxRunner + Binder into the retention operations
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Cfg    Config

	// Disk reconciles blobs of deleted datasets; nil disables disk work
	Disk domain.DiskPort

	// Lease serialises non-dry runs across processes (optional)
	Lease guardrails.Lease

	// Observer sees every finished run (optional)
	Observer domain.Observer

	now func() time.Time
}

// New constructs the retention service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	disk domain.DiskPort,
	cfg Config,
	lease guardrails.Lease,
) *Service {
	if db == nil {
		panic("retention.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("retention.Service requires a non nil Repo binder")
	}
	cfg.Defaults = cfg.Defaults.Normalize()
	return &Service{DB: db, Binder: binder, Disk: disk, Cfg: cfg, Lease: lease, now: time.Now}
}

// LoadPolicy returns the stored policy, seeding it from the configured defaults when absent.
// Reads are never cached so every run sees the latest saved settings. The statements run on
// the pool one by one; the seed is an idempotent insert so no transaction is needed
func (s *Service) LoadPolicy(ctx context.Context) (domain.Policy, error) {
	repo := s.Binder.Bind(s.DB)
	if err := repo.EnsurePolicyTable(ctx); err != nil {
		return domain.Policy{}, perr.FromPostgres(err, "retention: ensure policy table")
	}
	if err := repo.SeedPolicy(ctx, s.Cfg.Defaults); err != nil {
		return domain.Policy{}, perr.FromPostgres(err, "retention: seed policy")
	}
	p, err := repo.GetPolicy(ctx)
	if err != nil {
		return domain.Policy{}, perr.FromPostgres(err, "retention: load policy")
	}
	return p.Normalize(), nil
}

// SavePolicy upserts the singleton row after clamping days and hours
func (s *Service) SavePolicy(ctx context.Context, p domain.Policy) (domain.Policy, error) {
	p = p.Normalize()
	// DDL stays outside the transaction so a lost catalog race cannot abort the upsert
	if err := s.Binder.Bind(s.DB).EnsurePolicyTable(ctx); err != nil {
		return domain.Policy{}, perr.FromPostgres(err, "retention: ensure policy table")
	}
	var out domain.Policy
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		got, err := s.Binder.Bind(q).UpsertPolicy(ctx, p)
		out = got
		return err
	})
	if err != nil {
		return domain.Policy{}, perr.FromPostgres(err, "retention: save policy")
	}
	logger.C(ctx).Info().
		Str("mod", "retention").
		Bool("enabled", out.Enabled).
		Int("days", out.RetentionDays).
		Str("mode", string(out.Mode)).
		Bool("delete_files", out.DeleteFiles).
		Int("interval_hours", out.IntervalHours).
		Msg("retention: policy saved")
	return out.Normalize(), nil
}

// EnsureSchema pre-creates the archive mirrors outside any run
func (s *Service) EnsureSchema(ctx context.Context) error {
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).EnsureArchiveSchema(ctx)
	})
	if err != nil {
		return perr.FromPostgres(err, "retention: ensure archive schema")
	}
	return nil
}
