package service

import (
	"context"
	"errors"
	"time"

	"roaming/internal/modkit/repokit"
	perr "roaming/internal/platform/errors"
	"roaming/internal/platform/logger"
	ptime "roaming/internal/platform/time"
	"roaming/internal/services/retention/domain"
	"roaming/internal/services/retention/guardrails"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RunRetention computes the cutoff and archives or deletes every expired dataset.
// A returned error means no dataset was affected
func (s *Service) RunRetention(ctx context.Context, opts domain.RunOptions) (res domain.RunResult, err error) {
	started := time.Now()
	runID := uuid.NewString()
	l := logger.C(ctx).With().Str("mod", "retention").Str("run_id", runID).Bool("dry_run", opts.DryRun).Logger()

	defer func() {
		if s.Observer != nil {
			s.Observer.ObserveRun(res, err, time.Since(started))
		}
	}()

	p, err := s.LoadPolicy(ctx)
	if err != nil {
		l.Error().Err(err).Msg("retention: policy load failed")
		return domain.RunResult{RunID: runID, DryRun: opts.DryRun}, err
	}

	res = domain.RunResult{RunID: runID, Enabled: p.Enabled, DryRun: opts.DryRun, Mode: p.Mode}
	if !p.Enabled {
		res.SkippedReason = domain.SkipDisabled
		l.Debug().Msg("retention: disabled; skip")
		return res, nil
	}
	if p.RetentionDays <= 0 {
		res.SkippedReason = domain.SkipNotConfigured
		l.Debug().Msg("retention: retention days not configured; skip")
		return res, nil
	}

	now := opts.Now
	if now.IsZero() {
		now = s.now()
	}
	cutoff := ptime.DaysBefore(now, p.RetentionDays)
	res.Cutoff = ptime.Ptr(cutoff)

	l = l.With().Str("mode", string(p.Mode)).Time("cutoff", cutoff).Logger()
	l.Info().Msg("retention: run start")

	if opts.DryRun {
		found, err := s.ListExpired(ctx, cutoff)
		if err != nil {
			l.Error().Err(err).Msg("retention: selection failed")
			return res, err
		}
		res.FilesFound = len(found)
		l.Info().Int("files_found", res.FilesFound).Msg("retention: dry run done")
		return res, nil
	}

	run := func(ctx context.Context) error {
		out, err := s.apply(ctx, l, p, res, cutoff)
		res = out
		return err
	}

	if s.Lease != nil && s.Cfg.EnableLeases {
		err = s.Lease(ctx, run)
		if errors.Is(err, guardrails.ErrLeaseHeld) {
			l.Info().Msg("retention: another run holds the lease; skip")
			res.SkippedReason = domain.SkipAlreadyRunning
			return res, nil
		}
	} else {
		err = run(ctx)
	}
	if err != nil {
		l.Error().Err(err).Bool("retryable", perr.IsRetryable(err)).Msg("retention: run failed")
		return res, err
	}

	logResult(l.Info(), res).Dur("elapsed", time.Since(started)).Msg("retention: run done")
	return res, nil
}

// ListExpired runs the selection outside of any transaction
func (s *Service) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.Dataset, error) {
	found, err := s.Binder.Bind(s.DB).ListExpired(ctx, cutoff)
	if err != nil {
		return nil, runErr(err, "retention: select expired datasets")
	}
	return found, nil
}

// apply selects once, then migrates and deletes inside one transaction, then reconciles disk
func (s *Service) apply(
	ctx context.Context,
	l zerolog.Logger,
	p domain.Policy,
	res domain.RunResult,
	cutoff time.Time,
) (domain.RunResult, error) {
	found, err := s.ListExpired(ctx, cutoff)
	if err != nil {
		return res, err
	}
	res.FilesFound = len(found)
	if len(found) == 0 {
		l.Info().Msg("retention: nothing eligible")
		return res, nil
	}

	ids := make([]int64, 0, len(found))
	for _, d := range found {
		ids = append(ids, d.ID)
	}

	// counters are staged and only published after commit
	staged := res
	var deleted []domain.Dataset

	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		repo := s.Binder.Bind(q)

		caps, err := repo.Capabilities(ctx)
		if err != nil {
			return runErr(err, "retention: probe optional tables")
		}

		if p.Mode == domain.ModeArchive {
			if err := repo.EnsureArchiveSchema(ctx); err != nil {
				return runErr(err, "retention: ensure archive schema")
			}
			for _, e := range domain.ArchiveOrder {
				if !caps.Supports(e) {
					l.Debug().Str("entity", string(e)).Msg("retention: optional table absent; skip archive")
					continue
				}
				n, err := repo.Archive(ctx, e, ids)
				if err != nil {
					return runErr(err, "retention: archive %s", e)
				}
				staged.SetArchived(e, n)
				l.Debug().Str("entity", string(e)).Int("inserted", n).Msg("retention: archived")
			}
		}

		deleted, err = repo.DeleteDatasets(ctx, ids, caps)
		if err != nil {
			return runErr(err, "retention: delete datasets")
		}
		staged.FilesDeleted = len(deleted)
		return nil
	})
	if err != nil {
		return res, err
	}
	res = staged

	if p.DeleteFiles && s.Disk != nil {
		paths := make([]string, 0, len(deleted))
		for _, d := range deleted {
			if d.StoragePath != "" {
				paths = append(paths, d.StoragePath)
			}
		}
		res.DiskFilesDeleted = s.Disk.RemoveAll(ctx, paths)
	}
	return res, nil
}

// runErr keeps every run failure on the server side of the status map.
// Constraint codes from inside the run are never the caller's input
func runErr(err error, format string, a ...any) error {
	if code, ok := perr.DBErrorCode(err); ok && code == perr.ErrorCodeUnavailable {
		return perr.Wrapf(err, code, format, a...)
	}
	return perr.Wrapf(err, perr.ErrorCodeDB, format, a...)
}

func logResult(ev *zerolog.Event, r domain.RunResult) *zerolog.Event {
	return ev.
		Int("files_found", r.FilesFound).
		Int("files_archived", r.FilesArchived).
		Int("files_deleted", r.FilesDeleted).
		Int("rows_archived", r.RowsArchived).
		Int("columns_archived", r.ColumnsArchived).
		Int("quality_scores_archived", r.QualityScoresArchived).
		Int("profiles_archived", r.ProfilesArchived).
		Int("disk_files_deleted", r.DiskFilesDeleted)
}
