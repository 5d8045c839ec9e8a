package repo

import (
	"context"
	"fmt"
	"time"

	"roaming/internal/platform/store"
	"roaming/internal/services/retention/domain"

	sq "github.com/Masterminds/squirrel"
)

var datasetColumns = []string{
	"id",
	"COALESCE(project_id, 0)",
	"COALESCE(name, '')",
	"COALESCE(file_type, '')",
	"COALESCE(storage_path, '')",
	"uploaded_at",
}

func scanDataset(r store.Row) (domain.Dataset, error) {
	var d domain.Dataset
	if err := r.Scan(&d.ID, &d.ProjectID, &d.Name, &d.Type, &d.StoragePath, &d.UploadedAt); err != nil {
		return domain.Dataset{}, err
	}
	d.UploadedAt = d.UploadedAt.UTC()
	return d, nil
}

// ListExpired selects datasets uploaded strictly before cutoff, oldest id first
func (s *pgStore) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.Dataset, error) {
	sql, args, err := psql.
		Select(datasetColumns...).
		From("files").
		Where(sq.Lt{"uploaded_at": cutoff.UTC()}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return store.Many(ctx, s.q, scanDataset, sql, args...)
}

// Archive copies the records of e owned by datasetIDs into its mirror.
// Rows already archived by an earlier run are skipped by the primary key
func (s *pgStore) Archive(ctx context.Context, e domain.Entity, datasetIDs []int64) (int, error) {
	if len(datasetIDs) == 0 {
		return 0, nil
	}
	t, err := tableFor(e)
	if err != nil {
		return 0, err
	}

	// inner select keeps ? placeholders; the outer builder rewrites them
	sel := sq.Select(t.columns...).
		From(t.source).
		Where(sq.Expr(t.key+" = ANY(?)", datasetIDs)).
		OrderBy("id")

	sql, args, err := psql.
		Insert(t.mirror).
		Columns(t.columns...).
		Select(sel).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("archive %s: %w", t.source, err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteDatasets removes dependents first, then the datasets themselves.
// Optional tables missing from caps are skipped
func (s *pgStore) DeleteDatasets(ctx context.Context, datasetIDs []int64, caps domain.Capabilities) ([]domain.Dataset, error) {
	if len(datasetIDs) == 0 {
		return nil, nil
	}

	// children in reverse archive order
	for i := len(tables) - 1; i >= 0; i-- {
		t := tables[i]
		if t.entity == domain.EntityDatasets || !caps.Supports(t.entity) {
			continue
		}
		sql, args, err := psql.
			Delete(t.source).
			Where(sq.Expr(t.key+" = ANY(?)", datasetIDs)).
			ToSql()
		if err != nil {
			return nil, err
		}
		if _, err := s.q.Exec(ctx, sql, args...); err != nil {
			return nil, fmt.Errorf("delete %s: %w", t.source, err)
		}
	}

	sql, args, err := psql.
		Delete("files").
		Where(sq.Expr("id = ANY(?)", datasetIDs)).
		Suffix("RETURNING id, COALESCE(project_id, 0), COALESCE(name, ''), COALESCE(file_type, ''), COALESCE(storage_path, ''), uploaded_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	out, err := store.Many(ctx, s.q, scanDataset, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("delete files: %w", err)
	}
	return out, nil
}
