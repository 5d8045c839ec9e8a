package repo

import (
	"context"
	"fmt"

	"roaming/internal/services/retention/domain"
)

// table describes one primary table and its archive mirror
type table struct {
	entity   domain.Entity
	source   string
	mirror   string
	key      string // column holding the owning dataset id
	columns  []string
	optional bool
	ddl      string
}

var tables = []table{
	{
		entity:  domain.EntityDatasets,
		source:  "files",
		mirror:  "files_archive",
		key:     "id",
		columns: []string{"id", "project_id", "name", "file_type", "storage_path", "uploaded_at"},
		ddl: `
			CREATE TABLE IF NOT EXISTS files_archive (
				id           BIGINT PRIMARY KEY,
				project_id   BIGINT,
				name         TEXT,
				file_type    TEXT,
				storage_path TEXT,
				uploaded_at  TIMESTAMPTZ,
				archived_at  TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
	},
	{
		entity:  domain.EntityRows,
		source:  "file_rows",
		mirror:  "file_rows_archive",
		key:     "file_id",
		columns: []string{"id", "file_id", "row_index", "data"},
		ddl: `
			CREATE TABLE IF NOT EXISTS file_rows_archive (
				id          BIGINT PRIMARY KEY,
				file_id     BIGINT NOT NULL,
				row_index   INT,
				data        JSONB,
				archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
	},
	{
		entity:  domain.EntityColumns,
		source:  "file_columns",
		mirror:  "file_columns_archive",
		key:     "file_id",
		columns: []string{"id", "file_id", "name", "position", "data_type"},
		ddl: `
			CREATE TABLE IF NOT EXISTS file_columns_archive (
				id          BIGINT PRIMARY KEY,
				file_id     BIGINT NOT NULL,
				name        TEXT,
				position    INT,
				data_type   TEXT,
				archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
	},
	{
		entity:   domain.EntityQualityScores,
		source:   "data_quality_scores",
		mirror:   "data_quality_scores_archive",
		key:      "file_id",
		columns:  []string{"id", "file_id", "score", "details", "computed_at"},
		optional: true,
		ddl: `
			CREATE TABLE IF NOT EXISTS data_quality_scores_archive (
				id          BIGINT PRIMARY KEY,
				file_id     BIGINT NOT NULL,
				score       DOUBLE PRECISION,
				details     JSONB,
				computed_at TIMESTAMPTZ,
				archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
	},
	{
		entity:   domain.EntityProfiles,
		source:   "file_profiles",
		mirror:   "file_profiles_archive",
		key:      "file_id",
		columns:  []string{"id", "file_id", "profile", "created_at"},
		optional: true,
		ddl: `
			CREATE TABLE IF NOT EXISTS file_profiles_archive (
				id          BIGINT PRIMARY KEY,
				file_id     BIGINT NOT NULL,
				profile     JSONB,
				created_at  TIMESTAMPTZ,
				archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
	},
}

func tableFor(e domain.Entity) (table, error) {
	for _, t := range tables {
		if t.entity == e {
			return t, nil
		}
	}
	return table{}, fmt.Errorf("retention: unknown entity %q", e)
}

// EnsureArchiveSchema creates every mirror and its dataset index if absent.
// Postgres DDL is transactional, so inside a tx a failure here aborts the run
func (s *pgStore) EnsureArchiveSchema(ctx context.Context) error {
	for _, t := range tables {
		if _, err := s.q.Exec(ctx, t.ddl); err != nil {
			return fmt.Errorf("create %s: %w", t.mirror, err)
		}
		if t.key == "id" {
			continue
		}
		idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_%s_idx ON %s (%s)`, t.mirror, t.key, t.mirror, t.key)
		if _, err := s.q.Exec(ctx, idx); err != nil {
			return fmt.Errorf("index %s: %w", t.mirror, err)
		}
	}
	return nil
}

// Capabilities resolves the optional tables against the current search_path
func (s *pgStore) Capabilities(ctx context.Context) (domain.Capabilities, error) {
	var c domain.Capabilities
	err := s.q.QueryRow(ctx, `
		SELECT to_regclass('data_quality_scores') IS NOT NULL,
		       to_regclass('file_profiles') IS NOT NULL
	`).Scan(&c.QualityScores, &c.Profiles)
	return c, err
}
