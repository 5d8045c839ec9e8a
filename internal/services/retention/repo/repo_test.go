package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"roaming/internal/platform/store"

	"github.com/jackc/pgx/v5/pgconn"
)

// ddlQueryer fails every CREATE with err and rejects anything else
type ddlQueryer struct {
	err  error
	sqls []string
}

func (q *ddlQueryer) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	q.sqls = append(q.sqls, sql)
	if strings.Contains(sql, "CREATE TABLE") {
		return nil, q.err
	}
	return nil, errors.New("unexpected exec")
}

func (q *ddlQueryer) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (q *ddlQueryer) QueryRow(context.Context, string, ...any) store.Row { return nil }

func TestEnsurePolicyTable_ToleratesCatalogRace(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"created", nil, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"duplicate table", &pgconn.PgError{Code: "42P07"}, false},
		{"permission denied", &pgconn.PgError{Code: "42501"}, true},
		{"conn lost", errors.New("conn closed"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &ddlQueryer{err: tc.err}
			err := NewPG().Bind(q).EnsurePolicyTable(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if len(q.sqls) != 1 || !strings.Contains(q.sqls[0], "retention_settings") {
				t.Fatalf("sqls = %v", q.sqls)
			}
		})
	}
}
