package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "roaming/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type guard struct{ err error }

func (g guard) Guard(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	return g.err
}

func get(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("%s: status %d body %s", path, rec.Code, rec.Body)
	}
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s: decode envelope: %v", path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("%s: decode data: %v", path, err)
	}
}

func TestHealth(t *testing.T) {
	started := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	d := Deps{
		ServiceName: "roaming-api",
		StartedAt:   started,
		now:         func() time.Time { return started.Add(90 * time.Second) },
	}

	var got Health
	get(t, d, "/health", &got)
	if !got.OK || got.Service != "roaming-api" || got.Uptime != 90 || got.Started != "2024-06-01T12:00:00Z" {
		t.Fatalf("health = %+v", got)
	}
}

func TestReady(t *testing.T) {
	cases := []struct {
		name   string
		store  Guarder
		status string
		check  string
	}{
		{"no store", nil, "ok", "skipped"},
		{"store up", guard{}, "ok", "ok"},
		{"store down", guard{err: errors.New("pg: refused")}, "fail", "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Ready
			get(t, Deps{Store: tc.store}, "/ready", &got)
			if got.Status != tc.status || len(got.Checks) != 1 || got.Checks[0].Status != tc.check {
				t.Fatalf("ready = %+v", got)
			}
			if got.Checks[0].Name != "store" {
				t.Fatalf("check name = %q", got.Checks[0].Name)
			}
			if tc.check == "fail" && got.Checks[0].Error != "pg: refused" {
				t.Fatalf("error = %q", got.Checks[0].Error)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	var got struct {
		Service string `json:"service"`
		Version string `json:"version"`
	}
	get(t, Deps{}, "/version", &got)
	if got.Service != "roaming-api" || got.Version == "" {
		t.Fatalf("version = %+v", got)
	}
}
