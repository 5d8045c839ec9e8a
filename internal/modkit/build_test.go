package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"roaming/internal/modkit/httpkit"
	phttp "roaming/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestBuild_Defaults(t *testing.T) {
	b := Build(nil, WithName("retention"))
	if b.Name != "retention" || b.Prefix != "" || len(b.Mw) != 0 {
		t.Fatalf("unexpected build: %+v", b)
	}
	if b.Register == nil {
		t.Fatalf("Register must default to a no-op")
	}
	b.Register(nil)
}

func TestBuilt_Mount(t *testing.T) {
	tag := func(v string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Add("X-Mw", v)
				next.ServeHTTP(w, r)
			})
		}
	}
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

	b := Build(
		WithPrefix("/retention"),
		WithMiddlewares(tag("a")),
		WithMiddlewares(tag("b")),
		WithRegister(func(r phttp.Router) { r.Get("/extra", ok) }),
	)

	mux := chi.NewRouter()
	b.Mount(phttp.AdaptChi(mux), func(r httpkit.Router) { r.Get("/policy", ok) })

	for _, path := range []string{"/retention/policy", "/retention/extra"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
		if got := rec.Header().Values("X-Mw"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Fatalf("%s: middleware order %v", path, got)
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/policy", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unprefixed route served: %d", rec.Code)
	}
}
