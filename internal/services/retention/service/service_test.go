package service

import (
	"context"
	"testing"

	"roaming/internal/platform/testkit"
	"roaming/internal/services/retention/domain"
)

func TestNew_PanicsOnNilDeps(t *testing.T) {
	t.Parallel()

	w := newWorld()
	testkit.MustPanic(t, func() { New(nil, fakeBinder(w), nil, Config{}, nil) })
	testkit.MustPanic(t, func() { New(&fakeDB{w: w}, nil, nil, Config{}, nil) })
}

func TestSavePolicy_ClampsAndPersists(t *testing.T) {
	t.Parallel()

	w := newWorld()
	svc := newTestService(w, nil)

	saved, err := svc.SavePolicy(context.Background(), domain.Policy{
		Enabled:       true,
		RetentionDays: -3,
		Mode:          "ARCHIVE",
		IntervalHours: 0,
	})
	if err != nil {
		t.Fatalf("SavePolicy: %v", err)
	}
	if saved.RetentionDays != 0 || saved.IntervalHours != 1 || saved.Mode != domain.ModeArchive {
		t.Fatalf("saved = %+v", saved)
	}
	if saved.UpdatedAt == nil {
		t.Fatalf("updated_at not returned")
	}

	got, err := svc.LoadPolicy(context.Background())
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if got.RetentionDays != 0 || got.Mode != domain.ModeArchive || !got.Enabled {
		t.Fatalf("loaded = %+v", got)
	}
}

func TestLoadPolicy_NotCached(t *testing.T) {
	t.Parallel()

	w := newWorld()
	w.setPolicy(domain.Policy{Enabled: false, RetentionDays: 10})
	svc := newTestService(w, nil)

	if p, _ := svc.LoadPolicy(context.Background()); p.Enabled {
		t.Fatalf("precondition: expected disabled")
	}
	w.setPolicy(domain.Policy{Enabled: true, RetentionDays: 10})
	p, err := svc.LoadPolicy(context.Background())
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if !p.Enabled {
		t.Fatalf("stale policy returned")
	}
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()

	w := newWorld()
	if err := newTestService(w, nil).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if w.ensured != 1 {
		t.Fatalf("ensured = %d", w.ensured)
	}
}
