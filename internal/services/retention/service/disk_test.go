package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func writeBlob(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDiskReconciler_RemovesRelativeAndAbsolute(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	rel := filepath.Join(root, "uploads", "a.csv")
	abs := filepath.Join(t.TempDir(), "b.csv")
	writeBlob(t, rel)
	writeBlob(t, abs)

	d := NewDiskReconciler(root, 2)
	n := d.RemoveAll(context.Background(), []string{"uploads/a.csv", abs})
	if n != 2 {
		t.Fatalf("removed = %d, want 2", n)
	}
	for _, p := range []string{rel, abs} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("%s still exists", p)
		}
	}
}

func TestDiskReconciler_MissingAndEmptyAreNonSuccess(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeBlob(t, filepath.Join(root, "ok.csv"))

	d := NewDiskReconciler(root, 4)
	n := d.RemoveAll(context.Background(), []string{"ok.csv", "missing.csv", "", "   "})
	if n != 1 {
		t.Fatalf("removed = %d, want 1", n)
	}
}

func TestDiskReconciler_RefusesEscape(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	root := filepath.Join(parent, "store")
	outside := filepath.Join(parent, "secret.txt")
	writeBlob(t, outside)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	d := NewDiskReconciler(root, 1)
	if _, ok := d.Resolve("../secret.txt"); ok {
		t.Fatalf("escape resolved")
	}
	if n := d.RemoveAll(context.Background(), []string{"../secret.txt", "a/../../secret.txt"}); n != 0 {
		t.Fatalf("removed = %d, want 0", n)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside root removed: %v", err)
	}
}

func TestDiskReconciler_Resolve(t *testing.T) {
	t.Parallel()

	d := NewDiskReconciler("/srv/data", 1)
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"uploads/a.csv", filepath.Join("/srv/data", "uploads", "a.csv"), true},
		{"./uploads//b.csv", filepath.Join("/srv/data", "uploads", "b.csv"), true},
		{"/tmp/x.csv", "/tmp/x.csv", true},
		{"uploads/../c.csv", filepath.Join("/srv/data", "c.csv"), true},
		{"../etc/passwd", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := d.Resolve(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("Resolve(%q) = %q,%v want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestDiskReconciler_FailuresSwallowed(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	d := NewDiskReconciler(t.TempDir(), 3)
	d.remove = func(p string) error {
		calls.Add(1)
		if filepath.Base(p) == "locked.csv" {
			return errors.New("permission denied")
		}
		return nil
	}

	n := d.RemoveAll(context.Background(), []string{"a.csv", "locked.csv", "b.csv"})
	if n != 2 {
		t.Fatalf("removed = %d, want 2", n)
	}
	if calls.Load() != 3 {
		t.Fatalf("remove calls = %d, want 3", calls.Load())
	}
}

func TestDiskReconciler_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDiskReconciler(t.TempDir(), 1)
	d.remove = func(string) error { return nil }
	if n := d.RemoveAll(ctx, []string{"a.csv"}); n != 0 {
		t.Fatalf("removed = %d after cancel", n)
	}
}

func TestNewDiskReconciler_Defaults(t *testing.T) {
	t.Parallel()

	d := NewDiskReconciler("", 0)
	if d.Root != "." || d.Workers != 4 {
		t.Fatalf("defaults = %+v", d)
	}
}
