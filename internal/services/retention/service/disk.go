package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"roaming/internal/platform/logger"

	"golang.org/x/sync/errgroup"
)

// DiskReconciler removes blobs of datasets already gone from the database.
// Failures are logged and counted as non-successes, never returned
type DiskReconciler struct {
	Root    string
	Workers int

	remove func(string) error
}

// NewDiskReconciler resolves relative paths against root and deletes with up to workers in flight
func NewDiskReconciler(root string, workers int) *DiskReconciler {
	if workers <= 0 {
		workers = 4
	}
	if root == "" {
		root = "."
	}
	return &DiskReconciler{Root: root, Workers: workers, remove: os.Remove}
}

// Resolve maps a stored path to an absolute-or-rooted path.
// Relative paths that climb out of the root are refused
func (d *DiskReconciler) Resolve(p string) (string, bool) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", false
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), true
	}
	root := filepath.Clean(d.Root)
	full := filepath.Join(root, p)
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// RemoveAll deletes every path independently and returns how many were removed
func (d *DiskReconciler) RemoveAll(ctx context.Context, paths []string) int {
	if len(paths) == 0 {
		return 0
	}
	log := logger.C(ctx).With().Str("mod", "retention").Str("component", "disk").Logger()
	remove := d.remove
	if remove == nil {
		remove = os.Remove
	}

	var removed atomic.Int64
	var g errgroup.Group
	g.SetLimit(max(d.Workers, 1))

	for _, p := range paths {
		g.Go(func() error {
			if ctx.Err() != nil || strings.TrimSpace(p) == "" {
				return nil
			}
			full, ok := d.Resolve(p)
			if !ok {
				log.Warn().Str("path", p).Msg("retention: refusing disk path outside storage root")
				return nil
			}
			if err := remove(full); err != nil {
				log.Debug().Err(err).Str("path", full).Msg("retention: disk delete skipped")
				return nil
			}
			removed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	n := int(removed.Load())
	log.Debug().Int("requested", len(paths)).Int("removed", n).Msg("retention: disk reconcile done")
	return n
}
