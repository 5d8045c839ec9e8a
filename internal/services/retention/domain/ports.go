// Package domain defines retention core ports and types
package domain

import (
	"context"
	"time"
)

// PolicyPort reads and edits the singleton policy
type PolicyPort interface {
	// LoadPolicy returns the stored policy, seeding it from defaults on first read
	LoadPolicy(ctx context.Context) (Policy, error)

	// SavePolicy upserts the policy and returns the normalized stored value
	SavePolicy(ctx context.Context, p Policy) (Policy, error)
}

// RunnerPort is the single entry point for manual triggers and periodic drivers
type RunnerPort interface {
	RunRetention(ctx context.Context, opts RunOptions) (RunResult, error)
}

// DiskPort removes blobs on a best-effort basis and returns the number removed
type DiskPort interface {
	RemoveAll(ctx context.Context, paths []string) int
}

// Observer receives every finished run (metrics, audit hooks)
type Observer interface {
	ObserveRun(res RunResult, err error, elapsed time.Duration)
}

// StorageRepo encapsulates all storage actions retention performs.
// Bound per Queryer so the same code runs on the pool or inside a tx
type StorageRepo interface {
	// EnsurePolicyTable creates retention_settings if absent
	EnsurePolicyTable(ctx context.Context) error

	// SeedPolicy inserts p as the singleton row unless one already exists
	SeedPolicy(ctx context.Context, p Policy) error

	// GetPolicy reads the singleton row
	GetPolicy(ctx context.Context) (Policy, error)

	// UpsertPolicy writes the singleton row and returns what was stored
	UpsertPolicy(ctx context.Context, p Policy) (Policy, error)

	// ListExpired returns datasets uploaded strictly before cutoff
	ListExpired(ctx context.Context, cutoff time.Time) ([]Dataset, error)

	// EnsureArchiveSchema creates the archive mirrors if absent (idempotent)
	EnsureArchiveSchema(ctx context.Context) error

	// Capabilities probes which optional tables exist
	Capabilities(ctx context.Context) (Capabilities, error)

	// Archive copies records of e belonging to datasetIDs into the mirror,
	// skipping rows already present. Returns rows actually inserted
	Archive(ctx context.Context, e Entity, datasetIDs []int64) (int, error)

	// DeleteDatasets removes datasets and their dependents, returning the deleted datasets
	DeleteDatasets(ctx context.Context, datasetIDs []int64, caps Capabilities) ([]Dataset, error)
}
