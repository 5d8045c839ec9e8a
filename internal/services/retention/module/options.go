package module

import (
	"time"

	"roaming/internal/platform/config"
	"roaming/internal/services/retention/domain"
)

// Options for the retention module
type Options struct {
	Defaults     domain.Policy
	StorageRoot  string
	DiskWorkers  int
	EnableLeases bool
	LeaseTTL     time.Duration
	EnsureOnBoot bool
	AdminToken   string

	StatementTimeout time.Duration
}

// FromConfig fills options from environment
// CORE_RETENTION_ENABLED (default false) seeds policy.enabled on first read
// CORE_RETENTION_DAYS (default 0) seeds policy.retention_days; 0 means not configured
// CORE_RETENTION_MODE (default "delete") seeds policy.mode: "delete" or "archive"
// CORE_RETENTION_DELETE_FILES (default false) seeds policy.delete_files
// CORE_RETENTION_INTERVAL_HOURS (default 24) seeds policy.interval_hours
// CORE_RETENTION_STORAGE_ROOT (default ".") resolves relative storage paths
// CORE_RETENTION_DISK_WORKERS (default 4) bounds concurrent blob deletes
// CORE_RETENTION_LEASES (default true) serialises non-dry runs across processes
// CORE_RETENTION_LEASE_TTL (default 30m) is when a crashed holder's lease is reclaimed
// CORE_RETENTION_ENSURE_ON_BOOT (default true) creates the archive mirrors at startup
// CORE_RETENTION_STATEMENT_TIMEOUT (default 0, off) bounds each statement inside a run transaction
// CORE_API_ADMIN_TOKEN (default empty) guards the admin routes with a bearer token when set
func FromConfig(cfg config.Conf) Options {
	r := cfg.Prefix("CORE_RETENTION_")
	return Options{
		Defaults: domain.Policy{
			Enabled:       r.MayBool("ENABLED", false),
			RetentionDays: r.MayInt("DAYS", 0),
			Mode:          domain.Mode(r.MayEnum("MODE", string(domain.ModeDelete), string(domain.ModeDelete), string(domain.ModeArchive))),
			DeleteFiles:   r.MayBool("DELETE_FILES", false),
			IntervalHours: r.MayInt("INTERVAL_HOURS", 24),
		}.Normalize(),
		StorageRoot:  r.MayString("STORAGE_ROOT", "."),
		DiskWorkers:  r.MayInt("DISK_WORKERS", 4),
		EnableLeases: r.MayBool("LEASES", true),
		LeaseTTL:     r.MayDuration("LEASE_TTL", 30*time.Minute),
		EnsureOnBoot: r.MayBool("ENSURE_ON_BOOT", true),
		AdminToken:   cfg.Prefix("CORE_API_").MayString("ADMIN_TOKEN", ""),

		StatementTimeout: r.MayDuration("STATEMENT_TIMEOUT", 0),
	}
}
