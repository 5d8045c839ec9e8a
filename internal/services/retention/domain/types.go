package domain

import (
	"strings"
	"time"
)

// Mode selects what happens to expired datasets
type Mode string

const (
	// ModeDelete hard-deletes expired datasets
	ModeDelete Mode = "delete"
	// ModeArchive copies datasets and dependents into the archive mirrors before deleting
	ModeArchive Mode = "archive"
)

// ParseMode maps free-form input to a Mode; anything unknown is delete
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeArchive:
		return ModeArchive
	default:
		return ModeDelete
	}
}

// ValidMode reports whether s names a mode, ignoring case and surrounding space
func ValidMode(s string) bool {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDelete, ModeArchive:
		return true
	}
	return false
}

// Policy is the singleton retention configuration
type Policy struct {
	Enabled       bool       `json:"enabled"        example:"true"`
	RetentionDays int        `json:"retention_days" example:"30"`
	Mode          Mode       `json:"mode"           example:"archive"`
	DeleteFiles   bool       `json:"delete_files"   example:"true"`
	IntervalHours int        `json:"interval_hours" example:"24"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Normalize clamps days to >= 0, hours to >= 1 and coerces the mode
func (p Policy) Normalize() Policy {
	if p.RetentionDays < 0 {
		p.RetentionDays = 0
	}
	if p.IntervalHours < 1 {
		p.IntervalHours = 1
	}
	p.Mode = ParseMode(string(p.Mode))
	return p
}

// Dataset is an uploaded file subject to retention
type Dataset struct {
	ID          int64
	ProjectID   int64
	Name        string
	Type        string
	StoragePath string // empty when the dataset has no blob on disk
	UploadedAt  time.Time
}

// Entity names one archivable record set
type Entity string

const (
	// EntityDatasets is the primary files table
	EntityDatasets Entity = "files"
	// EntityRows is one record per ingested data row
	EntityRows Entity = "rows"
	// EntityColumns is one record per column definition
	EntityColumns Entity = "columns"
	// EntityQualityScores is the optional data quality score record
	EntityQualityScores Entity = "quality_scores"
	// EntityProfiles is the optional profiling record
	EntityProfiles Entity = "profiles"
)

// ArchiveOrder is the copy order: parent first, then children
var ArchiveOrder = []Entity{
	EntityDatasets,
	EntityRows,
	EntityColumns,
	EntityQualityScores,
	EntityProfiles,
}

// Capabilities reports which optional tables exist in this deployment
type Capabilities struct {
	QualityScores bool
	Profiles      bool
}

// Supports reports whether e can be archived or deleted in this deployment
func (c Capabilities) Supports(e Entity) bool {
	switch e {
	case EntityQualityScores:
		return c.QualityScores
	case EntityProfiles:
		return c.Profiles
	default:
		return true
	}
}

// Skip reasons reported on a no-op run
const (
	SkipDisabled       = "disabled"
	SkipNotConfigured  = "not configured"
	SkipAlreadyRunning = "already running"
)

// RunOptions controls a single invocation
type RunOptions struct {
	DryRun bool
	// Now overrides the wall clock for the cutoff; zero means time.Now
	Now time.Time
}

// RunResult summarises one invocation; it is a report and never persisted
type RunResult struct {
	RunID         string     `json:"run_id,omitempty"`
	Enabled       bool       `json:"enabled"`
	DryRun        bool       `json:"dry_run"`
	Cutoff        *time.Time `json:"cutoff,omitempty"`
	Mode          Mode       `json:"mode"`
	SkippedReason string     `json:"skipped_reason,omitempty"`

	FilesFound    int `json:"files_found"`
	FilesArchived int `json:"files_archived"`
	FilesDeleted  int `json:"files_deleted"`

	RowsArchived          int `json:"rows_archived"`
	ColumnsArchived       int `json:"columns_archived"`
	QualityScoresArchived int `json:"quality_scores_archived"`
	ProfilesArchived      int `json:"profiles_archived"`

	DiskFilesDeleted int `json:"disk_files_deleted"`
}

// Archived returns the archive counter for e
func (r RunResult) Archived(e Entity) int {
	switch e {
	case EntityDatasets:
		return r.FilesArchived
	case EntityRows:
		return r.RowsArchived
	case EntityColumns:
		return r.ColumnsArchived
	case EntityQualityScores:
		return r.QualityScoresArchived
	case EntityProfiles:
		return r.ProfilesArchived
	}
	return 0
}

// SetArchived records n as the archive counter for e
func (r *RunResult) SetArchived(e Entity, n int) {
	switch e {
	case EntityDatasets:
		r.FilesArchived = n
	case EntityRows:
		r.RowsArchived = n
	case EntityColumns:
		r.ColumnsArchived = n
	case EntityQualityScores:
		r.QualityScoresArchived = n
	case EntityProfiles:
		r.ProfilesArchived = n
	}
}
