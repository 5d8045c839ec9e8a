package domain

import "time"

// PolicyInput is the PUT /retention/policy payload
type PolicyInput struct {
	Enabled       bool   `json:"enabled"        example:"true"`
	RetentionDays int    `json:"retention_days" example:"30"      validate:"min=0"`
	Mode          string `json:"mode"           example:"archive" validate:"omitempty,retention_mode"`
	DeleteFiles   bool   `json:"delete_files"   example:"true"`
	IntervalHours int    `json:"interval_hours" example:"24"      validate:"min=0"`
}

// Policy converts the payload; clamping happens on save
func (in PolicyInput) Policy() Policy {
	return Policy{
		Enabled:       in.Enabled,
		RetentionDays: in.RetentionDays,
		Mode:          ParseMode(in.Mode),
		DeleteFiles:   in.DeleteFiles,
		IntervalHours: in.IntervalHours,
	}
}

// RunInput is the POST /retention/run payload; an empty body is a real run at wall clock time
type RunInput struct {
	DryRun bool       `json:"dry_run" example:"true"`
	Now    *time.Time `json:"now,omitempty" example:"2024-06-01T00:00:00Z"`
}

// Options converts the payload into runner options
func (in RunInput) Options() RunOptions {
	o := RunOptions{DryRun: in.DryRun}
	if in.Now != nil {
		o.Now = in.Now.UTC()
	}
	return o
}
