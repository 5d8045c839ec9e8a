package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	cases := map[string]Mode{
		"archive":   ModeArchive,
		" ARCHIVE ": ModeArchive,
		"delete":    ModeDelete,
		"":          ModeDelete,
		"purge":     ModeDelete,
	}
	for in, want := range cases {
		if got := ParseMode(in); got != want {
			t.Fatalf("ParseMode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPolicyNormalize(t *testing.T) {
	t.Parallel()

	p := Policy{RetentionDays: -1, IntervalHours: 0, Mode: "Archive"}.Normalize()
	if p.RetentionDays != 0 || p.IntervalHours != 1 || p.Mode != ModeArchive {
		t.Fatalf("Normalize = %+v", p)
	}

	keep := Policy{RetentionDays: 90, IntervalHours: 6, Mode: ModeDelete}.Normalize()
	if keep.RetentionDays != 90 || keep.IntervalHours != 6 {
		t.Fatalf("Normalize changed valid values: %+v", keep)
	}
}

func TestCapabilitiesSupports(t *testing.T) {
	t.Parallel()

	none := Capabilities{}
	for _, e := range []Entity{EntityDatasets, EntityRows, EntityColumns} {
		if !none.Supports(e) {
			t.Fatalf("%s must always be supported", e)
		}
	}
	if none.Supports(EntityQualityScores) || none.Supports(EntityProfiles) {
		t.Fatalf("optional entities reported without capability")
	}
	all := Capabilities{QualityScores: true, Profiles: true}
	if !all.Supports(EntityQualityScores) || !all.Supports(EntityProfiles) {
		t.Fatalf("optional entities missing with capability")
	}
}

func TestRunResultArchivedCounters(t *testing.T) {
	t.Parallel()

	var r RunResult
	for i, e := range ArchiveOrder {
		r.SetArchived(e, i+1)
	}
	for i, e := range ArchiveOrder {
		if got := r.Archived(e); got != i+1 {
			t.Fatalf("Archived(%s) = %d, want %d", e, got, i+1)
		}
	}
	if r.FilesArchived != 1 || r.ProfilesArchived != 5 {
		t.Fatalf("fields not set: %+v", r)
	}
}

func TestRunResultJSON(t *testing.T) {
	t.Parallel()

	cutoff := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	b, err := json.Marshal(RunResult{Enabled: true, Cutoff: &cutoff, Mode: ModeDelete, FilesFound: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"files_found":1`, `"cutoff":"2024-05-02T00:00:00Z"`, `"disk_files_deleted":0`} {
		if !strings.Contains(s, want) {
			t.Fatalf("json %s missing %s", s, want)
		}
	}
	if strings.Contains(s, "skipped_reason") {
		t.Fatalf("empty skipped_reason should be omitted: %s", s)
	}
}

func TestRunInputOptions(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 2, 0, 0, 0, time.FixedZone("x", 2*3600))
	o := RunInput{DryRun: true, Now: &now}.Options()
	if !o.DryRun || !o.Now.Equal(now) || o.Now.Location() != time.UTC {
		t.Fatalf("Options = %+v", o)
	}
	if z := (RunInput{}).Options(); !z.Now.IsZero() || z.DryRun {
		t.Fatalf("zero input = %+v", z)
	}
}

func TestPolicyInputPolicy(t *testing.T) {
	t.Parallel()

	p := PolicyInput{Enabled: true, RetentionDays: 30, Mode: "archive", DeleteFiles: true, IntervalHours: 12}.Policy()
	if !p.Enabled || p.RetentionDays != 30 || p.Mode != ModeArchive || !p.DeleteFiles || p.IntervalHours != 12 {
		t.Fatalf("Policy = %+v", p)
	}
	if (PolicyInput{}).Policy().Mode != ModeDelete {
		t.Fatalf("empty mode should be delete")
	}
}

func TestValidMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]bool{"delete": true, " Archive ": true, "": false, "purge": false} {
		if got := ValidMode(in); got != want {
			t.Fatalf("ValidMode(%q) = %v", in, got)
		}
	}
}
