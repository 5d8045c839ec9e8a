package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"roaming/internal/services/retention/domain"
)

func TestWriteSummary_Archive(t *testing.T) {
	t.Parallel()

	cutoff := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	writeSummary(&buf, domain.RunResult{
		Enabled:       true,
		Mode:          domain.ModeArchive,
		Cutoff:        &cutoff,
		FilesFound:    1,
		FilesArchived: 1,
		RowsArchived:  12345,
		FilesDeleted:  1,
	})
	out := buf.String()
	for _, want := range []string{"retention run (mode archive)", "2024-05-02T00:00:00Z", "12,345", "datasets deleted:    1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummary_DryRunAndSkip(t *testing.T) {
	t.Parallel()

	var dry bytes.Buffer
	writeSummary(&dry, domain.RunResult{DryRun: true, Mode: domain.ModeDelete, FilesFound: 3})
	if !strings.Contains(dry.String(), "dry run") || strings.Contains(dry.String(), "deleted") {
		t.Fatalf("dry summary:\n%s", dry.String())
	}

	var skip bytes.Buffer
	writeSummary(&skip, domain.RunResult{SkippedReason: domain.SkipDisabled})
	if strings.TrimSpace(skip.String()) != "retention skipped: disabled" {
		t.Fatalf("skip summary = %q", skip.String())
	}
}

func TestParseNow(t *testing.T) {
	t.Parallel()

	if got, err := parseNow(""); err != nil || !got.IsZero() {
		t.Fatalf("empty = %v, %v", got, err)
	}
	got, err := parseNow("2024-06-01")
	if err != nil || !got.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v, %v", got, err)
	}
	got, err = parseNow("2024-06-01T12:00:00+02:00")
	if err != nil || !got.Equal(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)) || got.Location() != time.UTC {
		t.Fatalf("rfc3339 = %v, %v", got, err)
	}
	if _, err := parseNow("yesterday"); err == nil {
		t.Fatalf("expected error")
	}
}
