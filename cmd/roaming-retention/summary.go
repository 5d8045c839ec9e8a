package main

import (
	"io"
	"time"

	"roaming/internal/services/retention/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// writeSummary prints a human readable report of one run
func writeSummary(w io.Writer, r domain.RunResult) {
	p := message.NewPrinter(language.English)

	if r.SkippedReason != "" {
		p.Fprintf(w, "retention skipped: %s\n", r.SkippedReason)
		return
	}

	title := "retention run"
	if r.DryRun {
		title = "retention dry run"
	}
	p.Fprintf(w, "%s (mode %s)\n", title, r.Mode)
	if r.Cutoff != nil {
		p.Fprintf(w, "  cutoff:              %s\n", r.Cutoff.UTC().Format(time.RFC3339))
	}
	p.Fprintf(w, "  datasets eligible:   %d\n", r.FilesFound)
	if r.DryRun {
		return
	}
	if r.Mode == domain.ModeArchive {
		p.Fprintf(w, "  datasets archived:   %d\n", r.FilesArchived)
		p.Fprintf(w, "  rows archived:       %d\n", r.RowsArchived)
		p.Fprintf(w, "  columns archived:    %d\n", r.ColumnsArchived)
		p.Fprintf(w, "  scores archived:     %d\n", r.QualityScoresArchived)
		p.Fprintf(w, "  profiles archived:   %d\n", r.ProfilesArchived)
	}
	p.Fprintf(w, "  datasets deleted:    %d\n", r.FilesDeleted)
	p.Fprintf(w, "  blobs removed:       %d\n", r.DiskFilesDeleted)
}
