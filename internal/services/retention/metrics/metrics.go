// Package metrics records retention runs as prometheus series
package metrics

import (
	"time"

	pmetrics "roaming/internal/platform/metrics"
	"roaming/internal/services/retention/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes reported on runs_total
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
	OutcomeDryRun  = "dry_run"
)

// Recorder implements domain.Observer
type Recorder struct {
	runs     *prometheus.CounterVec
	archived *prometheus.CounterVec
	deleted  prometheus.Counter
	disk     prometheus.Counter
	duration prometheus.Histogram
}

// New registers the retention collectors on reg
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: pmetrics.Namespace,
			Subsystem: "retention",
			Name:      "runs_total",
			Help:      "Retention runs by outcome",
		}, []string{"outcome"}),
		archived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: pmetrics.Namespace,
			Subsystem: "retention",
			Name:      "records_archived_total",
			Help:      "Records copied into archive mirrors by entity",
		}, []string{"entity"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: pmetrics.Namespace,
			Subsystem: "retention",
			Name:      "datasets_deleted_total",
			Help:      "Datasets removed from the primary store",
		}),
		disk: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: pmetrics.Namespace,
			Subsystem: "retention",
			Name:      "disk_files_deleted_total",
			Help:      "Blobs removed from disk after commit",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: pmetrics.Namespace,
			Subsystem: "retention",
			Name:      "run_duration_seconds",
			Help:      "Wall time of retention runs",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}),
	}
	reg.MustRegister(r.runs, r.archived, r.deleted, r.disk, r.duration)
	return r
}

// ObserveRun records one finished run
func (r *Recorder) ObserveRun(res domain.RunResult, err error, elapsed time.Duration) {
	r.duration.Observe(elapsed.Seconds())
	r.runs.WithLabelValues(Outcome(res, err)).Inc()
	if err != nil || res.DryRun {
		return
	}
	for _, e := range domain.ArchiveOrder {
		if n := res.Archived(e); n > 0 {
			r.archived.WithLabelValues(string(e)).Add(float64(n))
		}
	}
	r.deleted.Add(float64(res.FilesDeleted))
	r.disk.Add(float64(res.DiskFilesDeleted))
}

// Outcome classifies a run for the runs_total label
func Outcome(res domain.RunResult, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case res.SkippedReason != "":
		return OutcomeSkipped
	case res.DryRun:
		return OutcomeDryRun
	default:
		return OutcomeOK
	}
}
