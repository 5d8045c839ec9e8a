package pg

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Tracer logs every statement pgx runs, at warn once it reaches Slow
type Tracer struct {
	log  zerolog.Logger
	slow time.Duration
	now  func() time.Time
}

var _ pgx.QueryTracer = (*Tracer)(nil)

// NewTracer logs through log at debug regardless of the level log was built with.
// slow <= 0 never escalates
func NewTracer(log zerolog.Logger, slow time.Duration) *Tracer {
	return &Tracer{
		log:  log.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger(),
		slow: slow,
		now:  time.Now,
	}
}

type traceKey struct{}

type traceStart struct {
	sql   string
	args  []any
	start time.Time
}

// TraceQueryStart stashes the statement on ctx for TraceQueryEnd
func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: d.SQL, args: d.Args, start: t.now()})
}

// TraceQueryEnd writes one line per statement
func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(st.start)
	slow := t.slow > 0 && elapsed >= t.slow

	evt := t.log.Debug()
	switch {
	case d.Err != nil:
		evt = t.log.Error().Err(d.Err)
	case slow:
		evt = t.log.Warn()
	}
	evt.Dur("elapsed", elapsed).
		Bool("slow", slow).
		Str("sql", compact(st.sql)).
		Int("args", len(st.args)).
		Int64("rows", d.CommandTag.RowsAffected()).
		Msg("pg query")
}

// compact folds every whitespace run into one space
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
