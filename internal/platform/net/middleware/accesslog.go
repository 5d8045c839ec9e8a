// Package middleware holds the HTTP middleware stack: chi wrappers plus the in-house pieces
package middleware

import (
	"net/http"
	"time"

	"roaming/internal/platform/logger"
	pnet "roaming/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures the access log
type AccessLogOptions struct {
	// Slow logs requests taking at least this long at warn; 0 disables
	Slow time.Duration
}

// AccessLog puts the request id on the logger context and logs one line per request.
// Mount it after RequestID
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequestID(r.Context(), pnet.RequestID(r.Context()))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				elapsed := time.Since(start)
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				log := logger.C(ctx)
				evt := log.Info()
				if opt.Slow > 0 && elapsed >= opt.Slow {
					evt = log.Warn().Bool("slow", true)
				}
				evt.Int("status", status).
					Dur("elapsed", elapsed).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("bytes", ww.BytesWritten()).
					Msg("request done")
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}
