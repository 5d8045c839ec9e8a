// Package modkit provides module wiring and core deps
package modkit

import (
	"roaming/internal/modkit/repokit"
	"roaming/internal/platform/config"
	"roaming/internal/platform/logger"
	"roaming/internal/platform/metrics"
	"roaming/internal/platform/store"
)

// Deps holds core dependencies passed to modules
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner

	// Store owns PG; the meta module guards it for readiness
	Store *store.Store

	// Metrics is optional; modules skip instrumentation when nil
	Metrics *metrics.Registry
}
