// Package repokit lets domain repos be written once and bound to either the pool or a tx
package repokit

import "roaming/internal/platform/store"

type (
	// Queryer is what a bound repo issues statements through
	Queryer = store.RowQuerier

	// TxRunner is a Queryer that can also open a transaction
	TxRunner = store.TxRunner
)
