package repokit

import "context"

// BeginHook runs first thing inside every transaction, on the tx queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks returns inner with hooks run in order at the start of each Tx.
// Statements outside Tx go to inner untouched
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return &hooked{TxRunner: inner, hooks: hooks}
}

type hooked struct {
	TxRunner
	hooks []BeginHook
}

func (h *hooked) Tx(ctx context.Context, fn func(Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hook := range h.hooks {
			if err := hook(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}
