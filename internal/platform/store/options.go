package store

import (
	"roaming/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Option adjusts Open before any backend is dialled
type Option func(*Store) error

// WithLogger replaces the root logger for the SQL tracer and boot messages
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithPoolConfig edits the pgxpool config after Config is applied, in call order
func WithPoolConfig(fn func(*pgxpool.Config)) Option {
	return func(s *Store) error {
		if fn != nil {
			s.poolMut = append(s.poolMut, fn)
		}
		return nil
	}
}
