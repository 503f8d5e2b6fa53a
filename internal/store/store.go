// Package store provides durable session transcript storage.
//
// Two implementations exist: a JSON file store that rewrites the whole
// document after every mutation (the default), and a SQLite store for
// deployments that prefer a database file. Both serialize mutations behind a
// store-wide lock so concurrent requests against the same session key cannot
// interleave a read-modify-write.
package store

import "github.com/candidlab/interviewd/internal/domain"

// SessionStore manages interview transcripts keyed by an opaque session key.
// Persistence failures never propagate: they are logged and the in-memory
// state remains authoritative for the rest of the process lifetime.
type SessionStore interface {
	// GetOrCreate returns the session for key, creating it seeded with the
	// store's system turn when absent. The second return is true when a new
	// session was created. Calling it twice with the same key never reseeds.
	GetOrCreate(key string) (domain.Session, bool)

	// Get returns a copy of the session for key, or false if absent.
	Get(key string) (domain.Session, bool)

	// Append adds a turn to the session's transcript and persists. Appending
	// to an unknown key is a no-op.
	Append(key string, turn domain.Turn)

	// All returns a snapshot of every session.
	All() []domain.Session
}
