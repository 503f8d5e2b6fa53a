package store

import (
	"sync"

	"github.com/candidlab/interviewd/internal/domain"
)

// SQLiteSessionStore implements SessionStore backed by SQLite.
type SQLiteSessionStore struct {
	mu   sync.Mutex
	db   *DB
	seed domain.Turn
}

// NewSQLiteSessionStore creates a session store using the given database.
func NewSQLiteSessionStore(db *DB, seed domain.Turn) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db, seed: seed}
}

func (s *SQLiteSessionStore) GetOrCreate(key string) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing string
	err := s.db.sql.QueryRow(`SELECT key FROM sessions WHERE key = ?`, key).Scan(&existing)
	if err == nil {
		return domain.Session{Key: key, Turns: s.loadTurns(key)}, false
	}

	if _, err := s.db.sql.Exec(`INSERT INTO sessions (key) VALUES (?)`, key); err != nil {
		s.db.log.Error().Err(err).Str("session", key).Msg("failed to create session")
		return domain.Session{Key: key}, false
	}
	if _, err := s.db.sql.Exec(
		`INSERT INTO turns (session_key, role, content) VALUES (?, ?, ?)`,
		key, s.seed.Role, s.seed.Content,
	); err != nil {
		s.db.log.Error().Err(err).Str("session", key).Msg("failed to seed session")
	}

	return domain.Session{Key: key, Turns: []domain.Turn{s.seed}}, true
}

func (s *SQLiteSessionStore) Get(key string) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing string
	if err := s.db.sql.QueryRow(`SELECT key FROM sessions WHERE key = ?`, key).Scan(&existing); err != nil {
		return domain.Session{}, false
	}
	return domain.Session{Key: key, Turns: s.loadTurns(key)}, true
}

func (s *SQLiteSessionStore) Append(key string, turn domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing string
	if err := s.db.sql.QueryRow(`SELECT key FROM sessions WHERE key = ?`, key).Scan(&existing); err != nil {
		s.db.log.Warn().Str("session", key).Msg("append to unknown session ignored")
		return
	}

	if _, err := s.db.sql.Exec(
		`INSERT INTO turns (session_key, role, content) VALUES (?, ?, ?)`,
		key, turn.Role, turn.Content,
	); err != nil {
		s.db.log.Error().Err(err).Str("session", key).Msg("failed to append turn")
	}
}

func (s *SQLiteSessionStore) All() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.sql.Query(`SELECT key FROM sessions ORDER BY key`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			continue
		}
		keys = append(keys, k)
	}

	out := make([]domain.Session, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.Session{Key: k, Turns: s.loadTurns(k)})
	}
	return out
}

// loadTurns loads the ordered transcript for a session. Callers hold s.mu.
func (s *SQLiteSessionStore) loadTurns(key string) []domain.Turn {
	rows, err := s.db.sql.Query(
		`SELECT role, content FROM turns WHERE session_key = ? ORDER BY id`, key,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			continue
		}
		turns = append(turns, t)
	}
	return turns
}
