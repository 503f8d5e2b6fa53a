package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/candidlab/interviewd/internal/domain"
	"github.com/candidlab/interviewd/internal/logging"
)

// FileStore keeps every session in memory and rewrites a single JSON document
// after each mutation. The on-disk layout is a map from session key to an
// ordered array of {role, content} objects.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	seed     domain.Turn
	sessions map[string][]domain.Turn
	log      *logging.Logger
}

// OpenFileStore loads the store at path, or starts empty when the file is
// absent or unreadable. A read or parse failure degrades to an empty store
// with a logged warning; it never fails the caller.
func OpenFileStore(path string, seed domain.Turn, log *logging.Logger) *FileStore {
	s := &FileStore{
		path:     path,
		seed:     seed,
		sessions: make(map[string][]domain.Turn),
		log:      log.Sub("store"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", path).Msg("could not read session file, starting empty")
		}
		return s
	}
	if err := json.Unmarshal(data, &s.sessions); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("could not parse session file, starting empty")
		s.sessions = make(map[string][]domain.Turn)
		return s
	}

	s.log.Info().Int("sessions", len(s.sessions)).Str("path", path).Msg("session store loaded")
	return s
}

func (s *FileStore) GetOrCreate(key string) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if turns, ok := s.sessions[key]; ok {
		return domain.Session{Key: key, Turns: copyTurns(turns)}, false
	}

	s.sessions[key] = []domain.Turn{s.seed}
	s.persistLocked()
	return domain.Session{Key: key, Turns: []domain.Turn{s.seed}}, true
}

func (s *FileStore) Get(key string) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.sessions[key]
	if !ok {
		return domain.Session{}, false
	}
	return domain.Session{Key: key, Turns: copyTurns(turns)}, true
}

func (s *FileStore) Append(key string, turn domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, ok := s.sessions[key]
	if !ok {
		s.log.Warn().Str("session", key).Msg("append to unknown session ignored")
		return
	}
	s.sessions[key] = append(turns, turn)
	s.persistLocked()
}

func (s *FileStore) All() []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.sessions))
	for k := range s.sessions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.Session, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.Session{Key: k, Turns: copyTurns(s.sessions[k])})
	}
	return out
}

// persistLocked rewrites the whole document. Write goes to a temp file first
// so a crash mid-write never corrupts the existing store. Failures are
// logged and swallowed; the in-memory state stays authoritative.
func (s *FileStore) persistLocked() {
	data, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode session store")
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		s.log.Error().Err(err).Str("path", tmp).Msg("failed to write session store")
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("failed to replace session store")
	}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// EnsureDir creates the parent directory for a store path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o700)
}

func copyTurns(turns []domain.Turn) []domain.Turn {
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}
