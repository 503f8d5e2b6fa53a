package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create sessions and turns",
		SQL: `
			CREATE TABLE sessions (
				key         TEXT PRIMARY KEY,
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE turns (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				session_key  TEXT NOT NULL REFERENCES sessions(key) ON DELETE CASCADE,
				role         TEXT NOT NULL,
				content      TEXT NOT NULL,
				created_at   TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_turns_session ON turns (session_key, id);
		`,
	},
}
