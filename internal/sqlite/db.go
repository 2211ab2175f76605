package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
}

// New opens a SQLite database. A single connection is kept open; WAL and a
// busy timeout make concurrent read queries safe alongside the tracker's
// writes.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to exec %q: %w", p, err)
		}
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema and seeds the default "Other" category.
func (db *DB) RunMigrations() error {
	migration := `
-- Classification catalog
CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    is_default INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_categories_position ON categories(position, created_at);

CREATE TABLE IF NOT EXISTS rules (
    id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    rule_type TEXT NOT NULL CHECK(rule_type IN ('app', 'title', 'url')),
    pattern TEXT NOT NULL,
    is_regex INTEGER NOT NULL DEFAULT 0,
    is_valid INTEGER NOT NULL DEFAULT 1,
    position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_rules_category ON rules(category_id, position);

CREATE TABLE IF NOT EXISTS tags (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS category_tags (
    category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (category_id, tag_id)
);

CREATE TABLE IF NOT EXISTS rule_tags (
    rule_id TEXT NOT NULL REFERENCES rules(id) ON DELETE CASCADE,
    tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (rule_id, tag_id)
);

-- Projects
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL
);

-- Activity records; times are unix epoch milliseconds, end_ms is NULL
-- while an activity is open
CREATE TABLE IF NOT EXISTS activities (
    id TEXT PRIMARY KEY,
    app_name TEXT NOT NULL,
    window_title TEXT NOT NULL DEFAULT '',
    url TEXT,
    start_ms INTEGER NOT NULL,
    end_ms INTEGER,
    duration_s INTEGER NOT NULL DEFAULT 0,
    category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
    project_id TEXT REFERENCES projects(id) ON DELETE SET NULL,
    is_idle INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_activities_start ON activities(start_ms);
CREATE INDEX IF NOT EXISTS idx_activities_open ON activities(end_ms) WHERE end_ms IS NULL;
CREATE INDEX IF NOT EXISTS idx_activities_category ON activities(category_id);

CREATE TABLE IF NOT EXISTS activity_tags (
    activity_id TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
    tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (activity_id, tag_id)
);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// The fallback bucket for unmatched samples. Kept at the end of the
	// matching order; it cannot be deleted.
	seed := `
INSERT INTO categories (id, name, color, is_default, position, created_at)
VALUES ('other', 'Other', '#9E9E9E', 1, 1000000, ?)
ON CONFLICT(id) DO NOTHING
`
	if _, err := db.Exec(seed, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to seed default category: %w", err)
	}

	return nil
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}
