// Package sqlite implements the repository interfaces using SQLite.
//
// SQLite is an embedded database — no separate server process, just a file
// (or ":memory:" for tests). We use modernc.org/sqlite, a pure-Go translation
// of the SQLite C code, so the binary cross-compiles without a C toolchain.
//
// The blank import below registers the driver with database/sql under the
// name "sqlite"; after that, sql.Open("sqlite", path) works.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface. One struct for all tables keeps the wiring in server.go simple;
// the service layer still only sees the narrow interfaces it asks for.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite serializes writes anyway, and the PRAGMAs below only apply to
	// the connection that runs them. One pooled connection keeps them in
	// effect everywhere — and keeps ":memory:" databases alive, since each
	// new connection to ":memory:" would get its own empty database.
	conn.SetMaxOpenConns(1)

	// Force a real connection now — a bad path or permissions problem should
	// surface at startup, not on the first request.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — without it, SQLite
	// locks the whole file for every write, which stalls a web server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite. The session and account
	// tables cascade-delete with their user, so we need them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. The server defers this on shutdown so the
// WAL is flushed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS is idempotent, so
// running this on every startup is safe.
//
// Schema notes:
//   - user.email is UNIQUE — one app account per email address.
//   - session and account rows die with their user (ON DELETE CASCADE).
//   - playgrounds.id is an auto-increment integer; every other table uses
//     xid strings generated in Go.
//   - tags is a JSON-encoded array of strings (SQLite has no array type).
//   - visibility and role are TEXT with CHECK constraints standing in for
//     native enum types.
//   - playground_members is part of the schema contract but no route uses it.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			email          TEXT NOT NULL UNIQUE,
			email_verified INTEGER NOT NULL DEFAULT 0,
			image          TEXT NOT NULL DEFAULT '',
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS session (
			id         TEXT PRIMARY KEY,
			token      TEXT NOT NULL UNIQUE,
			expires_at DATETIME NOT NULL,
			user_id    TEXT NOT NULL REFERENCES user(id) ON DELETE CASCADE,
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_session_user_id ON session(user_id);

		CREATE TABLE IF NOT EXISTS account (
			id            TEXT PRIMARY KEY,
			account_id    TEXT NOT NULL,
			provider_id   TEXT NOT NULL,
			user_id       TEXT NOT NULL REFERENCES user(id) ON DELETE CASCADE,
			access_token  TEXT NOT NULL DEFAULT '',
			refresh_token TEXT NOT NULL DEFAULT '',
			scope         TEXT NOT NULL DEFAULT '',
			password      TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (provider_id, account_id)
		);
		CREATE INDEX IF NOT EXISTS idx_account_user_id ON account(user_id);

		CREATE TABLE IF NOT EXISTS verification (
			id         TEXT PRIMARY KEY,
			identifier TEXT NOT NULL,
			value      TEXT NOT NULL,
			expires_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS playgrounds (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			visibility  TEXT NOT NULL DEFAULT 'public'
			            CHECK (visibility IN ('public', 'private')),
			tags        TEXT NOT NULL DEFAULT '[]',
			is_featured INTEGER NOT NULL DEFAULT 0,
			creator_id  TEXT REFERENCES user(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_playgrounds_creator_id ON playgrounds(creator_id);

		CREATE TABLE IF NOT EXISTS playground_members (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id       TEXT NOT NULL REFERENCES user(id),
			playground_id INTEGER NOT NULL REFERENCES playgrounds(id) ON DELETE CASCADE,
			role          TEXT NOT NULL DEFAULT 'member'
			              CHECK (role IN ('owner', 'admin', 'member')),
			joined_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, playground_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
