package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. A pool is stored as one document row:
// its items live in a single JSON column and every save bumps the version
// column, so concurrent lifecycle operations on the same pool are serialized
// by an optimistic version check instead of last-write-wins.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    officer_id    TEXT NOT NULL DEFAULT '',
    full_name     TEXT NOT NULL DEFAULT '',
    designation   TEXT NOT NULL DEFAULT '',
    rank          TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL DEFAULT 'officer' CHECK (role IN ('admin', 'officer')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS pools (
    id               INTEGER PRIMARY KEY,
    pool_name        TEXT NOT NULL,
    category         TEXT NOT NULL,
    model            TEXT NOT NULL,
    manufacturer     TEXT,
    id_prefix        TEXT NOT NULL,
    designations     TEXT NOT NULL DEFAULT '[]',
    total_quantity   INTEGER NOT NULL CHECK (total_quantity >= 0),
    available_count  INTEGER NOT NULL DEFAULT 0,
    issued_count     INTEGER NOT NULL DEFAULT 0,
    maintenance_count INTEGER NOT NULL DEFAULT 0,
    damaged_count    INTEGER NOT NULL DEFAULT 0,
    items            TEXT NOT NULL DEFAULT '[]',
    image            BLOB,
    image_mime       TEXT,
    version          INTEGER NOT NULL DEFAULT 1,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pools_category ON pools(category);

CREATE TABLE IF NOT EXISTS requests (
    id               INTEGER PRIMARY KEY,
    request_id       TEXT NOT NULL UNIQUE,
    requested_by     INTEGER NOT NULL REFERENCES users(id),
    pool_id          INTEGER NOT NULL REFERENCES pools(id),
    assigned_unique_id TEXT,
    type             TEXT NOT NULL CHECK (type IN ('Issue', 'Return', 'Maintenance', 'Lost')),
    status           TEXT NOT NULL DEFAULT 'Pending'
                     CHECK (status IN ('Pending', 'Approved', 'Rejected', 'Completed', 'Cancelled')),
    reason           TEXT NOT NULL,
    condition        TEXT,
    fir_number       TEXT,
    fir_date         DATETIME,
    admin_notes      TEXT,
    processed_by     INTEGER REFERENCES users(id),
    processed_date   DATETIME,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status);
CREATE INDEX IF NOT EXISTS idx_requests_requested_by ON requests(requested_by);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{}

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
