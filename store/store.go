// Package store provides sqlite-backed credential persistence so a process
// restart does not force every session to re-authorize.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const migration = `
CREATE TABLE IF NOT EXISTS credential (
	session_id TEXT PRIMARY KEY,
	token TEXT NOT NULL,
	updated_ts BIGINT NOT NULL
);
`

// DB wraps the sqlite handle for credential storage.
type DB struct {
	db *sql.DB
}

// NewDB opens (and migrates) the credential database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential db: %w", err)
	}
	if _, err := db.Exec(migration); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate credential db: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveCredential upserts the opaque token blob for a session.
func (d *DB) SaveCredential(ctx context.Context, sessionID string, blob string) error {
	stmt := `INSERT INTO credential (session_id, token, updated_ts)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET token = excluded.token, updated_ts = excluded.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt, sessionID, blob, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// LoadCredentials returns all stored session credentials.
func (d *DB) LoadCredentials(ctx context.Context) (map[string]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT session_id, token FROM credential`)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	defer rows.Close()

	blobs := make(map[string]string)
	for rows.Next() {
		var sessionID, blob string
		if err := rows.Scan(&sessionID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		blobs[sessionID] = blob
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credentials: %w", err)
	}
	return blobs, nil
}
