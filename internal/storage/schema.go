// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for the snapshot blob, pending_sync queue, and archives.
package storage

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS pending_sync (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		data BLOB NOT NULL,
		timestamp DATETIME NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		last_attempt DATETIME,
		last_error TEXT
	);

	CREATE TABLE IF NOT EXISTS archives (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		data BLOB NOT NULL,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_archives_user ON archives(user_id, id DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
