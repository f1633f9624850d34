package db

// SQL statements shared by the key-value methods.
const (
	sqlSelectValue = `SELECT value FROM kv WHERE key = ?`

	sqlUpsertValue = `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	sqlSelectKeysByPrefix = `SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key`

	// sqliteTimeLayout matches SQLite's datetime() output.
	sqliteTimeLayout = "2006-01-02 15:04:05"
)
