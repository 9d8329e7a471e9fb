package storage

import "database/sql"

// migrateV001 creates the initial tabtime schema: a single key-value
// table. Session records live under one key as a JSON array so the
// store stays a plain namespace the display layer can read wholesale.
func migrateV001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}
