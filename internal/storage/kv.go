// Package storage persists session records in a SQLite-backed key-value
// namespace.
package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// KV is a minimal persistent key-value store over an already-opened and
// migrated SQLite database. Values are replaced wholesale on write.
type KV struct {
	db  *sql.DB
	get *sql.Stmt
	set *sql.Stmt
	del *sql.Stmt
}

// NewKV creates a KV from an already-opened and migrated database.
func NewKV(db *sql.DB) (*KV, error) {
	kv := &KV{db: db}

	var err error
	kv.get, err = db.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return nil, fmt.Errorf("prepare get: %w", err)
	}
	kv.set, err = db.Prepare(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare set: %w", err)
	}
	kv.del, err = db.Prepare(`DELETE FROM kv WHERE key = ?`)
	if err != nil {
		return nil, fmt.Errorf("prepare delete: %w", err)
	}

	return kv, nil
}

// Get returns the value stored under key. ok is false when the key is unset.
func (kv *KV) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	var raw string
	err = kv.get.QueryRowContext(ctx, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(raw), true, nil
}

// Set replaces the value stored under key.
func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := kv.set.ExecContext(ctx, key, string(value)); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an unset key is not an error.
func (kv *KV) Delete(ctx context.Context, key string) error {
	if _, err := kv.del.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Close releases prepared statements. The underlying *sql.DB is NOT
// closed — that is the caller's responsibility.
func (kv *KV) Close() error {
	for _, stmt := range []*sql.Stmt{kv.get, kv.set, kv.del} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
