// internal/store/db.go
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// schema holds the cart persistence layout: one binding row per
// conversation, one row per (cart, item) pair. The binding is append-only;
// cart_items rows keep their insertion order through the implicit rowid.
const schema = `
CREATE TABLE IF NOT EXISTS carts (
    conversation_id TEXT PRIMARY KEY,
    cart_id         TEXT NOT NULL UNIQUE,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cart_items (
    cart_id    TEXT NOT NULL REFERENCES carts(cart_id),
    item_id    TEXT NOT NULL,
    item_title TEXT NOT NULL,
    count      INTEGER NOT NULL CHECK (count >= 1),
    PRIMARY KEY (cart_id, item_id)
);
`

// Open opens a SQLite database connection and configures pragmas.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
