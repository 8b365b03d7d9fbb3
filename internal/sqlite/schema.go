// Package sqlite implements the SQLite durable medium for the page-state
// cache. This file holds the schema and its migrations.
package sqlite

import (
	"database/sql"
	"fmt"
)

// currentSchemaVersion is stored in PRAGMA user_version.
//
//	1 - slots table
//	2 - revision and updated_at columns
const currentSchemaVersion = 2

// Schema DDL.
const (
	createSlots = `CREATE TABLE IF NOT EXISTS slots (
    slot TEXT PRIMARY KEY,
    payload BLOB NOT NULL
);`

	addRevision  = `ALTER TABLE slots ADD COLUMN revision TEXT NOT NULL DEFAULT '';`
	addUpdatedAt = `ALTER TABLE slots ADD COLUMN updated_at TEXT NOT NULL DEFAULT '';`
)

// pragmas configure every connection.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
}

// applySchema creates the slots table and runs pending migrations. It is
// idempotent. Migrations and the user_version bump commit together or not
// at all.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(createSlots); err != nil {
		return fmt.Errorf("create slots: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 2 {
		for _, stmt := range []string{addRevision, addUpdatedAt} {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("migrate to v2: %w", err)
			}
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
