// Package database provides schema creation
package database

import (
	"database/sql"
	"fmt"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
// Every statement is idempotent.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS flex_cards (id TEXT PRIMARY KEY, profile_id TEXT NOT NULL, name TEXT NOT NULL, alt_text TEXT NOT NULL, flex_json TEXT NOT NULL, html_format TEXT NOT NULL, editor_json TEXT, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP, UNIQUE(profile_id, name))`,
	`CREATE TABLE IF NOT EXISTS media_files (id TEXT PRIMARY KEY, profile_id TEXT NOT NULL, kind TEXT NOT NULL, filename TEXT NOT NULL, url TEXT NOT NULL, mime_type TEXT NOT NULL, width INTEGER, height INTEGER, size INTEGER NOT NULL, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_flex_cards_profile_id ON flex_cards(profile_id)`,
	`CREATE INDEX IF NOT EXISTS idx_media_files_profile_id ON media_files(profile_id)`,
	`CREATE INDEX IF NOT EXISTS idx_media_files_kind ON media_files(kind)`,
}
