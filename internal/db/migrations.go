package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS preferences (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS deleted_slots (
			slot_id    TEXT PRIMARY KEY,
			date       TEXT NOT NULL,
			payload    TEXT NOT NULL,
			deleted_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_deleted_slots_deleted_at ON deleted_slots(deleted_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
