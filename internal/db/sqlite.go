// Package db provides the local SQLite store: user preferences and the
// snapshots of deleted slots that undo re-creates from.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

// Store errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrUndoExpired  = errors.New("undo window has passed")
	ErrInvalidTheme = errors.New("theme must be light or dark")
)

const (
	// KeyTheme is the preference key holding the UI theme.
	KeyTheme = "theme"

	ThemeLight = "light"
	ThemeDark  = "dark"

	// UndoWindow is how long a deleted slot can be restored.
	UndoWindow = 12 * time.Second

	// timestampLayout is fixed width so stored values sort as text.
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// SQLite is the local store.
type SQLite struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and runs migrations.
func New(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetPreference returns the value stored under key, or ErrNotFound.
func (s *SQLite) GetPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying preference %s: %w", key, err)
	}
	return value, nil
}

// SetPreference stores value under key, replacing any previous value.
func (s *SQLite) SetPreference(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("saving preference %s: %w", key, err)
	}
	return nil
}

// Theme returns the stored theme, light when none was saved.
func (s *SQLite) Theme(ctx context.Context) (string, error) {
	v, err := s.GetPreference(ctx, KeyTheme)
	if errors.Is(err, ErrNotFound) {
		return ThemeLight, nil
	}
	if err != nil {
		return "", err
	}
	if v != ThemeLight && v != ThemeDark {
		return ThemeLight, nil
	}
	return v, nil
}

// SetTheme persists the theme.
func (s *SQLite) SetTheme(ctx context.Context, name string) error {
	if name != ThemeLight && name != ThemeDark {
		return ErrInvalidTheme
	}
	return s.SetPreference(ctx, KeyTheme, name)
}

// SaveDeleted keeps a snapshot of a slot that was just deleted.
func (s *SQLite) SaveDeleted(ctx context.Context, sl slot.Slot, at time.Time) error {
	if sl.ID == "" {
		return slot.ErrMissingID
	}
	payload, err := json.Marshal(sl)
	if err != nil {
		return fmt.Errorf("encoding slot: %w", err)
	}
	query := `
		INSERT INTO deleted_slots (slot_id, date, payload, deleted_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(slot_id) DO UPDATE SET date = excluded.date, payload = excluded.payload, deleted_at = excluded.deleted_at
	`
	if _, err := s.db.ExecContext(ctx, query, sl.ID, sl.Date, string(payload), at.UTC().Format(timestampLayout)); err != nil {
		return fmt.Errorf("saving deleted slot: %w", err)
	}
	return nil
}

// Deleted is a stored snapshot of a deleted slot.
type Deleted struct {
	Slot      slot.Slot
	DeletedAt time.Time
}

// Expired reports whether the undo window has passed at now.
func (d Deleted) Expired(now time.Time) bool {
	return now.Sub(d.DeletedAt) > UndoWindow
}

// LatestDeleted returns the most recently deleted slot, or ErrNotFound.
func (s *SQLite) LatestDeleted(ctx context.Context) (Deleted, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT payload, deleted_at FROM deleted_slots
		ORDER BY deleted_at DESC
		LIMIT 1
	`)
	return scanDeleted(row)
}

// TakeDeleted removes and returns the snapshot of slot id. The row is
// removed even when the undo window has passed, in which case
// ErrUndoExpired is returned.
func (s *SQLite) TakeDeleted(ctx context.Context, id string, now time.Time) (slot.Slot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return slot.Slot{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT payload, deleted_at FROM deleted_slots WHERE slot_id = ?`, id)
	d, err := scanDeleted(row)
	if err != nil {
		return slot.Slot{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM deleted_slots WHERE slot_id = ?`, id); err != nil {
		return slot.Slot{}, fmt.Errorf("removing deleted slot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return slot.Slot{}, fmt.Errorf("committing transaction: %w", err)
	}

	if d.Expired(now) {
		return slot.Slot{}, ErrUndoExpired
	}
	return d.Slot, nil
}

// PruneDeleted drops snapshots deleted before the cutoff and returns how many went.
func (s *SQLite) PruneDeleted(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM deleted_slots WHERE deleted_at < ?`,
		before.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning deleted slots: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return n, nil
}

func scanDeleted(row *sql.Row) (Deleted, error) {
	var payload, deletedAt string
	err := row.Scan(&payload, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Deleted{}, ErrNotFound
	}
	if err != nil {
		return Deleted{}, fmt.Errorf("querying deleted slot: %w", err)
	}

	var d Deleted
	if err := json.Unmarshal([]byte(payload), &d.Slot); err != nil {
		return Deleted{}, fmt.Errorf("decoding deleted slot: %w", err)
	}
	d.DeletedAt, err = parseTimestamp(deletedAt)
	if err != nil {
		return Deleted{}, fmt.Errorf("parsing deleted_at: %w", err)
	}
	return d, nil
}

// parseTimestamp accepts the formats SQLite hands back for stored timestamps.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		timestampLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
