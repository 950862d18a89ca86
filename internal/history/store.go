package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded scan attempt.
type Entry struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"session_id"`
	Device        string    `json:"device"`
	Status        string    `json:"status"`
	Detail        string    `json:"detail,omitempty"`
	FreedbID      string    `json:"freedb_id,omitempty"`
	MusicbrainzID string    `json:"musicbrainz_id,omitempty"`
	AudioTracks   int       `json:"audio_tracks"`
	TotalSectors  int       `json:"total_sectors"`
	ScannedAt     time.Time `json:"scanned_at"`
}

// Store manages scan history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the history database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path is the database file.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts entry and returns it with its id assigned. A zero
// ScannedAt is replaced by the current time.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.SessionID) == "" {
		return Entry{}, errors.New("record scan: session id is required")
	}
	if strings.TrimSpace(entry.Status) == "" {
		return Entry{}, errors.New("record scan: status is required")
	}
	if entry.ScannedAt.IsZero() {
		entry.ScannedAt = time.Now()
	}
	entry.ScannedAt = entry.ScannedAt.UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scans (
            session_id, device, status, detail, freedb_id, musicbrainz_id,
            audio_tracks, total_sectors, scanned_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.Device,
		entry.Status,
		nullableString(entry.Detail),
		nullableString(entry.FreedbID),
		nullableString(entry.MusicbrainzID),
		entry.AudioTracks,
		entry.TotalSectors,
		entry.ScannedAt.Format(timestampLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert scan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// List returns the newest entries first. A limit of zero or less returns
// every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM scans ORDER BY scanned_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return entries, nil
}

// FindByFreedbID returns the newest entry for a freedb disc id.
func (s *Store) FindByFreedbID(ctx context.Context, freedbID string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM scans WHERE freedb_id = ? ORDER BY scanned_at DESC, id DESC LIMIT 1`,
		freedbID,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// timestampLayout has a fixed width so stored values sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = "id, session_id, device, status, detail, freedb_id, musicbrainz_id, audio_tracks, total_sectors, scanned_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry         Entry
		detail        sql.NullString
		freedbID      sql.NullString
		musicbrainzID sql.NullString
		scannedRaw    string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.SessionID,
		&entry.Device,
		&entry.Status,
		&detail,
		&freedbID,
		&musicbrainzID,
		&entry.AudioTracks,
		&entry.TotalSectors,
		&scannedRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan history row: %w", err)
	}
	entry.Detail = detail.String
	entry.FreedbID = freedbID.String
	entry.MusicbrainzID = musicbrainzID.String
	if ts, err := time.Parse(timestampLayout, scannedRaw); err == nil {
		entry.ScannedAt = ts
	}
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
