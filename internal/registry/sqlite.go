package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the server-side persistence for the registry.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT spreadsheet_id, tag, added_at, last_used
		 FROM user_sheets WHERE user_id = ? ORDER BY added_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query sheets: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan sheet row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheet rows: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID, sheetID string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT spreadsheet_id, tag, added_at, last_used
		 FROM user_sheets WHERE user_id = ? AND spreadsheet_id = ?`,
		userID, sheetID)
	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("query sheet: %w", err)
	}
	return e, nil
}

// Timestamps are stored as RFC 3339 text; the driver is not asked to guess.
func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var e Entry
	var addedAt, lastUsed string
	if err := scan(&e.ID, &e.Tag, &addedAt, &lastUsed); err != nil {
		return Entry{}, err
	}
	var err error
	if e.AddedAt, err = time.Parse(time.RFC3339Nano, addedAt); err != nil {
		return Entry{}, fmt.Errorf("parse added_at: %w", err)
	}
	if e.LastUsed, err = time.Parse(time.RFC3339Nano, lastUsed); err != nil {
		return Entry{}, fmt.Errorf("parse last_used: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, userID string, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_sheets (user_id, spreadsheet_id, tag, added_at, last_used)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, spreadsheet_id)
		 DO UPDATE SET tag = excluded.tag, last_used = excluded.last_used`,
		userID, e.ID, e.Tag,
		e.AddedAt.UTC().Format(time.RFC3339Nano),
		e.LastUsed.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert sheet: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, userID, sheetID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_sheets WHERE user_id = ? AND spreadsheet_id = ?`,
		userID, sheetID)
	if err != nil {
		return fmt.Errorf("delete sheet: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ActiveID(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT spreadsheet_id FROM active_sheets WHERE user_id = ?`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query active sheet: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) SetActiveID(ctx context.Context, userID, sheetID string) error {
	if sheetID == "" {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM active_sheets WHERE user_id = ?`, userID)
		if err != nil {
			return fmt.Errorf("clear active sheet: %w", err)
		}
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO active_sheets (user_id, spreadsheet_id) VALUES (?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET spreadsheet_id = excluded.spreadsheet_id`,
		userID, sheetID)
	if err != nil {
		return fmt.Errorf("set active sheet: %w", err)
	}
	return nil
}
