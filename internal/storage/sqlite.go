package storage

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

// Config holds SQLite settings.
type Config struct {
	Path        string
	BusyTimeout time.Duration
	JournalMode string
	Synchronous string
}

// DefaultConfig returns WAL mode with a 5s busy timeout.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
		JournalMode: "WAL",
		Synchronous: "NORMAL",
	}
}

// SQLiteStore is the Store used by the server.
type SQLiteStore struct {
	db *sql.DB
}

// Open migrates the database file and opens it.
func Open(cfg *Config) (*SQLiteStore, error) {
	if cfg == nil || strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("storage path is required")
	}
	path := filepath.Clean(cfg.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	if err := migrateFile(path); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(%s)&_pragma=synchronous(%s)",
		path, cfg.BusyTimeout.Milliseconds(), cfg.JournalMode, cfg.Synchronous)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer; the session serializes access anyway
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, body []byte, savedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, body, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, saved_at = excluded.saved_at`,
		SnapshotKey, string(body), toMillis(savedAt))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadSnapshot(ctx context.Context) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE key = ?`, SnapshotKey).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return []byte(body), nil
}

func (s *SQLiteStore) ClearSnapshot(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, SnapshotKey); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, body, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		string(body), toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadProfile(ctx context.Context) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM profiles WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return []byte(body), nil
}
