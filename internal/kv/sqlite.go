package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

const sqliteSchema = `CREATE TABLE IF NOT EXISTS entries (
	seq   INTEGER PRIMARY KEY AUTOINCREMENT,
	key   TEXT NOT NULL UNIQUE,
	value TEXT NOT NULL
)`

// SQLite is a Store backed by a single SQLite table. Key order and sizes are
// cached at open; values are read from the database on Get.
type SQLite struct {
	mu     sync.Mutex
	db     *sql.DB
	idx    *index
	logger *slog.Logger
	closed bool
}

// OpenSQLite opens (or creates) the database at path. Pass MemoryDSN for a
// throwaway database.
func OpenSQLite(path string, opts ...Option) (*SQLite, error) {
	o := applyOptions(opts)
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("kv: sqlite path is required")
	}
	dsn := MemoryDSN
	if path != MemoryDSN {
		clean := filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(clean), 0755); err != nil {
			return nil, fmt.Errorf("kv: mkdir %q: %w", filepath.Dir(clean), err)
		}
		dsn = clean + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("kv: open sqlite db: %w", err)
	}
	// One connection: writes are serialized anyway and :memory: databases
	// are per-connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv: ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv: create schema: %w", err)
	}
	s := &SQLite{db: db, idx: newIndex(o.quota), logger: o.logger}
	if err := s.loadIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) loadIndex() error {
	rows, err := s.db.Query(`SELECT key, length(CAST(value AS BLOB)) FROM entries ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("kv: load keys: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var valueLen int
		if err := rows.Scan(&key, &valueLen); err != nil {
			return fmt.Errorf("kv: scan key: %w", err)
		}
		s.idx.put(key, len(key)+valueLen)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("kv: iterate keys: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *SQLite) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.idx.keys)
}

// KeyAt returns the key at position i.
func (s *SQLite) KeyAt(i int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.keyAt(i)
}

// Get returns the value stored under key. Query failures are logged and
// reported as absent.
func (s *SQLite) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false
	}
	var value string
	err := s.db.QueryRow(`SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("kv: sqlite get", "key", key, "error", err)
		return "", false
	}
	return value, true
}

// Set upserts value under key. An existing key keeps its position.
func (s *SQLite) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := checkUTF8(key, value); err != nil {
		return err
	}
	if !s.idx.fits(key, value) {
		return fmt.Errorf("kv: set %q: %w", key, ErrQuotaExceeded)
	}
	_, err := s.db.Exec(
		`INSERT INTO entries (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("kv: set %q: %w", key, err)
	}
	s.idx.put(key, entrySize(key, value))
	return nil
}

// Clear deletes every entry.
func (s *SQLite) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := s.db.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("kv: clear: %w", err)
	}
	s.idx.reset()
	return nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
