package httpcache

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS responses (
	key       TEXT PRIMARY KEY,
	stored_at INTEGER NOT NULL,
	value     BLOB NOT NULL
)`

// SQLiteStore keeps values in a single SQLite database file.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore opens or creates the database at path. A ttl of zero never
// expires values.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if !fileutil.IsExist(dir) {
		if err := fileutil.CreateDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

// Get returns the fresh value stored under key. Stale rows are deleted.
func (s *SQLiteStore) Get(key string) ([]byte, bool) {
	var (
		storedAt int64
		value    []byte
	)

	err := s.db.QueryRow("SELECT stored_at, value FROM responses WHERE key = ?", key).Scan(&storedAt, &value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			appstate.Logger.Warn("Failed to read cached response", "error", err, "key", key)
		}

		return nil, false
	}

	if expired(time.Unix(0, storedAt), s.ttl, s.now()) {
		if _, err := s.db.Exec("DELETE FROM responses WHERE key = ?", key); err != nil {
			appstate.Logger.Warn("Failed to delete expired response", "error", err, "key", key)
		}

		return nil, false
	}

	return value, true
}

// Put stores value under key, replacing any previous row.
func (s *SQLiteStore) Put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO responses (key, stored_at, value) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET stored_at = excluded.stored_at, value = excluded.value`,
		key, s.now().UnixNano(), value,
	)
	if err != nil {
		return fmt.Errorf("failed to store cached response: %w", err)
	}

	return nil
}

// Clear deletes every row.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM responses"); err != nil {
		return fmt.Errorf("failed to clear cache database: %w", err)
	}

	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
