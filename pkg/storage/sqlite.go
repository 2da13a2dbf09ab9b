package storage

import (
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using a SQLite backend
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-backed store
func NewSQLiteStore(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{
		db: db,
	}

	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initDB initializes the database schema
func (s *SQLiteStore) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS login_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		forwarded_for TEXT,
		remote_addr TEXT,
		user_agent TEXT,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_login_attempts_ts ON login_attempts(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordLoginAttempt persists one failed login attempt
func (s *SQLiteStore) RecordLoginAttempt(attempt *LoginAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO login_attempts (forwarded_for, remote_addr, user_agent, timestamp) VALUES (?, ?, ?, ?)`,
		attempt.ForwardedFor, attempt.RemoteAddr, attempt.UserAgent, attempt.Timestamp,
	)
	return err
}

// RecentLoginAttempts returns up to limit attempts, newest first
func (s *SQLiteStore) RecentLoginAttempts(limit int) ([]*LoginAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, forwarded_for, remote_addr, user_agent, timestamp
		 FROM login_attempts ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*LoginAttempt
	for rows.Next() {
		a := &LoginAttempt{}
		if err := rows.Scan(&a.ID, &a.ForwardedFor, &a.RemoteAddr, &a.UserAgent, &a.Timestamp); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
