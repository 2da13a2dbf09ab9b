package storage

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore implements Store using a MySQL backend
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL-backed store
func NewMySQLStore(dsn string) (Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	s := &MySQLStore{db: db}
	if err := s.initDB(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// initDB initializes the database schema
func (s *MySQLStore) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS login_attempts (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			forwarded_for VARCHAR(255),
			remote_addr VARCHAR(255),
			user_agent VARCHAR(512),
			timestamp BIGINT NOT NULL,
			INDEX idx_login_attempts_ts (timestamp DESC)
		)`)
	return err
}

// RecordLoginAttempt persists one failed login attempt
func (s *MySQLStore) RecordLoginAttempt(attempt *LoginAttempt) error {
	_, err := s.db.Exec(
		`INSERT INTO login_attempts (forwarded_for, remote_addr, user_agent, timestamp) VALUES (?, ?, ?, ?)`,
		attempt.ForwardedFor, attempt.RemoteAddr, attempt.UserAgent, attempt.Timestamp,
	)
	return err
}

// RecentLoginAttempts returns up to limit attempts, newest first
func (s *MySQLStore) RecentLoginAttempts(limit int) ([]*LoginAttempt, error) {
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
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
