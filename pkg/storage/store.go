package storage

// LoginAttempt is one failed login audit record
type LoginAttempt struct {
	ID           int64  `json:"id"`
	ForwardedFor string `json:"forwarded_for"`
	RemoteAddr   string `json:"remote_addr"`
	UserAgent    string `json:"user_agent"`
	Timestamp    int64  `json:"timestamp"` // unix seconds
}

// Store defines the interface for audit persistence
type Store interface {
	// RecordLoginAttempt persists one failed login attempt
	RecordLoginAttempt(attempt *LoginAttempt) error

	// RecentLoginAttempts returns up to limit attempts, newest first
	RecentLoginAttempts(limit int) ([]*LoginAttempt, error)

	// Lifecycle
	Close() error
}
