package errors

import "errors"

// Authentication errors
var (
	// ErrAuthFailed is returned when a request carries no valid credential
	ErrAuthFailed = errors.New("authentication failed")

	// ErrPasswordMissing is returned when a login submits no usable password
	ErrPasswordMissing = errors.New("password missing")

	// ErrTooManyAttempts is returned when the login rate limit is exceeded
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// WebSocket gateway errors
var (
	// ErrInvalidMessage is returned when an inbound frame is not a known message shape
	ErrInvalidMessage = errors.New("invalid message")

	// ErrUnknownEvent is returned when a message names an unregistered event
	ErrUnknownEvent = errors.New("unknown event")

	// ErrConnClosed is returned when writing to a closed connection
	ErrConnClosed = errors.New("connection closed")
)

// Storage errors
var (
	// ErrStoreNotInitialized is returned when the audit store is unavailable
	ErrStoreNotInitialized = errors.New("store not initialized")

	// ErrUnsupportedStore is returned for an unknown database type
	ErrUnsupportedStore = errors.New("unsupported store type")
)

// Configuration errors
var (
	// ErrInvalidConfig is returned when configuration validation fails
	ErrInvalidConfig = errors.New("invalid configuration")
)
