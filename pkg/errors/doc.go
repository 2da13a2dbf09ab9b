// Package errors provides standardized error definitions for codegate.
// All error definitions are centralized here to ensure consistency across
// the HTTP handlers, the WebSocket gateway, and the audit store.
package errors
