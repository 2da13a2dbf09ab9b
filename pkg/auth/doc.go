// Package auth verifies the shared-secret credential carried by requests.
//
// The configured password is never compared in plaintext: the valid value is
// kept as a SHA-256 digest and every candidate (cookie value or freshly
// submitted password) is hashed before a constant-time comparison. The
// package also provides brute-force protection for the login route and
// client address extraction for audit records.
package auth
