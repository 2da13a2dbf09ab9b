// Package storage persists login audit records. SQLite is the default
// file-backed backend; MySQL is available for deployments that already run
// one. Store failures degrade to log-only auditing and never fail a request.
package storage
