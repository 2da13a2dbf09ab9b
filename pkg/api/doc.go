// Package api provides the HTTP side of the endpoint: the login exchange,
// the authenticated resource handlers, and the middleware gating them.
package api
