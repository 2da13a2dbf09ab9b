// Package protocol defines the wire types exchanged by the codegate endpoint:
// the WebSocket event messages and the JSON payloads of the HTTP routes.
package protocol
