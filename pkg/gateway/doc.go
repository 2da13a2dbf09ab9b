// Package gateway owns the WebSocket side of the endpoint: the authenticated
// upgrade handshake, the connection registry, and the per-connection message
// loop that dispatches inbound events to registered handlers.
//
// Malformed frames and unknown events are logged and dropped; they never end
// the session. A connection closes only when the transport does.
package gateway
