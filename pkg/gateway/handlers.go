package gateway

import (
	"context"

	"codegate/pkg/health"
	"codegate/pkg/protocol"
)

// HealthHandler answers health events with the current connection count
type HealthHandler struct {
	counter health.ConnectionCounter
}

// NewHealthHandler creates a health event handler
func NewHealthHandler(counter health.ConnectionCounter) *HealthHandler {
	return &HealthHandler{counter: counter}
}

// Event returns the event name this handler processes
func (h *HealthHandler) Event() protocol.Event {
	return protocol.EventHealth
}

// Handle builds the health reply. The count is read at reply time.
func (h *HealthHandler) Handle(_ context.Context, _ *protocol.ClientMessage) (any, error) {
	return protocol.NewHealthMessage(h.counter.Count()), nil
}
