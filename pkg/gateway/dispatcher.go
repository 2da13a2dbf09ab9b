package gateway

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "codegate/pkg/errors"
	"codegate/pkg/protocol"
)

// Handler handles a specific event
type Handler interface {
	// Event returns the event name this handler processes
	Event() protocol.Event
	// Handle processes a message and returns an optional reply frame
	Handle(ctx context.Context, msg *protocol.ClientMessage) (any, error)
}

// Dispatcher routes inbound messages to the handler registered for their event
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[protocol.Event]Handler
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[protocol.Event]Handler),
	}
}

// Register registers a handler for its event
func (d *Dispatcher) Register(handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	event := handler.Event()
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.handlers[event]; exists {
		return fmt.Errorf("handler already registered for event: %s", event)
	}

	d.handlers[event] = handler
	return nil
}

// Dispatch routes a message to the handler for its event
func (d *Dispatcher) Dispatch(ctx context.Context, msg *protocol.ClientMessage) (any, error) {
	d.mu.RLock()
	handler, exists := d.handlers[msg.Event]
	d.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrUnknownEvent, msg.Event)
	}

	return handler.Handle(ctx, msg)
}
