package gateway

import "sync"

// Registry tracks open connections. Its Count is the connection-count
// collaborator consumed by the health event and the health resource.
type Registry struct {
	mu    sync.RWMutex
	conns map[*Conn]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[*Conn]struct{}),
	}
}

// Add registers a newly opened connection
func (r *Registry) Add(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn] = struct{}{}
}

// Remove unregisters a closed connection
func (r *Registry) Remove(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, conn)
}

// Count returns the number of open connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll closes every open connection, for server shutdown
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := make([]*Conn, 0, len(r.conns))
	for conn := range r.conns {
		conns = append(conns, conn)
	}
	r.conns = make(map[*Conn]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}
