package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Event identifies a WebSocket message variant
type Event string

const (
	// EventHealth requests the current connection count
	EventHealth Event = "health"
)

// ClientMessage is an inbound WebSocket frame
type ClientMessage struct {
	Event Event `json:"event"`
}

// ParseClientMessage decodes an inbound frame with strict field checking.
// Anything that is not a known message shape is rejected before dispatch.
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var msg ClientMessage
	if err := dec.Decode(&msg); err != nil {
		return nil, fmt.Errorf("malformed client message: %w", err)
	}
	if msg.Event == "" {
		return nil, fmt.Errorf("client message missing event")
	}
	return &msg, nil
}

// HealthMessage is the outbound frame answering an EventHealth request
type HealthMessage struct {
	Event       Event `json:"event"`
	Connections int   `json:"connections"`
}

// NewHealthMessage builds a health reply carrying the connection count
func NewHealthMessage(connections int) *HealthMessage {
	return &HealthMessage{
		Event:       EventHealth,
		Connections: connections,
	}
}

// Application describes one entry of the applications listing
type Application struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ApplicationsResponse is the payload of GET /api/applications
type ApplicationsResponse struct {
	Applications []Application `json:"applications"`
}

// FileEntry describes one entry of the files listing
type FileEntry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	Mode    string    `json:"mode"`
	ModTime time.Time `json:"mtime"`
	IsDir   bool      `json:"dir"`
}

// FilesResponse is the payload of GET /api/files
type FilesResponse struct {
	Files []FileEntry `json:"files"`
}

// LoginResponse is the payload of a successful POST /api/login
type LoginResponse struct {
	Success bool `json:"success"`
}
