package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"codegate/pkg/auth"
	"codegate/pkg/protocol"
)

func newTestGateway(t *testing.T) (*Gateway, *httptest.Server) {
	t.Helper()
	g := New(auth.NewAuthenticator("secret"), NewRegistry(), nil)
	srv := httptest.NewServer(http.HandlerFunc(g.Handle))
	t.Cleanup(srv.Close)
	return g, srv
}

func dial(t *testing.T, srv *httptest.Server, cookie string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{}
	if cookie != "" {
		header.Set("Cookie", auth.CookieName+"="+cookie)
	}
	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestUpgradeRejectsMissingCookie(t *testing.T) {
	_, srv := newTestGateway(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Handshake should not complete without a credential")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401 handshake response, got %+v", resp)
	}
}

func TestUpgradeRejectsWrongCookie(t *testing.T) {
	_, srv := newTestGateway(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	header := http.Header{}
	header.Set("Cookie", auth.CookieName+"=wrong")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("Handshake should not complete with a bad credential")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401 handshake response, got %+v", resp)
	}
}

func TestHealthEvent(t *testing.T) {
	_, srv := newTestGateway(t)
	ws := dial(t, srv, "secret")

	if err := ws.WriteJSON(protocol.ClientMessage{Event: protocol.EventHealth}); err != nil {
		t.Fatalf("Failed to send health event: %v", err)
	}

	var reply protocol.HealthMessage
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := ws.ReadJSON(&reply); err != nil {
		t.Fatalf("Failed to read reply: %v", err)
	}
	if reply.Event != protocol.EventHealth {
		t.Errorf("Expected event 'health', got '%s'", reply.Event)
	}
	if reply.Connections != 1 {
		t.Errorf("Expected 1 connection, got %d", reply.Connections)
	}
}

func TestMalformedFrameKeepsSession(t *testing.T) {
	_, srv := newTestGateway(t)
	ws := dial(t, srv, "secret")

	// Bad JSON, then an unknown shape, then an unknown event. None may
	// produce a reply or close the session.
	for _, frame := range []string{"{not json", `{"bogus":1}`, `{"event":"bogus"}`} {
		if err := ws.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatalf("Failed to send frame %q: %v", frame, err)
		}
	}

	// A valid request still gets exactly one reply, proving the session
	// survived and nothing was queued for the bad frames.
	if err := ws.WriteJSON(protocol.ClientMessage{Event: protocol.EventHealth}); err != nil {
		t.Fatalf("Failed to send health event: %v", err)
	}

	var reply protocol.HealthMessage
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := ws.ReadJSON(&reply); err != nil {
		t.Fatalf("Failed to read reply: %v", err)
	}
	if reply.Event != protocol.EventHealth {
		t.Errorf("Expected event 'health', got '%s'", reply.Event)
	}
}

func TestRepliesKeepFrameOrder(t *testing.T) {
	_, srv := newTestGateway(t)
	ws := dial(t, srv, "secret")

	const n = 5
	for i := 0; i < n; i++ {
		if err := ws.WriteJSON(protocol.ClientMessage{Event: protocol.EventHealth}); err != nil {
			t.Fatalf("Failed to send frame %d: %v", i, err)
		}
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < n; i++ {
		var reply protocol.HealthMessage
		if err := ws.ReadJSON(&reply); err != nil {
			t.Fatalf("Failed to read reply %d: %v", i, err)
		}
		if reply.Event != protocol.EventHealth {
			t.Errorf("Reply %d has event '%s'", i, reply.Event)
		}
	}
}

func TestRegistryTracksConnections(t *testing.T) {
	g, srv := newTestGateway(t)

	if g.Registry().Count() != 0 {
		t.Fatalf("Expected 0 connections, got %d", g.Registry().Count())
	}

	ws := dial(t, srv, "secret")

	// Registration happens in the handler goroutine after the handshake.
	deadline := time.Now().Add(2 * time.Second)
	for g.Registry().Count() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if g.Registry().Count() != 1 {
		t.Fatalf("Expected 1 connection, got %d", g.Registry().Count())
	}

	ws.Close()
	deadline = time.Now().Add(2 * time.Second)
	for g.Registry().Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if g.Registry().Count() != 0 {
		t.Fatalf("Expected 0 connections after close, got %d", g.Registry().Count())
	}
}

func TestDispatcherRejectsDuplicate(t *testing.T) {
	d := NewDispatcher()
	reg := NewRegistry()
	if err := d.Register(NewHealthHandler(reg)); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	if err := d.Register(NewHealthHandler(reg)); err == nil {
		t.Fatal("Duplicate registration should fail")
	}
}

func TestDispatcherUnknownEvent(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Dispatch(context.Background(), &protocol.ClientMessage{Event: "bogus"})
	if err == nil {
		t.Fatal("Expected error for unknown event")
	}
}
