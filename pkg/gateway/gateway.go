package gateway

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"codegate/pkg/auth"
	pkgerrors "codegate/pkg/errors"
	"codegate/pkg/logger"
	"codegate/pkg/metrics"
	"codegate/pkg/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway owns the upgrade handshake and the per-connection message loop
type Gateway struct {
	authenticator *auth.Authenticator
	registry      *Registry
	dispatcher    *Dispatcher
	metrics       *metrics.Metrics
	log           *logger.Logger
}

// New creates a Gateway. The registry is an owned resource whose lifetime is
// tied to the server; callers close it through Shutdown.
func New(authenticator *auth.Authenticator, registry *Registry, m *metrics.Metrics) *Gateway {
	g := &Gateway{
		authenticator: authenticator,
		registry:      registry,
		dispatcher:    NewDispatcher(),
		metrics:       m,
		log:           logger.Get().With("component", "gateway"),
	}

	g.dispatcher.Register(NewHealthHandler(registry))

	return g
}

// Registry returns the connection registry
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// Handle authenticates an upgrade request, completes the handshake, and runs
// the message loop until the transport closes. An unauthenticated request is
// answered with 401 and the socket is never upgraded.
func (g *Gateway) Handle(w http.ResponseWriter, r *http.Request) {
	if cred := g.authenticator.Authenticate(r); cred == "" {
		g.log.WarnWith("unauthenticated upgrade rejected", "remote", r.RemoteAddr)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error to the client.
		g.log.ErrorWithErr("websocket upgrade failed", err, "remote", r.RemoteAddr)
		return
	}

	conn := newConn(ws)
	g.registry.Add(conn)
	if g.metrics != nil {
		g.metrics.WSConnections.Inc()
	}
	g.log.InfoWith("connection opened", "remote", conn.RemoteAddr())

	defer func() {
		g.registry.Remove(conn)
		conn.Close()
		if g.metrics != nil {
			g.metrics.WSConnections.Dec()
		}
		g.log.InfoWith("connection closed", "remote", conn.RemoteAddr())
	}()

	g.readLoop(r, conn)
}

// readLoop processes frames in arrival order. One goroutine reads,
// dispatches, and writes, so replies keep the inbound frame order.
func (g *Gateway) readLoop(r *http.Request, conn *Conn) {
	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.WarnWith("read error", "remote", conn.RemoteAddr(), "error", err)
			}
			return
		}

		msg, err := protocol.ParseClientMessage(data)
		if err != nil {
			// Malformed input is never fatal to the session.
			g.log.WarnWith("dropping malformed frame", "remote", conn.RemoteAddr(), "error", err)
			continue
		}

		if g.metrics != nil {
			g.metrics.WebSocketFrames.WithLabelValues(string(msg.Event), "in").Inc()
		}

		reply, err := g.dispatcher.Dispatch(r.Context(), msg)
		if err != nil {
			if errors.Is(err, pkgerrors.ErrUnknownEvent) {
				g.log.ErrorWith("unknown event", "remote", conn.RemoteAddr(), "event", string(msg.Event))
			} else {
				g.log.ErrorWithErr("event handler failed", err, "event", string(msg.Event))
			}
			continue
		}

		if reply == nil {
			continue
		}

		if err := conn.WriteJSON(reply); err != nil {
			g.log.WarnWith("write error", "remote", conn.RemoteAddr(), "error", err)
			return
		}
		if g.metrics != nil {
			g.metrics.WebSocketFrames.WithLabelValues(string(msg.Event), "out").Inc()
		}
	}
}
