package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codegate/pkg/auth"
	"codegate/pkg/files"
	"codegate/pkg/health"
	"codegate/pkg/logger"
	"codegate/pkg/metrics"
	"codegate/pkg/protocol"
	"codegate/pkg/storage"
)

// defaultApplications is the fixed applications listing
var defaultApplications = []protocol.Application{
	{Name: "VS Code", Path: "/vscode"},
}

// Handler encapsulates the HTTP handlers of the endpoint
type Handler struct {
	authenticator *auth.Authenticator
	limiter       *auth.RateLimiter
	store         storage.Store
	lister        *files.Lister
	monitor       *health.Monitor
	metrics       *metrics.Metrics
	log           *logger.Logger
}

// NewHandler creates a new API handler. store may be nil (log-only auditing),
// metrics may be nil.
func NewHandler(authenticator *auth.Authenticator, limiter *auth.RateLimiter, store storage.Store, lister *files.Lister, monitor *health.Monitor, m *metrics.Metrics) *Handler {
	return &Handler{
		authenticator: authenticator,
		limiter:       limiter,
		store:         store,
		lister:        lister,
		monitor:       monitor,
		metrics:       m,
		log:           logger.Get().With("component", "api"),
	}
}

// HandleLogin exchanges a valid password for the session cookie.
//
// The cookie stores the submitted password verbatim; every later check
// re-hashes the cookie value against the configured digest. Clients rely on
// the cookie value being the password itself, not its digest.
func (h *Handler) HandleLogin(c *gin.Context) {
	// Already logged in: succeed without touching the cookie.
	if cred := h.authenticator.Authenticate(c.Request); cred != "" {
		RespondJSON(c, http.StatusOK, protocol.LoginResponse{Success: true})
		return
	}

	ip := auth.ClientIP(c.Request)
	if !h.limiter.AllowRequest(ip) {
		h.auditFailure(c)
		RespondError(c, http.StatusTooManyRequests, ErrTooManyRequests)
		return
	}

	password, ok := submittedPassword(c.Request)
	if !ok {
		h.auditFailure(c)
		Unauthorized(c)
		return
	}

	if !h.authenticator.AuthenticateCandidates(auth.HashPassword(password)) {
		h.auditFailure(c)
		Unauthorized(c)
		return
	}

	h.limiter.Reset(ip)
	c.SetCookie(auth.CookieName, password, 0, "/", "", c.Request.TLS != nil, true)
	RespondJSON(c, http.StatusOK, protocol.LoginResponse{Success: true})
}

// submittedPassword extracts the password field from a form-encoded body.
// Only a single string value counts; a missing body, a missing field, or an
// array-valued field are all treated as absent.
func submittedPassword(r *http.Request) (string, bool) {
	if err := r.ParseForm(); err != nil {
		return "", false
	}
	values := r.PostForm["password"]
	if len(values) != 1 || values[0] == "" {
		return "", false
	}
	return values[0], true
}

// auditFailure records a failed login attempt. Persistence failures degrade
// to the log entry alone; they never fail the request.
func (h *Handler) auditFailure(c *gin.Context) {
	attempt := &storage.LoginAttempt{
		ForwardedFor: c.Request.Header.Get("X-Forwarded-For"),
		RemoteAddr:   c.Request.RemoteAddr,
		UserAgent:    c.Request.UserAgent(),
		Timestamp:    time.Now().Unix(),
	}

	h.log.WarnWith("failed login attempt",
		"forwarded_for", attempt.ForwardedFor,
		"remote_addr", attempt.RemoteAddr,
		"user_agent", attempt.UserAgent,
		"timestamp", attempt.Timestamp,
	)

	if h.metrics != nil {
		h.metrics.LoginFailures.Inc()
	}

	if h.store != nil {
		if err := h.store.RecordLoginAttempt(attempt); err != nil {
			h.log.ErrorWithErr("failed to persist login attempt", err)
		}
	}
}

// HandleApplications returns the fixed applications listing
func (h *Handler) HandleApplications(c *gin.Context) {
	RespondJSON(c, http.StatusOK, protocol.ApplicationsResponse{
		Applications: defaultApplications,
	})
}

// HandleFiles returns the files listing
func (h *Handler) HandleFiles(c *gin.Context) {
	RespondJSON(c, http.StatusOK, protocol.FilesResponse{
		Files: h.lister.List(),
	})
}

// HandleHealth returns the health monitor snapshot
func (h *Handler) HandleHealth(c *gin.Context) {
	RespondJSON(c, http.StatusOK, h.monitor.Snapshot())
}

// RegisterRoutes registers the route table. ws is the gateway's upgrade
// handler; metricsHandler may be nil.
func (h *Handler) RegisterRoutes(router *gin.Engine, ws http.HandlerFunc, metricsHandler http.Handler) {
	group := router.Group("/api")
	group.POST("/login", h.HandleLogin)

	protected := group.Group("")
	protected.Use(RequireAuth(h.authenticator))
	protected.GET("/applications", h.HandleApplications)
	protected.GET("/files", h.HandleFiles)
	protected.GET("/health", h.HandleHealth)
	protected.GET("/ws", func(c *gin.Context) {
		ws(c.Writer, c.Request)
	})

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
}
