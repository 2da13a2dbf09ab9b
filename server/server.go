package server

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codegate/pkg/api"
	"codegate/pkg/auth"
	"codegate/pkg/config"
	"codegate/pkg/files"
	"codegate/pkg/gateway"
	"codegate/pkg/health"
	"codegate/pkg/logger"
	"codegate/pkg/metrics"
	"codegate/pkg/storage"
)

// Server wires the endpoint together: router, authenticator, gateway,
// audit store, and metrics.
type Server struct {
	cfg        *config.ServerConfig
	router     *gin.Engine
	gateway    *gateway.Gateway
	store      storage.Store
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates a server instance from configuration
func NewServer(cfg *config.ServerConfig) (*Server, error) {
	log := logger.Get().With("component", "server")

	store, err := storage.NewStore(cfg.Database)
	if err != nil {
		log.ErrorWithErr("failed to open audit store", err)
		log.WarnWith("continuing with log-only auditing")
		store = nil
	}

	authenticator := auth.NewAuthenticator(cfg.Auth.Password)
	limiter := auth.NewRateLimiter(cfg.Auth.MaxAttempts, time.Duration(cfg.Auth.WindowSecs)*time.Second)

	m := metrics.New("codegate")

	registry := gateway.NewRegistry()
	gw := gateway.New(authenticator, registry, m)

	monitor := health.NewMonitor(registry)

	handler := api.NewHandler(authenticator, limiter, store, files.New(cfg.Files.Root), monitor, m)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.MetricsMiddleware(m))

	handler.RegisterRoutes(router, gw.Handle, m.Handler())

	// Unmatched routes fall through to the static fallback.
	if cfg.Static.Root != "" {
		router.NoRoute(staticFallback(cfg.Static.Root))
	}

	return &Server{
		cfg:     cfg,
		router:  router,
		gateway: gw,
		store:   store,
		log:     log,
	}, nil
}

// staticFallback serves files from root for any unmatched route
func staticFallback(root string) gin.HandlerFunc {
	fs := http.FileServer(http.Dir(root))
	return func(c *gin.Context) {
		fs.ServeHTTP(c.Writer, c.Request)
	}
}

// Router returns the configured engine, for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the HTTP server until it stops
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.router,
	}

	if s.cfg.TLS.Enabled {
		srv.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
		s.httpServer = srv
		s.log.InfoWith("listening with TLS", "address", s.cfg.Address)
		return srv.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
	}

	s.httpServer = srv
	s.log.InfoWith("listening", "address", s.cfg.Address)
	return srv.ListenAndServe()
}

// Shutdown gracefully stops the server: HTTP listener first, then the open
// WebSocket connections, then the audit store.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.log.ErrorWithErr("error shutting down HTTP server", err)
			s.httpServer.Close()
		}
	}

	s.gateway.Registry().CloseAll()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.ErrorWithErr("error closing audit store", err)
		}
	}

	s.log.InfoWith("shutdown complete")
	return nil
}
