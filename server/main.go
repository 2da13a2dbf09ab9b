package server

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"codegate/pkg/config"
	"codegate/pkg/logger"
)

// Main parses flags, loads configuration, and runs the server until a
// shutdown signal arrives.
func Main() {
	addr := flag.String("addr", "", "Server address (overrides config)")
	configPath := flag.String("config", "", "Config file path (optional)")
	password := flag.String("password", "", "Shared-secret password (overrides config)")
	certFile := flag.String("cert", "", "TLS certificate file")
	keyFile := flag.String("key", "", "TLS key file")
	useTLS := flag.Bool("tls", false, "Enable TLS")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	logger.Init(logger.LogLevel(*logLevel), *logFormat)
	log := logger.Get()

	// Flag overrides must be visible to config validation.
	if *password != "" {
		os.Setenv("CODEGATE_PASSWORD", *password)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.ErrorWithErr("failed to load configuration", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Address = *addr
	}
	if *certFile != "" {
		cfg.TLS.CertFile = *certFile
	}
	if *keyFile != "" {
		cfg.TLS.KeyFile = *keyFile
	}
	if *useTLS {
		cfg.TLS.Enabled = true
	}

	log.InfoWith("configuration loaded", "address", cfg.Address, "tls", cfg.TLS.Enabled)

	gin.SetMode(gin.ReleaseMode)

	srv, err := NewServer(cfg)
	if err != nil {
		log.ErrorWithErr("failed to create server", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	errorChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errorChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.InfoWith("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.ErrorWithErr("error during shutdown", err)
		}

	case err := <-errorChan:
		log.ErrorWithErr("server stopped", err)
		os.Exit(1)
	}
}
