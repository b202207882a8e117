package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"funclist/internal/auth"
	"funclist/internal/config"
	"funclist/internal/handler"
	"funclist/internal/service"
	"funclist/internal/storage/sqlite"
	"funclist/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("storage initialized", "database", cfg.DatabasePath)

	verifier := auth.NewVerifier(cfg.OIDCAuthority, cfg.OIDCClientID, &http.Client{
		Timeout: 10 * time.Second,
	})
	resolver := auth.NewResolver(store)
	lists := service.NewListService(store, logger)

	router := handler.NewRouter(handler.RouterConfig{
		OIDCAuthority:      cfg.OIDCAuthority,
		OIDCClientID:       cfg.OIDCClientID,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticPath:         cfg.StaticPath,
	}, lists, verifier, resolver, logger)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		// h2c allows HTTP/2 without TLS for clients that want it.
		Handler:      h2c.NewHandler(router, &http2.Server{}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", srv.Addr, "authority", cfg.OIDCAuthority)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}
