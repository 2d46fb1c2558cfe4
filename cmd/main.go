/*
Package main is the entry point for the BuZZ events portal.

It loads configuration, initializes the global logging system, wires the session store,
the remote events service client, optional cover storage and the page renderer into the
HTTP router, and shuts everything down gracefully on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buzzportal/internal/app/api"
	"buzzportal/internal/app/portal"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/storage"
	"buzzportal/internal/app/view"
	"buzzportal/internal/configs"
	"buzzportal/internal/handler"
	"buzzportal/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("api_base_url", cfg.APIBaseURL).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("covers_enabled", cfg.CoversEnabled()).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(cfg.SessionIdleTimeout)

	var opts []portal.Option
	if cfg.CoversEnabled() {
		covers, err := storage.NewCoverStore(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
			S3PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize cover storage")
		}
		opts = append(opts, portal.WithCoverStore(covers))
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		logx.Fatal(err, "Failed to parse page templates")
	}

	deps := &handler.AppDeps{
		Config:   cfg,
		Portal:   portal.New(api.New(cfg.APIBaseURL, cfg.APITimeout), sessions, opts...),
		Sessions: sessions,
		Renderer: renderer,
	}

	// Setup HTTP server and routes
	router, stopLimiter := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.APITimeout*2 + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("BuZZ portal starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	stopLimiter()
	sessions.Shutdown()

	logx.Info("Server gracefully stopped.")
}
