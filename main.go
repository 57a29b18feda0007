package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"funlabs/internal/app"
	"funlabs/internal/routes"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	os.Exit(run())
}

func run() int {
	application, err := app.NewApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}

	return serve(application, runServer)
}

// serve runs start and closes the application before reporting the exit code.
func serve(application *app.Application, start func(*app.Application) error) int {
	defer func() {
		if err := application.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	if err := start(application); err != nil {
		application.Logger.Error("main", "Server error", err)
		return 1
	}
	return 0
}

func runServer(application *app.Application) error {
	cfg := application.Config
	addr := cfg.GetServerAddress()

	router := routes.SetupRoutes(application)

	server := &http.Server{
		Addr:           addr,
		Handler:        otelhttp.NewHandler(router, "funlabs-api"),
		IdleTimeout:    cfg.Server.IdleTimeout,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	serverErrors := make(chan error, 1)

	go func() {
		application.Logger.Info("server", fmt.Sprintf("Starting server on %s (%s)", addr, cfg.Environment))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		application.Logger.Info("server", fmt.Sprintf("Received signal: %v", sig))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		application.Logger.Info("server", "Starting graceful shutdown")
		if err := server.Shutdown(ctx); err != nil {
			application.Logger.Error("server", "Graceful shutdown failed, forcing shutdown", err)
			if err := server.Close(); err != nil {
				return fmt.Errorf("forced shutdown failed: %w", err)
			}
		}

		application.Logger.Info("server", "Server stopped successfully")
	}

	return nil
}
