// cmd/api/server.go
// This file contains the serve() method which starts the HTTP server and
// shuts the service down when an OS signal is received.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// drainTimeout is how long in-flight requests get to finish on shutdown.
const drainTimeout = 20 * time.Second

// serve builds the HTTP server and blocks until it fails or the process
// receives SIGINT or SIGTERM. On a signal it calls shutdown.
func (app *applicationDependencies) serve() error {
	apiServer := &http.Server{
		Addr:         app.config.Addr,
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "address", apiServer.Addr, "environment", app.config.Environment)
		serveErr <- apiServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		// The listener never came up or died on its own.
		return err
	case <-ctx.Done():
		stop()
		app.logger.Info("shutting down server", "address", apiServer.Addr, "drain_timeout", drainTimeout.String())
	}

	if err := app.shutdown(apiServer, drainTimeout); err != nil {
		return err
	}

	app.logger.Info("server stopped", "address", apiServer.Addr)
	return nil
}

// shutdown drains in-flight requests, stops the rate limiter sweeper and
// closes the connection pool. The pool is closed even if draining times out,
// so no statement is left holding a connection after serve returns.
func (app *applicationDependencies) shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	drainErr := srv.Shutdown(ctx)
	if drainErr != nil {
		app.logger.Warn("requests still in flight after drain timeout", "timeout", timeout.String(), "error", drainErr)
	}

	close(app.done)

	pool := app.models.Books.DB
	stats := pool.Stats()
	app.logger.Info("closing database pool",
		"open_conns", stats.OpenConnections,
		"in_use", stats.InUse,
		"wait_count", stats.WaitCount,
	)
	if err := pool.Close(); err != nil {
		return errors.Join(drainErr, fmt.Errorf("close database pool: %w", err))
	}
	return drainErr
}
