package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/pldiff/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the web app until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.requireEngine(); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	app := server.NewApp(server.AppOpts{
		Auth:   r.auth,
		Engine: r.engine,
		Logger: r.logger,
	})
	for _, pattern := range app.Patterns() {
		r.logger.Debug("route", "pattern", pattern)
	}
	httpServer := server.NewHTTPServer(addr, app)

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", addr, "redirect_uri", r.config.Credentials.Spotify.RedirectURI)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	r.writePlain("→ Serving on http://%s (log in at /login)\n", addr)

	select {
	case err, ok := <-serverErrors:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}
