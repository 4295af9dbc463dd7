package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/server"
	"github.com/desertthunder/pldiff/internal/shared"
	"github.com/desertthunder/pldiff/internal/ui"
	"github.com/urfave/cli/v3"
)

const authTimeout = 2 * time.Minute

// AuthLogin runs the authorization code flow against a local callback server and prints the access token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	token, err := r.doOAuth(ctx, !cmd.Bool("no-browser"))
	if err != nil {
		return err
	}

	r.writePlainln("%s", ui.Styles.OK("✓ Authorization successful"))
	r.writePlain("%s\n\n", token.Value)
	r.writePlain("Export it for later commands:\n  export %s=%s\n", EnvAccessToken, token.Value)
	return nil
}

// AuthURL prints the authorization URL without starting a server.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	return r.writePlain("%s\n", r.auth.LoginURL(""))
}

func (r *Runner) requireAuth() error {
	if r.auth == nil {
		return fmt.Errorf("%w: authenticator not initialized", shared.ErrServiceUnavailable)
	}
	if missing := r.config.Credentials.Spotify.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: set %s in config.toml or the environment",
			shared.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, openBrowser bool) (models.AccessToken, error) {
	state := shared.GenerateState()
	authURL := r.auth.LoginURL(state)

	oauthHandler := server.NewOAuthHandler(r.auth, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := r.config.Server.Addr()
	httpServer := server.NewHTTPServer(serverAddr, router)

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)

	if openBrowser {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("%s", ui.Styles.Warn("⚠ Could not open browser automatically."))
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	} else {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return models.AccessToken{}, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return models.AccessToken{}, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return models.AccessToken{}, ctx.Err()
	}

	if result.Error() != nil {
		return models.AccessToken{}, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token.Empty() {
		return models.AccessToken{}, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}
