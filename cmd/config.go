package main

import (
	"context"
	"strings"

	"github.com/desertthunder/pldiff/internal/shared"
	"github.com/desertthunder/pldiff/internal/ui"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config created", "path", configPath)
	r.writePlain("%s\n\n", ui.Styles.OK("✓ Created "+configPath))
	r.writePlain("Next steps:\n")
	r.writePlain("  1. Add your Spotify client_id and client_secret (or set %s and %s)\n", shared.EnvClientID, shared.EnvClientSecret)
	r.writePlain("  2. Register %s as a redirect URI in the Spotify dashboard\n", r.config.Credentials.Spotify.RedirectURI)
	r.writePlain("  3. Run: pldiff auth login\n")
	return nil
}

// ConfigShow prints the effective configuration with the client secret masked.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify

	r.writePlain("%s\n", ui.Styles.Title("Configuration"))
	r.writePlain("client_id:     %s\n", orUnset(creds.ClientID))
	r.writePlain("client_secret: %s\n", mask(creds.ClientSecret))
	r.writePlain("redirect_uri:  %s\n", orUnset(creds.RedirectURI))
	r.writePlain("scopes:        %s\n", strings.Join(creds.Scopes, " "))
	r.writePlain("accounts_url:  %s\n", r.config.Spotify.AccountsURL)
	r.writePlain("api_url:       %s\n", r.config.Spotify.APIURL)
	r.writePlain("server:        %s\n", r.config.Server.Addr())

	if missing := creds.Missing(); len(missing) > 0 {
		r.writePlainln("%s", ui.Styles.Warn("⚠ missing: "+strings.Join(missing, ", ")))
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
