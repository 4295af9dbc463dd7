package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/pldiff/internal/formatter"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/shared"
	"github.com/desertthunder/pldiff/internal/ui"
	"github.com/urfave/cli/v3"
)

// Playlists lists the playlists in the token holder's library.
//
// Unlike the web API, failures are reported rather than degraded to an empty list.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	token, err := r.token(cmd)
	if err != nil {
		return err
	}

	r.logger.Debug("listing library playlists")

	playlists, err := r.library.UserPlaylists(ctx, token)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists found\n")
	}

	formatter.PlaylistTable(r.output, playlists)
	return nil
}

// Cover prints the cover image URL of a playlist, optionally saving the image.
func (r *Runner) Cover(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	token, err := r.token(cmd)
	if err != nil {
		return err
	}

	url, ok := r.engine.Cover(ctx, token, models.PlaylistRef{Mode: models.Private, RawInput: id})
	if !ok {
		return r.writePlain("%s\n", ui.Styles.Warn("No cover image"))
	}

	savePath := cmd.String("save")
	if savePath == "" {
		return r.writePlain("%s\n", url)
	}

	data, err := formatter.DownloadImage(url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(savePath, data, 0644); err != nil {
		return fmt.Errorf("failed to save cover image: %w", err)
	}

	r.logger.Info("cover saved", "file", savePath)
	return r.writePlain("✓ Cover saved to %s\n", savePath)
}
