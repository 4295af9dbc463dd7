package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/pldiff/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authenticated GET request to the Web API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	token, err := r.token(cmd)
	if err != nil {
		return err
	}

	r.logger.Debug("GET request", "path", path)

	resp, err := r.api.Get(ctx, path, token)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &shared.UpstreamAuthError{Endpoint: path, Status: resp.StatusCode, Body: string(resp.Body)}
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	if _, err := r.output.Write(resp.Body); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return r.writePlain("\n")
}
