package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/pldiff/internal/formatter"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/services"
	"github.com/desertthunder/pldiff/internal/tasks"
	"github.com/desertthunder/pldiff/internal/ui"
	"github.com/urfave/cli/v3"
)

// Compare reconciles two playlists and renders the three result sets.
func (r *Runner) Compare(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	first, err := playlistRef(cmd.String("first"), cmd.String("first-mode"))
	if err != nil {
		return err
	}
	second, err := playlistRef(cmd.String("second"), cmd.String("second-mode"))
	if err != nil {
		return err
	}

	token, err := r.token(cmd)
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	showProgress := outputPath != "" || format == formatter.Table || format == formatter.Text

	r.logger.Debug("compare requested", "first", first.RawInput, "second", second.RawInput)

	progressCh := make(chan tasks.ProgressUpdate, 10)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progressCh {
			if showProgress {
				r.writePlain("%s %s\n", ui.Styles.Help("→"), update.Message)
			}
		}
	}()

	report, err := r.engine.Compare(ctx, token, first, second, progressCh)
	close(progressCh)
	<-printed

	if err != nil {
		return err
	}

	if outputPath != "" {
		written, err := formatter.WriteExport(report, format, outputPath)
		if err != nil {
			return err
		}
		r.logger.Info("comparison saved", "file", written)
		return r.writePlain("%s\n", ui.Styles.OK("✓ Saved to "+written))
	}

	if format == formatter.Table {
		r.writePlain("\n")
		formatter.ResultTable(r.output, report)
		return nil
	}

	data, err := formatter.Render(report, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func playlistRef(input, mode string) (models.PlaylistRef, error) {
	refMode, err := services.ParseMode(mode)
	if err != nil {
		return models.PlaylistRef{}, err
	}
	return models.PlaylistRef{Mode: refMode, RawInput: input}, nil
}
