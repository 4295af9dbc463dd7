package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/services"
	"github.com/desertthunder/pldiff/internal/shared"
	"github.com/desertthunder/pldiff/internal/tasks"
	"github.com/urfave/cli/v3"
)

// EnvAccessToken supplies the --token flag when it is not passed explicitly.
const EnvAccessToken = "SPOTIFY_ACCESS_TOKEN"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	auth       services.Authenticator
	library    services.Library
	api        *services.APIService
	engine     *tasks.CompareEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	configPath string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Auth       services.Authenticator
	Library    services.Library
	API        *services.APIService
	Engine     *tasks.CompareEngine
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	ConfigPath string
}

// NewRunner creates a new Runner with the provided configuration.
//
// When no engine is given one is built over the library.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Engine == nil && opts.Library != nil {
		opts.Engine = tasks.NewCompareEngine(opts.Library, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		auth:       opts.Auth,
		library:    opts.Library,
		api:        opts.API,
		engine:     opts.Engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		configPath: opts.ConfigPath,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "pldiff",
		Usage:   "Compare the tracks of two Spotify playlists",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(r.logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, playlistsCommand, compareCommand, coverCommand, serveCommand, tuiCommand, apiCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// token reads the access token from the --token flag or its environment variable.
func (r *Runner) token(cmd *cli.Command) (models.AccessToken, error) {
	token := models.AccessToken{Value: cmd.String("token")}
	if token.Empty() {
		return token, fmt.Errorf("%w: pass --token or set %s (see `pldiff auth login`)", shared.ErrNotAuthenticated, EnvAccessToken)
	}
	return token, nil
}

func (r *Runner) requireEngine() error {
	if r.engine == nil {
		return fmt.Errorf("%w: comparison engine not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
