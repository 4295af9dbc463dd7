package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/desertthunder/pldiff/internal/services"
	"github.com/desertthunder/pldiff/internal/shared"
	"github.com/desertthunder/pldiff/internal/tasks"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(defaultConfigPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(defaultConfigPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	config.ApplyEnv(os.Getenv)

	httpClient := &http.Client{Timeout: config.Spotify.Timeout()}

	spotify := services.NewSpotifyService(services.SpotifyOpts{
		BaseURL:           config.Spotify.APIURL,
		HTTPClient:        httpClient,
		RequestsPerSecond: config.Spotify.RequestsPerSecond,
		Logger:            logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Auth:       services.NewExchanger(config.Credentials.Spotify, config.Spotify.AccountsURL, httpClient),
		Library:    spotify,
		API:        services.NewAPIService(config.Spotify.APIURL, httpClient),
		Engine:     tasks.NewCompareEngine(spotify, logger),
		HTTPClient: httpClient,
		Logger:     logger,
		ConfigPath: defaultConfigPath,
	})

	app := runner.app()

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
