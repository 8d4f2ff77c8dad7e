package main

import (
	"context"
	"os"

	"github.com/desertthunder/requeue/internal/services"
	"github.com/desertthunder/requeue/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	var spotifyService *services.SpotifyService
	creds := config.Credentials.Spotify
	if creds.ClientID != "" && creds.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(creds.ClientID, creds.ClientSecret, creds.RedirectURI); err == nil {
			spotifyService = svc
		} else {
			logger.Warn("failed to initialize Spotify service", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Spotify:    spotifyService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "requeue",
		Usage:    "Turn your recent Spotify listens into a new playlist",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
