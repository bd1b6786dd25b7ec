package main

import (
	"context"
	"os"

	"github.com/desertthunder/spincycle/internal/services"
	"github.com/desertthunder/spincycle/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	// credentials may live in a .env file next to the binary
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.ApplyEnv()

	var spotifyService services.Service
	if err := config.Credentials.Spotify.Validate(); err == nil {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify, config.Client); err == nil {
			spotifyService = svc
		} else {
			logger.Warn("failed to build Spotify client", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "spincycle",
		Usage:    "Automated Spotify playlist curation",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
