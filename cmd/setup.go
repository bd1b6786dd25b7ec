package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/spincycle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when absent, initializes the database and
// runs migrations. With --force an existing database is moved aside first.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}
	config.ApplyEnv()

	if cmd.Bool("force") {
		if _, err := os.Stat(config.Database.Path); err == nil {
			backup := fmt.Sprintf("%s.%s.bak", config.Database.Path, time.Now().Format("20060102150405"))
			if err := os.Rename(config.Database.Path, backup); err != nil {
				return fmt.Errorf("failed to move existing database: %w", err)
			}
			r.logger.Info("existing database moved", "path", backup)
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	if err := config.Credentials.Spotify.Validate(); err != nil {
		r.writePlain("%s Spotify credentials are incomplete: %v\n", r.styles.Warn("!"), err)
		r.writePlain("Fill in [credentials.spotify] in %s or export SPOTIFY_CLIENT_ID,\n", configPath)
		r.writePlain("SPOTIFY_CLIENT_SECRET, SPOTIFY_REFRESH_TOKEN and SPOTIFY_USER_ID.\n")
		return nil
	}

	r.writePlain("%s setup complete\n", r.styles.OK("✓"))
	return nil
}
