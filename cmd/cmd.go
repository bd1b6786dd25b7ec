// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func typeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "type",
		Aliases:  []string{"t"},
		Usage:    "Playlist type (daily, weekly, monthly, yearly)",
		Required: true,
	}
}

// setupCommand initializes configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file, initialize the database and run migrations",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Move an existing database aside before initializing",
			},
		},
		Action: r.Setup,
	}
}

// runCommand starts the scheduler daemon.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the curation scheduler until interrupted",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Run,
	}
}

// updateCommand refreshes one playlist immediately.
func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Update one playlist now",
		Flags: []cli.Flag{
			configFlag(),
			typeFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the snapshot document as JSON",
			},
		},
		Action: r.Update,
	}
}

// rolloverCommand archives the current playlist generation and starts the next.
func rolloverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rollover",
		Usage: "Archive a playlist and create its successor",
		Flags: []cli.Flag{
			configFlag(),
			typeFlag(),
		},
		Action: r.Rollover,
	}
}

// playlistsCommand lists managed playlists and their mappings.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List managed playlists, mapped IDs, and schedules",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "ensure",
				Usage: "Create or adopt playlists for unmapped types",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Playlists,
	}
}

// historyCommand shows run records and snapshot analytics.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show update history and stats for a playlist",
		Flags: []cli.Flag{
			configFlag(),
			typeFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}
