package main

import (
	"context"

	"github.com/desertthunder/spincycle/internal/repositories"
	"github.com/urfave/cli/v3"
)

// playlistRow is the JSON shape for one configured playlist.
type playlistRow struct {
	Type             string `json:"type"`
	Logic            string `json:"logic"`
	Size             int    `json:"size"`
	Active           bool   `json:"active"`
	Schedule         string `json:"schedule"`
	RolloverSchedule string `json:"rollover_schedule,omitempty"`
	PlaylistID       string `json:"playlist_id,omitempty"`
}

// Playlists lists every configured playlist with its mapping and schedule.
// With --ensure, unmapped active types get a playlist created or adopted
// first.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	engine, db, err := r.openEngine(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("ensure") {
		result, err := engine.EnsurePlaylists(ctx)
		if err != nil {
			return err
		}
		for _, playlistType := range result.Created {
			r.writePlain("%s created playlist for %s\n", r.styles.OK("✓"), playlistType)
		}
	}

	mappings, err := repositories.NewMappingRepository(db).All()
	if err != nil {
		return err
	}

	rows := make([]playlistRow, 0, len(config.Playlists))
	for _, playlistType := range config.PlaylistTypes() {
		cfg, _ := config.Playlist(playlistType)
		rows = append(rows, playlistRow{
			Type:             playlistType,
			Logic:            cfg.Logic,
			Size:             cfg.Size,
			Active:           cfg.Active,
			Schedule:         cfg.Schedule,
			RolloverSchedule: cfg.Rollover.Schedule,
			PlaylistID:       mappings[playlistType],
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	r.writePlainHeader("Managed Playlists")
	for _, row := range rows {
		state := r.styles.OK("active")
		if !row.Active {
			state = r.styles.Warn("inactive")
		}

		mapped := row.PlaylistID
		if mapped == "" {
			mapped = r.styles.Warn("unmapped")
		}

		r.writePlain("%s (%s, %s)\n", r.styles.Title(row.Type), row.Logic, state)
		r.writePlain("  playlist: %s\n", mapped)
		r.writePlain("  size: %d  schedule: %s\n", row.Size, row.Schedule)
		if row.RolloverSchedule != "" {
			r.writePlain("  rollover: %s\n", row.RolloverSchedule)
		}
	}
	return nil
}
