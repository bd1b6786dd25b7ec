package main

import (
	"context"

	"github.com/desertthunder/spincycle/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Update runs one playlist refresh end to end, streaming progress to the
// terminal. With --json the snapshot document is printed instead of the
// summary.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	playlistType := cmd.String("type")

	engine, db, err := r.openEngine(config)
	if err != nil {
		return err
	}
	defer db.Close()

	progress := make(chan tasks.ProgressUpdate, 16)
	done := r.renderProgress(progress)

	result, err := engine.Update(ctx, playlistType, progress)
	close(progress)
	<-done

	if err != nil {
		r.writePlain("%s update failed: %v\n", r.styles.Err("✗"), err)
		return err
	}

	if cmd.Bool("json") && result.Snapshot != nil {
		return r.writeJSON(result.Snapshot, true)
	}

	r.writePlainHeader("Update: " + playlistType)
	r.writePlain("Candidates discovered: %d\n", result.Candidates)
	r.writePlain("Tracks selected:       %d\n", result.Selected)
	if result.Removed > 0 {
		r.writePlain("Tracks trimmed:        %d\n", result.Removed)
	}
	if result.Export != nil {
		r.writePlain("Snapshot files:        %s, %s\n", result.Export.JSONFile, result.Export.CSVFile)
	}
	if result.Selected == 0 {
		r.writePlain("%s no tracks selected, playlist left untouched\n", r.styles.Warn("!"))
	} else {
		r.writePlain("%s playlist %s updated\n", r.styles.OK("✓"), result.PlaylistID)
	}
	return nil
}

// Rollover archives the current playlist generation and seeds its successor.
func (r *Runner) Rollover(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	playlistType := cmd.String("type")

	engine, db, err := r.openEngine(config)
	if err != nil {
		return err
	}
	defer db.Close()

	progress := make(chan tasks.ProgressUpdate, 16)
	done := r.renderProgress(progress)

	result, err := engine.Rollover(ctx, playlistType, progress)
	close(progress)
	<-done

	if err != nil {
		r.writePlain("%s rollover failed: %v\n", r.styles.Err("✗"), err)
		return err
	}

	r.writePlainHeader("Rollover: " + playlistType)
	if result.FinalName != "" {
		r.writePlain("Archived as: %s\n", result.FinalName)
	}
	r.writePlain("New playlist: %s (%s)\n", result.NewPlaylist.Name, result.NewPlaylist.ID)
	r.writePlain("Seeded tracks: %d\n", result.Seeded)
	r.writePlain("%s rollover complete\n", r.styles.OK("✓"))
	return nil
}
