package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spincycle/internal/formatter"
	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/repositories"
	"github.com/desertthunder/spincycle/internal/shared"
	"github.com/urfave/cli/v3"
)

const runStampLayout = "2006-01-02 15:04"

// historyDocument is the JSON shape for the history command.
type historyDocument struct {
	PlaylistType string              `json:"playlist_type"`
	Stats        models.RunStats     `json:"stats"`
	Runs         []*models.RunRecord `json:"runs"`
	Snapshot     *snapshotSummary    `json:"latest_snapshot,omitempty"`
}

type snapshotSummary struct {
	TakenAt         string                  `json:"taken_at"`
	TrackCount      int                     `json:"track_count"`
	ArtistDiversity float64                 `json:"artist_diversity"`
	TopArtists      []formatter.ArtistCount `json:"top_artists"`
}

// History prints the run log, aggregate stats, and a diversity summary of
// the latest snapshot for one playlist type. Reads only the local database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	playlistType := cmd.String("type")
	limit := int(cmd.Int("limit"))

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runs := repositories.NewRunRepository(db)
	snapshots := repositories.NewSnapshotRepository(db)

	stats, err := runs.Stats(playlistType)
	if err != nil {
		return err
	}

	records, err := runs.ListByType(playlistType, limit)
	if err != nil {
		return err
	}

	latest, err := snapshots.Latest(playlistType)
	if err != nil {
		return err
	}

	doc := historyDocument{PlaylistType: playlistType, Stats: stats, Runs: records}
	if latest != nil {
		doc.Snapshot = &snapshotSummary{
			TakenAt:         latest.TakenAt.Format(runStampLayout),
			TrackCount:      latest.TrackCount,
			ArtistDiversity: formatter.ArtistDiversity(latest.Tracks),
			TopArtists:      formatter.MostCommonArtists(latest.Tracks, 5),
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(doc, true)
	}

	r.writePlainHeader("History: " + playlistType)
	r.writePlain("Runs: %d total, %s, %s\n",
		stats.Total,
		r.styles.OK(fmt.Sprintf("%d ok", stats.Successful)),
		r.styles.Err(fmt.Sprintf("%d failed", stats.Failed)))

	for _, record := range records {
		marker := r.styles.OK("✓")
		detail := fmt.Sprintf("%d tracks", record.TrackCount)
		if !record.Success {
			marker = r.styles.Err("✗")
			detail = record.ErrorMessage
		}
		r.writePlain("%s %s  %s\n", marker, record.RanAt.Format(runStampLayout), detail)
	}

	if doc.Snapshot != nil {
		r.writePlainln("Latest snapshot (%s): %d tracks", doc.Snapshot.TakenAt, doc.Snapshot.TrackCount)
		r.writePlain("Artist diversity: %.2f\n", doc.Snapshot.ArtistDiversity)
		for _, artist := range doc.Snapshot.TopArtists {
			r.writePlain("  %s %s\n", r.styles.Help(fmt.Sprintf("%dx", artist.Count)), artist.Name)
		}
	} else {
		r.writePlainln("%s", r.styles.Help("No snapshot recorded yet"))
	}
	return nil
}
