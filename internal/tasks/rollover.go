package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/shared"
)

const (
	// suffix appended to a retired playlist when the config leaves it unset
	defaultFinalSuffix = " (Final)"

	defaultTopDaily  = 25
	defaultTopWeekly = 50
)

// Rollover retires the current playlist generation and starts the next one.
// The outgoing playlist keeps its history; the mapping moves to the new
// playlist so subsequent updates target it.
func (e *Engine) Rollover(ctx context.Context, playlistType string, progress chan<- ProgressUpdate) (*RolloverResult, error) {
	cfg, ok := e.config.Playlist(playlistType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownPlaylist, playlistType)
	}

	result := &RolloverResult{PlaylistType: playlistType}

	currentID, err := e.mappings.Get(playlistType)
	if err != nil {
		return nil, err
	}

	if currentID != "" && cfg.Rollover.RenameFinal {
		current, err := e.service.GetPlaylist(ctx, currentID)
		if err != nil {
			return nil, err
		}

		suffix := cfg.Rollover.FinalSuffix
		if suffix == "" {
			suffix = defaultFinalSuffix
		}
		finalName := current.Name + suffix

		e.sendProgress(progress, renamingUpdate(1, rolloverSteps, finalName))
		if err := e.service.RenamePlaylist(ctx, currentID, finalName); err != nil {
			return nil, err
		}
		result.FinalName = finalName
		e.logger.Info("renamed final playlist", "type", playlistType, "name", finalName)
	}

	name := e.playlistName(playlistType)
	e.sendProgress(progress, creatingPlaylistUpdate(2, rolloverSteps, name))

	created, err := e.service.CreatePlaylist(ctx, name, e.playlistDescription(playlistType), true)
	if err != nil {
		return nil, err
	}
	if err := e.mappings.Set(playlistType, created.ID); err != nil {
		return nil, err
	}
	result.NewPlaylist = created
	e.sendProgress(progress, createdPlaylistUpdate(2, rolloverSteps, created))

	seeded, err := e.seedPlaylist(ctx, playlistType, created.ID, progress)
	if err != nil {
		return nil, err
	}
	result.Seeded = seeded

	e.logger.Info("rollover complete", "type", playlistType, "playlist_id", created.ID, "seeded", seeded)
	return result, nil
}

// EnsurePlaylists checks every active playlist type and creates a playlist
// for any that is neither mapped nor findable by its expected name. Found
// and created playlists both end up in the mapping table.
func (e *Engine) EnsurePlaylists(ctx context.Context) (*EnsureResult, error) {
	result := &EnsureResult{}

	for _, playlistType := range e.config.PlaylistTypes() {
		cfg, ok := e.config.Playlist(playlistType)
		if !ok || !cfg.Active {
			continue
		}

		mapped, err := e.mappings.Get(playlistType)
		if err != nil {
			return nil, err
		}
		if mapped != "" {
			result.Existing = append(result.Existing, playlistType)
			continue
		}

		name := e.playlistName(playlistType)
		found, err := e.service.FindPlaylistByName(ctx, name)
		if err == nil {
			if err := e.mappings.Set(playlistType, found.ID); err != nil {
				return nil, err
			}
			e.logger.Info("adopted existing playlist", "type", playlistType, "playlist_id", found.ID)
			result.Existing = append(result.Existing, playlistType)
			continue
		}
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			return nil, err
		}

		created, err := e.service.CreatePlaylist(ctx, name, e.playlistDescription(playlistType), true)
		if err != nil {
			return nil, err
		}
		if err := e.mappings.Set(playlistType, created.ID); err != nil {
			return nil, err
		}
		e.logger.Info("created playlist", "type", playlistType, "playlist_id", created.ID, "name", name)
		result.Created = append(result.Created, playlistType)
	}

	return result, nil
}

// seedPlaylist pre-fills a fresh monthly or yearly playlist with the top of
// the daily and weekly playlists so the new generation never starts empty.
// Unmapped siblings are skipped; nothing is written when no seeds exist.
func (e *Engine) seedPlaylist(ctx context.Context, playlistType, playlistID string, progress chan<- ProgressUpdate) (int, error) {
	seeding, ok := e.config.Seeding[playlistType]
	if !ok {
		return 0, nil
	}

	topDaily := seeding.TopDaily
	if topDaily <= 0 {
		topDaily = defaultTopDaily
	}
	topWeekly := seeding.TopWeekly
	if topWeekly <= 0 {
		topWeekly = defaultTopWeekly
	}

	var seeds []models.Track
	take := func(sibling string, limit int) error {
		siblingID, err := e.mappings.Get(sibling)
		if err != nil {
			return err
		}
		if siblingID == "" {
			return nil
		}

		tracks, err := e.service.PlaylistTracks(ctx, siblingID)
		if err != nil {
			return err
		}
		if len(tracks) > limit {
			tracks = tracks[:limit]
		}
		seeds = append(seeds, tracks...)
		return nil
	}

	if err := take("daily", topDaily); err != nil {
		return 0, err
	}
	if err := take("weekly", topWeekly); err != nil {
		return 0, err
	}

	if len(seeds) == 0 {
		return 0, nil
	}

	e.sendProgress(progress, seedingUpdate(3, rolloverSteps, len(seeds)))
	if err := e.service.ReplaceTracks(ctx, playlistID, models.TrackURIs(seeds)); err != nil {
		return 0, err
	}
	return len(seeds), nil
}

// playlistName builds the display name for a new playlist generation.
// Yearly playlists carry the year so retired generations stay tellable apart.
func (e *Engine) playlistName(playlistType string) string {
	prefix := e.config.Persona.Prefix
	if playlistType == "yearly" {
		return fmt.Sprintf("%sYearly Hits — %d", prefix, e.now().Year())
	}
	return fmt.Sprintf("%s%s Hits", prefix, titleCase(playlistType))
}

func (e *Engine) playlistDescription(playlistType string) string {
	return fmt.Sprintf("Automated %s top hits playlist curated by %s", playlistType, e.config.Persona.Name)
}

// titleCase upper-cases the first letter only ("daily" → "Daily").
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
