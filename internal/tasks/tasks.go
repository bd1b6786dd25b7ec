// package tasks implements playlist curation runs against the streaming service.
//
// The core abstraction is CurationEngine, which orchestrates playlist updates, rollovers, and bootstrap.
// Operations emit progress updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spincycle/internal/formatter"
	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/repositories"
	"github.com/desertthunder/spincycle/internal/selector"
	"github.com/desertthunder/spincycle/internal/services"
	"github.com/desertthunder/spincycle/internal/shared"
)

const (
	// size applied to playlists whose config leaves size unset
	defaultPlaylistSize = 200

	updateSteps   = 6
	rolloverSteps = 3
)

// UpdateResult contains all data from a full playlist update run.
type UpdateResult struct {
	PlaylistType string                          // Playlist type that was refreshed
	PlaylistID   string                          // Live playlist that received the selection
	Candidates   int                             // Tracks discovered before filtering
	Selected     int                             // Tracks placed on the playlist
	Removed      int                             // Tracks trimmed after accumulation
	Snapshot     *models.Snapshot                // Persisted snapshot (nil when the selection was empty)
	Export       *formatter.SnapshotExportResult // Snapshot files written next to the database
}

// RolloverResult contains the outcome of a generation change.
type RolloverResult struct {
	PlaylistType string             // Playlist type that rolled over
	FinalName    string             // Name given to the retired playlist ("" when rename is disabled)
	NewPlaylist  *services.Playlist // Freshly created playlist now receiving updates
	Seeded       int                // Tracks copied in from the daily and weekly playlists
}

// EnsureResult lists the playlist types touched by a bootstrap pass.
type EnsureResult struct {
	Created  []string // Types whose playlist was created this pass
	Existing []string // Types already mapped or adopted by name
}

// CurationEngine defines the playlist maintenance operations.
type CurationEngine interface {
	// Update refreshes one playlist end to end: discover, score, filter,
	// allocate, publish, snapshot.
	Update(ctx context.Context, playlistType string, progress chan<- ProgressUpdate) (*UpdateResult, error)

	// Rollover retires the current playlist generation and starts the next one.
	Rollover(ctx context.Context, playlistType string, progress chan<- ProgressUpdate) (*RolloverResult, error)

	// EnsurePlaylists creates or adopts a playlist for every active type.
	EnsurePlaylists(ctx context.Context) (*EnsureResult, error)
}

// Engine implements CurationEngine.
// Contains dependencies on the streaming service, the selector, and storage.
type Engine struct {
	service   services.Service
	selector  *selector.Selector
	snapshots *repositories.SnapshotRepository
	runs      *repositories.RunRepository
	mappings  *repositories.MappingRepository
	config    *shared.Config
	logger    *log.Logger
	now       func() time.Time
}

// NewEngine creates an Engine wired to the provided service, selector, and database.
func NewEngine(service services.Service, sel *selector.Selector, db *sql.DB, cfg *shared.Config, logger *log.Logger) *Engine {
	return &Engine{
		service:   service,
		selector:  sel,
		snapshots: repositories.NewSnapshotRepository(db),
		runs:      repositories.NewRunRepository(db),
		mappings:  repositories.NewMappingRepository(db),
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full, skip this update
	}
}

// Update refreshes one playlist end to end. Every attempt leaves a run
// record: the published track count on success, the error message on failure.
func (e *Engine) Update(ctx context.Context, playlistType string, progress chan<- ProgressUpdate) (*UpdateResult, error) {
	result, err := e.update(ctx, playlistType, progress)
	if err != nil {
		e.recordFailure(playlistType, err)
		return nil, err
	}
	return result, nil
}

func (e *Engine) update(ctx context.Context, playlistType string, progress chan<- ProgressUpdate) (*UpdateResult, error) {
	cfg, ok := e.config.Playlist(playlistType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownPlaylist, playlistType)
	}

	playlistID, err := e.mappings.Get(playlistType)
	if err != nil {
		return nil, err
	}
	if playlistID == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotMapped, playlistType)
	}

	logic := models.LogicType(cfg.Logic)
	period := models.PeriodFor(playlistType, logic)
	e.logger.Info("updating playlist", "type", playlistType, "logic", cfg.Logic, "playlist_id", playlistID)

	previous, err := e.snapshots.Latest(playlistType)
	if err != nil {
		return nil, err
	}

	existing, err := e.service.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, discoveringUpdate(1, updateSteps, logic))
	candidates, err := e.selector.Discover(ctx, logic, e.config.Selection.DiscoveryLimit)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, scoringUpdate(2, updateSteps, len(candidates)))
	weights := selector.WeightsFromConfig(e.config.Scoring.Weights)
	scored := selector.Score(candidates, previous, period, weights, e.now())
	scored = selector.SortByScore(scored)

	e.sendProgress(progress, filteringUpdate(3, updateSteps))
	filtered := selector.FilterByPopularity(scored, e.config.Selection.MinPopularity)
	filtered = selector.FilterExplicit(filtered, e.config.Selection.AllowExplicit)
	filtered = selector.CapPerArtist(filtered, cfg.ArtistCap)
	filtered = selector.ExcludeExisting(filtered, models.TrackIDSet(existing))
	filtered = selector.DedupeByID(filtered)

	size := cfg.Size
	if size <= 0 {
		size = defaultPlaylistSize
	}

	e.sendProgress(progress, allocatingUpdate(4, updateSteps, size))
	selection := selector.Allocate(filtered, size, cfg.DiversityFloorPct)

	result := &UpdateResult{
		PlaylistType: playlistType,
		PlaylistID:   playlistID,
		Candidates:   len(candidates),
		Selected:     len(selection),
	}

	if len(selection) == 0 {
		e.sendProgress(progress, emptySelectionUpdate(5, updateSteps))
		e.logger.Warn("no tracks selected, skipping publish", "type", playlistType)
		if err := e.recordSuccess(playlistType, 0); err != nil {
			return nil, err
		}
		return result, nil
	}

	e.sendProgress(progress, publishingUpdate(5, updateSteps, publishStrategy(logic)))
	removed, err := e.publish(ctx, playlistID, logic, selection, size)
	if err != nil {
		return nil, err
	}
	result.Removed = removed

	e.sendProgress(progress, snapshottingUpdate(6, updateSteps, len(selection)))
	snapshot := models.NewSnapshot(playlistType, selection, e.now())
	if err := e.snapshots.Create(&snapshot); err != nil {
		return nil, err
	}

	export, err := formatter.WriteSnapshotFiles(&snapshot, e.config.App.SnapshotDir)
	if err != nil {
		return nil, err
	}
	result.Snapshot = &snapshot
	result.Export = export

	if err := e.recordSuccess(playlistType, len(selection)); err != nil {
		return nil, err
	}

	e.logger.Info("playlist updated", "type", playlistType, "selected", len(selection), "removed", removed)
	return result, nil
}

// publishStrategy names how a selection lands on the live playlist.
func publishStrategy(logic models.LogicType) string {
	switch logic {
	case models.LogicPreviousDay, models.LogicPreviousWeek:
		return "replace"
	case models.LogicMonthToDate, models.LogicYearToDate:
		return "accumulate"
	default:
		return "append"
	}
}

// publish applies the selection to the live playlist. Replace strategies
// clear the playlist then add; accumulate strategies append and trim the
// overflow from the bottom. Returns how many tracks were trimmed.
func (e *Engine) publish(ctx context.Context, playlistID string, logic models.LogicType, selection []models.Track, size int) (int, error) {
	uris := models.TrackURIs(selection)

	switch logic {
	case models.LogicPreviousDay, models.LogicPreviousWeek:
		if err := e.service.ReplaceTracks(ctx, playlistID, nil); err != nil {
			return 0, err
		}
		return 0, e.service.AddTracks(ctx, playlistID, uris)

	case models.LogicMonthToDate, models.LogicYearToDate:
		if err := e.service.AddTracks(ctx, playlistID, uris); err != nil {
			return 0, err
		}
		return e.trimOverflow(ctx, playlistID, size)

	default:
		return 0, e.service.AddTracks(ctx, playlistID, uris)
	}
}

// trimOverflow re-reads the playlist after an append and removes everything
// past the size bound, oldest additions staying on top.
func (e *Engine) trimOverflow(ctx context.Context, playlistID string, size int) (int, error) {
	current, err := e.service.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return 0, err
	}
	if len(current) <= size {
		return 0, nil
	}

	overflow := models.TrackURIs(current[size:])
	if err := e.service.RemoveTracks(ctx, playlistID, overflow); err != nil {
		return 0, err
	}
	return len(overflow), nil
}

func (e *Engine) recordSuccess(playlistType string, trackCount int) error {
	record := &models.RunRecord{
		PlaylistType: playlistType,
		RanAt:        e.now(),
		TrackCount:   trackCount,
		Success:      true,
	}
	return e.runs.Create(record)
}

func (e *Engine) recordFailure(playlistType string, cause error) {
	record := &models.RunRecord{
		PlaylistType: playlistType,
		RanAt:        e.now(),
		Success:      false,
		ErrorMessage: cause.Error(),
	}
	if err := e.runs.Create(record); err != nil {
		e.logger.Error("failed to record run failure", "type", playlistType, "error", err)
	}
}
