package selector

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/shared"
)

// DefaultDiscoveryLimit caps the candidate pool when configuration does
// not say otherwise.
const DefaultDiscoveryLimit = 500

// newReleaseLimit is how many current releases each discovery pass scans.
const newReleaseLimit = 50

// Catalog is the slice of the streaming service that discovery needs.
type Catalog interface {
	NewReleases(ctx context.Context, limit int) ([]models.Album, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)
}

// Selector discovers candidate tracks for a playlist's update logic.
type Selector struct {
	catalog Catalog
	genres  shared.GenresConfig
	logger  *log.Logger
	now     func() time.Time
}

// New builds a Selector over the given catalog and genre buckets.
func New(catalog Catalog, genres shared.GenresConfig, logger *log.Logger) *Selector {
	return &Selector{
		catalog: catalog,
		genres:  genres,
		logger:  logger,
		now:     time.Now,
	}
}

// discoveryPlan tunes how wide one update logic casts its net. Narrow
// release windows pull more tracks per matching album; wide windows lean
// on the genre searches instead.
type discoveryPlan struct {
	keep           func(album models.Album, now time.Time) bool
	perAlbum       int
	termsPerBucket int
	perTerm        int
}

// planFor maps an update logic to its discovery plan. Unknown logic
// values fall back to scanning every current release.
func planFor(logic models.LogicType) discoveryPlan {
	switch logic {
	case models.LogicPreviousDay:
		return discoveryPlan{keep: releasedYesterday, perAlbum: 20, termsPerBucket: 2, perTerm: 15}
	case models.LogicPreviousWeek:
		return discoveryPlan{keep: releasedSince(weekAgo), perAlbum: 15, termsPerBucket: 3, perTerm: 20}
	case models.LogicMonthToDate:
		return discoveryPlan{keep: releasedSince(monthStart), perAlbum: 10, termsPerBucket: 3, perTerm: 25}
	case models.LogicYearToDate:
		return discoveryPlan{keep: releasedSince(yearStart), perAlbum: 8, termsPerBucket: 3, perTerm: 30}
	default:
		return discoveryPlan{keep: keepAll, perAlbum: 20, termsPerBucket: 3, perTerm: 20}
	}
}

func releasedYesterday(album models.Album, now time.Time) bool {
	return album.ReleaseDate == now.AddDate(0, 0, -1).Format("2006-01-02")
}

// releasedSince keeps albums released on or after the cutoff. Albums
// without a day-precise release date are skipped.
func releasedSince(cutoff func(time.Time) time.Time) func(models.Album, time.Time) bool {
	return func(album models.Album, now time.Time) bool {
		released, ok := album.ReleasedOn()
		if !ok {
			return false
		}
		return !released.Before(cutoff(now))
	}
}

func weekAgo(now time.Time) time.Time {
	return now.AddDate(0, 0, -7)
}

func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func yearStart(now time.Time) time.Time {
	return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
}

func keepAll(models.Album, time.Time) bool { return true }

// Discover assembles the candidate pool for one update logic: tracks from
// matching new releases plus genre-term searches, deduplicated by
// identifier and truncated to limit.
func (s *Selector) Discover(ctx context.Context, logic models.LogicType, limit int) ([]models.Track, error) {
	if limit <= 0 {
		limit = DefaultDiscoveryLimit
	}
	now := s.now()
	plan := planFor(logic)

	s.logger.Info("discovering candidate tracks", "logic", logic)

	tracks, err := s.albumTracks(ctx, plan, now)
	if err != nil {
		return nil, err
	}

	genreTracks, err := s.genreTracks(ctx, plan, now)
	if err != nil {
		return nil, err
	}
	tracks = append(tracks, genreTracks...)

	unique := DedupeByID(tracks)
	if len(unique) > limit {
		unique = unique[:limit]
	}

	s.logger.Info("discovery complete", "logic", logic, "candidates", len(unique))
	return unique, nil
}

// albumTracks searches for the tracks of every new release the plan keeps.
func (s *Selector) albumTracks(ctx context.Context, plan discoveryPlan, now time.Time) ([]models.Track, error) {
	albums, err := s.catalog.NewReleases(ctx, newReleaseLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching new releases: %w", err)
	}

	var tracks []models.Track
	for _, album := range albums {
		if !plan.keep(album, now) {
			continue
		}
		query := fmt.Sprintf("album:%s artist:%s", album.Name, album.PrimaryArtist().Name)
		found, err := s.catalog.SearchTracks(ctx, query, plan.perAlbum)
		if err != nil {
			return nil, fmt.Errorf("searching album %q: %w", album.Name, err)
		}
		tracks = append(tracks, found...)
	}
	return tracks, nil
}

// genreTracks searches for the leading terms of every genre bucket,
// stamping results with their bucket so allocation can balance them.
func (s *Selector) genreTracks(ctx context.Context, plan discoveryPlan, now time.Time) ([]models.Track, error) {
	var tracks []models.Track
	for _, bucket := range s.genres.BucketNames() {
		terms := s.genres.Buckets[bucket]
		if len(terms) > plan.termsPerBucket {
			terms = terms[:plan.termsPerBucket]
		}
		for _, term := range terms {
			query := fmt.Sprintf("genre:%s year:%d", term, now.Year())
			found, err := s.catalog.SearchTracks(ctx, query, plan.perTerm)
			if err != nil {
				return nil, fmt.Errorf("searching genre %q: %w", term, err)
			}
			for i := range found {
				found[i].Genre = bucket
			}
			tracks = append(tracks, found...)
		}
	}
	return tracks, nil
}
