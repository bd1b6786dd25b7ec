package models

import (
	"fmt"
	"time"
)

// LogicType is the configured update strategy for a managed playlist.
//
// The update engine dispatches on this in a single switch; values outside
// the declared set fall through to plain append behavior.
type LogicType string

const (
	LogicPreviousDay  LogicType = "previous_day"
	LogicPreviousWeek LogicType = "previous_week"
	LogicMonthToDate  LogicType = "month_to_date"
	LogicYearToDate   LogicType = "year_to_date"
)

// Period returns the cadence a logic type naturally serves.
func (l LogicType) Period() Period {
	switch l {
	case LogicPreviousDay:
		return PeriodDaily
	case LogicPreviousWeek:
		return PeriodWeekly
	case LogicMonthToDate:
		return PeriodMonthly
	case LogicYearToDate:
		return PeriodYearly
	default:
		return PeriodGeneral
	}
}

// Period is the cadence tag of a playlist, driving recency weighting.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodGeneral Period = "general"
)

// ParsePeriod maps a playlist type name to its period, defaulting to
// [PeriodGeneral] for unrecognized names.
func ParsePeriod(name string) Period {
	switch Period(name) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return Period(name)
	default:
		return PeriodGeneral
	}
}

// PeriodFor resolves the period for a playlist: the type name wins when it
// is a known period, otherwise the logic type's natural cadence applies.
func PeriodFor(playlistType string, logic LogicType) Period {
	if p := ParsePeriod(playlistType); p != PeriodGeneral {
		return p
	}
	return logic.Period()
}

// Artist is a track credit. The first artist on a track is its primary.
type Artist struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Track is a candidate unit of music flowing through the selection pipeline.
//
// Score is assigned by the scorer and is not part of the track's identity.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artists     []Artist `json:"artists,omitempty"`
	Album       string   `json:"album,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Popularity  int      `json:"popularity"`
	Explicit    bool     `json:"explicit"`
	URI         string   `json:"uri,omitempty"`
	Genre       string   `json:"genre,omitempty"`
	Score       float64  `json:"score"`
}

// Validate checks that the track carries a stable identifier.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("track missing id")
	}
	return nil
}

// PrimaryArtist returns the first artist credit, or a zero Artist when the
// track has none.
func (t Track) PrimaryArtist() Artist {
	if len(t.Artists) == 0 {
		return Artist{}
	}
	return t.Artists[0]
}

// PrimaryArtistKey returns a counting key for the primary artist: the
// artist ID when present, the name otherwise.
func (t Track) PrimaryArtistKey() string {
	artist := t.PrimaryArtist()
	if artist.ID != "" {
		return artist.ID
	}
	return artist.Name
}

// releaseDateLayout is the only release date precision that contributes to
// recency; year or year-month values never do.
const releaseDateLayout = "2006-01-02"

// AgeDays reports how many days ago the track's album was released.
// The second return is false when the release date is missing or not a
// full date.
func (t Track) AgeDays(now time.Time) (int, bool) {
	if t.ReleaseDate == "" {
		return 0, false
	}
	released, err := time.Parse(releaseDateLayout, t.ReleaseDate)
	if err != nil {
		return 0, false
	}
	return int(now.Sub(released).Hours() / 24), true
}

// SpotifyURI returns the track's playable URI, deriving one from the ID
// when the service response omitted it.
func (t Track) SpotifyURI() string {
	if t.URI != "" {
		return t.URI
	}
	return "spotify:track:" + t.ID
}

// TrackURIs collects the playable URIs for a track list, in order.
func TrackURIs(tracks []Track) []string {
	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.SpotifyURI()
	}
	return uris
}

// TrackIDSet builds the identifier set used by deduplication.
func TrackIDSet(tracks []Track) map[string]struct{} {
	ids := make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		if t.ID != "" {
			ids[t.ID] = struct{}{}
		}
	}
	return ids
}

// Album is a new-release entry used to seed discovery searches.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
}

// PrimaryArtist returns the first artist credit, or a zero Artist when the
// album has none.
func (a Album) PrimaryArtist() Artist {
	if len(a.Artists) == 0 {
		return Artist{}
	}
	return a.Artists[0]
}

// ReleasedOn parses the album's release date. The second return is false
// when the date is missing or not day-precise.
func (a Album) ReleasedOn() (time.Time, bool) {
	if a.ReleaseDate == "" {
		return time.Time{}, false
	}
	released, err := time.Parse(releaseDateLayout, a.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return released, true
}

// Snapshot is an immutable, timestamped record of the track list selected
// for a playlist during one update run.
type Snapshot struct {
	ID           string    `json:"-"`
	Seq          int       `json:"-"`
	PlaylistType string    `json:"playlist_type"`
	TakenAt      time.Time `json:"timestamp"`
	TrackCount   int       `json:"tracks_count"`
	Tracks       []Track   `json:"tracks"`
}

// NewSnapshot builds a snapshot for a selection, deriving the track count.
func NewSnapshot(playlistType string, tracks []Track, takenAt time.Time) Snapshot {
	return Snapshot{
		PlaylistType: playlistType,
		TakenAt:      takenAt,
		TrackCount:   len(tracks),
		Tracks:       tracks,
	}
}

// Validate checks the snapshot is well formed for persistence.
func (s Snapshot) Validate() error {
	if s.PlaylistType == "" {
		return fmt.Errorf("snapshot missing playlist type")
	}
	if s.TrackCount != len(s.Tracks) {
		return fmt.Errorf("snapshot track count %d does not match %d tracks", s.TrackCount, len(s.Tracks))
	}
	return nil
}

// FindTrack locates a snapshot track by identifier.
func (s *Snapshot) FindTrack(id string) (Track, bool) {
	if s == nil {
		return Track{}, false
	}
	for _, t := range s.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// RunRecord is an append-only audit record of one update attempt.
type RunRecord struct {
	ID           string    `json:"-"`
	Seq          int       `json:"-"`
	PlaylistType string    `json:"playlist_type"`
	RanAt        time.Time `json:"timestamp"`
	TrackCount   int       `json:"tracks_count"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error,omitempty"`
}

// Validate checks the run record is well formed for persistence.
func (r RunRecord) Validate() error {
	if r.PlaylistType == "" {
		return fmt.Errorf("run record missing playlist type")
	}
	return nil
}

// RunStats aggregates the outcome counts for one playlist type.
type RunStats struct {
	Total      int `json:"total_updates"`
	Successful int `json:"successful_updates"`
	Failed     int `json:"failed_updates"`
}
