package services

import (
	"context"

	"github.com/desertthunder/spincycle/internal/models"
)

// Service defines the interface for a music catalog provider that can
// discover tracks and manage playlists for the authenticated user.
type Service interface {
	// Name returns the name of the provider (e.g., "Spotify")
	Name() string

	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*User, error)

	// SearchTracks searches the catalog for tracks matching query.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// NewReleases retrieves recently released albums for the configured market.
	NewReleases(ctx context.Context, limit int) ([]models.Album, error)

	// GetPlaylist retrieves a specific playlist by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error)

	// FindPlaylistByName scans the user's playlists for an exact name match.
	// Returns an error wrapping shared.ErrPlaylistNotFound when nothing matches.
	FindPlaylistByName(ctx context.Context, name string) (*Playlist, error)

	// CreatePlaylist creates a playlist owned by the authenticated user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*Playlist, error)

	// RenamePlaylist changes a playlist's display name.
	RenamePlaylist(ctx context.Context, playlistID, name string) error

	// PlaylistTracks retrieves the full contents of a playlist, following
	// pagination until the last page.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// ReplaceTracks overwrites the playlist contents with the given track
	// URIs. An empty slice clears the playlist.
	ReplaceTracks(ctx context.Context, playlistID string, uris []string) error

	// AddTracks appends the given track URIs to the playlist.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// RemoveTracks deletes all occurrences of the given track URIs from the playlist.
	RemoveTracks(ctx context.Context, playlistID string, uris []string) error
}

// Playlist represents a playlist on the provider
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
}

// User represents the authenticated account on the provider
type User struct {
	ID          string
	DisplayName string
}
