// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/services"
	"github.com/desertthunder/spincycle/internal/shared"
)

var _ services.Service = (*MockService)(nil)

// PlaylistOp records a playlist mutation performed on [MockService].
type PlaylistOp struct {
	Method     string
	PlaylistID string
	URIs       []string
}

// MockService is a stateful test double for [services.Service]. Playlist
// mutations update Contents, so flows that read back what they wrote see
// their own changes.
type MockService struct {
	User          *services.User
	Releases      []models.Album
	SearchResults map[string][]models.Track
	DefaultSearch []models.Track
	Playlists     map[string]*services.Playlist
	Contents      map[string][]models.Track

	// FailWith is returned by every method, or only by the method named in
	// FailOn when that is set.
	FailWith error
	FailOn   string

	Ops     []PlaylistOp
	created int
}

func (m *MockService) ensure() {
	if m.Playlists == nil {
		m.Playlists = make(map[string]*services.Playlist)
	}
	if m.Contents == nil {
		m.Contents = make(map[string][]models.Track)
	}
}

func (m *MockService) fail(method string) error {
	if m.FailWith != nil && (m.FailOn == "" || m.FailOn == method) {
		return m.FailWith
	}
	return nil
}

func (m *MockService) record(method, playlistID string, uris []string) {
	m.Ops = append(m.Ops, PlaylistOp{Method: method, PlaylistID: playlistID, URIs: append([]string(nil), uris...)})
}

func trackFromURI(uri string) models.Track {
	return models.Track{ID: strings.TrimPrefix(uri, "spotify:track:"), URI: uri}
}

func tracksFromURIs(uris []string) []models.Track {
	tracks := make([]models.Track, 0, len(uris))
	for _, uri := range uris {
		tracks = append(tracks, trackFromURI(uri))
	}
	return tracks
}

func (m *MockService) Name() string { return "Mock" }

func (m *MockService) CurrentUser(ctx context.Context) (*services.User, error) {
	if err := m.fail("CurrentUser"); err != nil {
		return nil, err
	}
	if m.User != nil {
		user := *m.User
		return &user, nil
	}
	return &services.User{ID: "mock-user", DisplayName: "Mock User"}, nil
}

func (m *MockService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if err := m.fail("SearchTracks"); err != nil {
		return nil, err
	}

	results, ok := m.SearchResults[query]
	if !ok {
		results = m.DefaultSearch
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return append([]models.Track(nil), results...), nil
}

func (m *MockService) NewReleases(ctx context.Context, limit int) ([]models.Album, error) {
	if err := m.fail("NewReleases"); err != nil {
		return nil, err
	}

	releases := m.Releases
	if limit > 0 && len(releases) > limit {
		releases = releases[:limit]
	}
	return append([]models.Album(nil), releases...), nil
}

func (m *MockService) GetPlaylist(ctx context.Context, playlistID string) (*services.Playlist, error) {
	if err := m.fail("GetPlaylist"); err != nil {
		return nil, err
	}
	m.ensure()

	playlist, ok := m.Playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	out := *playlist
	return &out, nil
}

func (m *MockService) FindPlaylistByName(ctx context.Context, name string) (*services.Playlist, error) {
	if err := m.fail("FindPlaylistByName"); err != nil {
		return nil, err
	}
	m.ensure()

	for _, playlist := range m.Playlists {
		if playlist.Name == name {
			out := *playlist
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
}

func (m *MockService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*services.Playlist, error) {
	if err := m.fail("CreatePlaylist"); err != nil {
		return nil, err
	}
	m.ensure()

	m.created++
	playlist := &services.Playlist{
		ID:          fmt.Sprintf("mock-playlist-%d", m.created),
		Name:        name,
		Description: description,
		Public:      public,
	}
	m.Playlists[playlist.ID] = playlist

	out := *playlist
	return &out, nil
}

func (m *MockService) RenamePlaylist(ctx context.Context, playlistID, name string) error {
	if err := m.fail("RenamePlaylist"); err != nil {
		return err
	}
	m.ensure()

	playlist, ok := m.Playlists[playlistID]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	playlist.Name = name
	return nil
}

func (m *MockService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if err := m.fail("PlaylistTracks"); err != nil {
		return nil, err
	}
	m.ensure()
	return append([]models.Track(nil), m.Contents[playlistID]...), nil
}

func (m *MockService) ReplaceTracks(ctx context.Context, playlistID string, uris []string) error {
	if err := m.fail("ReplaceTracks"); err != nil {
		return err
	}
	m.ensure()

	m.record("replace", playlistID, uris)
	m.Contents[playlistID] = tracksFromURIs(uris)
	return nil
}

func (m *MockService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if err := m.fail("AddTracks"); err != nil {
		return err
	}
	m.ensure()

	m.record("add", playlistID, uris)
	m.Contents[playlistID] = append(m.Contents[playlistID], tracksFromURIs(uris)...)
	return nil
}

func (m *MockService) RemoveTracks(ctx context.Context, playlistID string, uris []string) error {
	if err := m.fail("RemoveTracks"); err != nil {
		return err
	}
	m.ensure()

	m.record("remove", playlistID, uris)

	removed := make(map[string]struct{}, len(uris))
	for _, uri := range uris {
		removed[uri] = struct{}{}
	}

	var kept []models.Track
	for _, track := range m.Contents[playlistID] {
		if _, drop := removed[track.SpotifyURI()]; !drop {
			kept = append(kept, track)
		}
	}
	m.Contents[playlistID] = kept
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
