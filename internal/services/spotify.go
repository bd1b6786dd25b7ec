// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/shared"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify caps playlist mutations at 100 URIs per request.
	trackBatchSize = 100

	playlistItemsPageLimit = 100
	userPlaylistsPageLimit = 50
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

type playlistTracksRef struct {
	Total int `json:"total"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Public      bool              `json:"public"`
	Tracks      playlistTracksRef `json:"tracks"`
}

// SpotifyPlaylistTrack wraps a track entry within a playlist. Local files
// and removed tracks surface as null entries.
type SpotifyPlaylistTrack struct {
	Track *SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks represents a page of playlist tracks.
type SpotifyPaginatedTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

// SpotifyPaginatedPlaylists represents a page of the user's playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifyPlaylist `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
	Next   *string           `json:"next"`
}

type searchTracks struct {
	Items []SpotifyTrack `json:"items"`
}

// SpotifySearchResult represents the track portion of a search response.
type SpotifySearchResult struct {
	Tracks searchTracks `json:"tracks"`
}

type newReleaseAlbums struct {
	Items []SpotifyAlbum `json:"items"`
}

// SpotifyNewReleases represents the browse new-releases response.
type SpotifyNewReleases struct {
	Albums newReleaseAlbums `json:"albums"`
}

type createPlaylistBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type trackURIsBody struct {
	URIs []string `json:"uris"`
}

type removeTrackRef struct {
	URI string `json:"uri"`
}

type removeTracksBody struct {
	Tracks []removeTrackRef `json:"tracks"`
}

func spotifyArtists(artists []SpotifyArtist) []models.Artist {
	converted := make([]models.Artist, 0, len(artists))
	for _, artist := range artists {
		converted = append(converted, models.Artist{ID: artist.ID, Name: artist.Name})
	}
	return converted
}

func (t SpotifyTrack) toTrack() models.Track {
	return models.Track{
		ID:          t.ID,
		Title:       t.Name,
		Artists:     spotifyArtists(t.Artists),
		Album:       t.Album.Name,
		ReleaseDate: t.Album.ReleaseDate,
		Popularity:  t.Popularity,
		Explicit:    t.Explicit,
		URI:         t.URI,
	}
}

func (a SpotifyAlbum) toAlbum() models.Album {
	return models.Album{
		ID:          a.ID,
		Name:        a.Name,
		Artists:     spotifyArtists(a.Artists),
		ReleaseDate: a.ReleaseDate,
	}
}

func (p SpotifyPlaylist) toPlaylist() Playlist {
	return Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TrackCount:  p.Tracks.Total,
		Public:      p.Public,
	}
}

const (
	defaultRetryAttempts = 3
	defaultRetryWaitMin  = 4 * time.Second
	defaultRetryWaitMax  = 10 * time.Second

	// wait applied to a 429 response that carries no Retry-After header
	retryAfterFallback = 60 * time.Second
)

// RetryPolicy bounds how often a failed Spotify request is reattempted.
// MaxAttempts counts the initial request, so 1 disables retries.
type RetryPolicy struct {
	MaxAttempts int
	WaitMin     time.Duration
	WaitMax     time.Duration
}

func policyFromConfig(cfg shared.ClientConfig) RetryPolicy {
	policy := RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		WaitMin:     time.Duration(cfg.RetryWaitMinSeconds) * time.Second,
		WaitMax:     time.Duration(cfg.RetryWaitMaxSeconds) * time.Second,
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaultRetryAttempts
	}
	if policy.WaitMin <= 0 {
		policy.WaitMin = defaultRetryWaitMin
	}
	if policy.WaitMax <= 0 {
		policy.WaitMax = defaultRetryWaitMax
	}
	return policy
}

func newRequestLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// SpotifyService implements the Service interface against the Spotify Web
// API. Uses [oauth2] refresh-token authentication, a client-side rate
// limiter, and bounded retries with exponential backoff.
type SpotifyService struct {
	client  *resty.Client
	tokens  oauth2.TokenSource
	limiter *rate.Limiter
	userID  string
	market  string
}

// NewSpotifyService creates a Spotify client from stored credentials and
// client tuning. The refresh token is exchanged for short-lived access
// tokens as requests need them.
func NewSpotifyService(creds shared.SpotifyConfig, client shared.ClientConfig) (*SpotifyService, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: spotifyTokenURL},
	}

	s := &SpotifyService{
		tokens:  conf.TokenSource(context.Background(), &oauth2.Token{RefreshToken: creds.RefreshToken}),
		limiter: newRequestLimiter(client.RateLimit),
		userID:  creds.UserID,
		market:  creds.Market,
	}
	s.client = s.newAPIClient(spotifyBaseURL, policyFromConfig(client))
	return s, nil
}

// newAPIClient builds the resty client shared by all endpoint methods.
// Every attempt waits on the rate limiter and attaches a current bearer
// token; 429 and 5xx responses retry with exponential backoff.
func (s *SpotifyService) newAPIClient(baseURL string, policy RetryPolicy) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(max(0, policy.MaxAttempts-1)).
		SetRetryWaitTime(policy.WaitMin).
		SetRetryMaxWaitTime(policy.WaitMax).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp == nil || resp.StatusCode() != http.StatusTooManyRequests {
				return 0, nil
			}
			seconds, err := strconv.Atoi(resp.Header().Get("Retry-After"))
			if err != nil || seconds <= 0 {
				return retryAfterFallback, nil
			}
			return time.Duration(seconds) * time.Second, nil
		})

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if err := s.limiter.Wait(req.Context()); err != nil {
			return err
		}
		token, err := s.tokens.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
		}
		req.SetAuthToken(token.AccessToken)
		return nil
	})

	return client
}

// doRequest performs an authenticated request against the Spotify API and
// decodes the response into result when provided.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	req := s.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s %s: %w: status %d", method, endpoint, shared.ErrAPIRequest, resp.StatusCode())
	}
	return nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "GET", "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Search queries the catalog for tracks matching query.
func (s *SpotifyService) Search(ctx context.Context, query string, limit int) (*SpotifySearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))
	if s.market != "" {
		params.Set("market", s.market)
	}

	var result SpotifySearchResult
	if err := s.doRequest(ctx, "GET", "/search?"+params.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BrowseNewReleases retrieves recently released albums for the configured market.
func (s *SpotifyService) BrowseNewReleases(ctx context.Context, limit int) (*SpotifyNewReleases, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if s.market != "" {
		params.Set("country", s.market)
	}

	var result SpotifyNewReleases
	if err := s.doRequest(ctx, "GET", "/browse/new-releases?"+params.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Playlist retrieves a single playlist by ID.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error) {
	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/playlists/%s", playlistID)
	if err := s.doRequest(ctx, "GET", endpoint, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// UserPlaylists retrieves one page of the user's playlists.
func (s *SpotifyService) UserPlaylists(ctx context.Context, limit, offset int) (*SpotifyPaginatedPlaylists, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var page SpotifyPaginatedPlaylists
	endpoint := fmt.Sprintf("/users/%s/playlists?%s", s.userID, params.Encode())
	if err := s.doRequest(ctx, "GET", endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PlaylistItems retrieves one page of a playlist's tracks.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string, limit, offset int) (*SpotifyPaginatedTracks, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var page SpotifyPaginatedTracks
	endpoint := fmt.Sprintf("/playlists/%s/tracks?%s", playlistID, params.Encode())
	if err := s.doRequest(ctx, "GET", endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Service interface implementation

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*User, error) {
	profile, err := s.UserProfile(ctx)
	if err != nil {
		return nil, err
	}
	return &User{ID: profile.ID, DisplayName: profile.DisplayName}, nil
}

// SearchTracks searches the catalog for tracks matching query.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	result, err := s.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(result.Tracks.Items))
	for _, item := range result.Tracks.Items {
		tracks = append(tracks, item.toTrack())
	}
	return tracks, nil
}

// NewReleases retrieves recently released albums for the configured market.
func (s *SpotifyService) NewReleases(ctx context.Context, limit int) ([]models.Album, error) {
	result, err := s.BrowseNewReleases(ctx, limit)
	if err != nil {
		return nil, err
	}

	albums := make([]models.Album, 0, len(result.Albums.Items))
	for _, item := range result.Albums.Items {
		albums = append(albums, item.toAlbum())
	}
	return albums, nil
}

// GetPlaylist retrieves a specific playlist by ID.
func (s *SpotifyService) GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	raw, err := s.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	playlist := raw.toPlaylist()
	return &playlist, nil
}

// FindPlaylistByName scans the user's playlists for an exact name match.
func (s *SpotifyService) FindPlaylistByName(ctx context.Context, name string) (*Playlist, error) {
	limit := userPlaylistsPageLimit
	for offset := 0; ; offset += limit {
		page, err := s.UserPlaylists(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.Name == name {
				playlist := item.toPlaylist()
				return &playlist, nil
			}
		}
		if len(page.Items) < limit {
			return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
		}
	}
}

// CreatePlaylist creates a playlist owned by the authenticated user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*Playlist, error) {
	body := createPlaylistBody{Name: name, Description: description, Public: public}
	endpoint := fmt.Sprintf("/users/%s/playlists", s.userID)

	var created SpotifyPlaylist
	if err := s.doRequest(ctx, "POST", endpoint, body, &created); err != nil {
		return nil, err
	}
	playlist := created.toPlaylist()
	return &playlist, nil
}

// RenamePlaylist changes a playlist's display name.
func (s *SpotifyService) RenamePlaylist(ctx context.Context, playlistID, name string) error {
	endpoint := fmt.Sprintf("/playlists/%s", playlistID)
	return s.doRequest(ctx, "PUT", endpoint, map[string]string{"name": name}, nil)
}

// PlaylistTracks retrieves the full contents of a playlist, following
// pagination until the last page.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	var tracks []models.Track
	limit := playlistItemsPageLimit
	for offset := 0; ; offset += limit {
		page, err := s.PlaylistItems(ctx, playlistID, limit, offset)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.Track == nil {
				continue
			}
			tracks = append(tracks, item.Track.toTrack())
		}
		if len(page.Items) < limit {
			return tracks, nil
		}
	}
}

// ReplaceTracks overwrites the playlist contents with the given track URIs.
// The first hundred go in the replace call and the remainder is appended in
// batches.
func (s *SpotifyService) ReplaceTracks(ctx context.Context, playlistID string, uris []string) error {
	head := uris
	if len(head) > trackBatchSize {
		head = uris[:trackBatchSize]
	}
	if head == nil {
		head = []string{}
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	if err := s.doRequest(ctx, "PUT", endpoint, trackURIsBody{URIs: head}, nil); err != nil {
		return err
	}
	if len(uris) > trackBatchSize {
		return s.AddTracks(ctx, playlistID, uris[trackBatchSize:])
	}
	return nil
}

// AddTracks appends the given track URIs to the playlist in batches.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	for start := 0; start < len(uris); start += trackBatchSize {
		batch := uris[start:min(start+trackBatchSize, len(uris))]
		if err := s.doRequest(ctx, "POST", endpoint, trackURIsBody{URIs: batch}, nil); err != nil {
			return err
		}
	}
	return nil
}

// RemoveTracks deletes all occurrences of the given track URIs from the playlist.
func (s *SpotifyService) RemoveTracks(ctx context.Context, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	for start := 0; start < len(uris); start += trackBatchSize {
		batch := uris[start:min(start+trackBatchSize, len(uris))]
		body := removeTracksBody{Tracks: make([]removeTrackRef, len(batch))}
		for i, uri := range batch {
			body.Tracks[i] = removeTrackRef{URI: uri}
		}
		if err := s.doRequest(ctx, "DELETE", endpoint, body, nil); err != nil {
			return err
		}
	}
	return nil
}
