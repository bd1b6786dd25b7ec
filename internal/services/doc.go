// Package services defines the [Service] interface for music catalog providers and implements it for the Spotify Web API.
//
// # Service Interface
//
// The curation pipeline talks to its provider through a common abstraction,
// so discovery and playlist maintenance never depend on Spotify directly.
// Test doubles implement [Service] without any network access.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with a long-lived refresh token. An
// [oauth2.TokenSource] performs the refresh grant on demand and caches the
// resulting access tokens until they expire, so no interactive flow is needed.
//
// Requests are paced by a client-side [rate.Limiter] and retried with
// exponential backoff per [RetryPolicy]. A 429 response waits out the
// server's Retry-After interval before the next attempt.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrRefreshFailed] : token refresh rejected
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] : no playlist matched a name lookup
//
// # API Mappings
//
// Spotify JSON responses convert to domain types at the service boundary:
//   - [SpotifyTrack] → [models.Track] with release date taken from the album object
//   - [SpotifyAlbum] → [models.Album]
//   - [SpotifyPlaylist] → [Playlist]
package services
