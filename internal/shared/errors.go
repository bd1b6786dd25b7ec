package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")

	// Curation errors
	ErrUnknownPlaylist   = fmt.Errorf("unknown playlist type")
	ErrPlaylistNotMapped = fmt.Errorf("playlist not mapped")
	ErrInvalidTrack      = fmt.Errorf("invalid track")
	ErrNotFound          = fmt.Errorf("record not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
