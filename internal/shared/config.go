package shared

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	App         AppConfig                 `toml:"app"`
	Database    DatabaseConfig            `toml:"database"`
	Credentials CredentialsConfig         `toml:"credentials"`
	Persona     PersonaConfig             `toml:"persona"`
	Client      ClientConfig              `toml:"client"`
	Scoring     ScoringConfig             `toml:"scoring"`
	Selection   SelectionConfig           `toml:"selection"`
	Genres      GenresConfig              `toml:"genres"`
	Playlists   map[string]PlaylistConfig `toml:"playlists"`
	Seeding     map[string]SeedingConfig  `toml:"seeding"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	SnapshotDir string `toml:"snapshot_dir"`
	LogLevel    string `toml:"log_level"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
//
// Environment variables (SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET,
// SPOTIFY_REFRESH_TOKEN, SPOTIFY_USER_ID) override file values, see
// [Config.ApplyEnv].
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	UserID       string `toml:"user_id"`
	Market       string `toml:"market"`
}

// Validate checks that all credentials required for API access are present.
func (s SpotifyConfig) Validate() error {
	var missing []string
	if s.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if s.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if s.RefreshToken == "" {
		missing = append(missing, "refresh_token")
	}
	if s.UserID == "" {
		missing = append(missing, "user_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingCredentials, missing)
	}
	return nil
}

// PersonaConfig names the curator persona used for playlist naming.
type PersonaConfig struct {
	Name   string `toml:"name"`
	Prefix string `toml:"prefix"`
}

// ClientConfig tunes the API client's pacing and retry behavior.
type ClientConfig struct {
	RateLimit           float64 `toml:"rate_limit"`
	RetryMaxAttempts    int     `toml:"retry_max_attempts"`
	RetryWaitMinSeconds int     `toml:"retry_wait_min_seconds"`
	RetryWaitMaxSeconds int     `toml:"retry_wait_max_seconds"`
}

// ScoringConfig holds the default scoring weights.
type ScoringConfig struct {
	Weights WeightsConfig `toml:"weights"`
}

// WeightsConfig contains the linear coefficients for the track score.
type WeightsConfig struct {
	Popularity      float64 `toml:"popularity"`
	PopularityDelta float64 `toml:"popularity_delta"`
	RecencyBoost    float64 `toml:"recency_boost"`
}

// SelectionConfig tunes discovery and filtering.
type SelectionConfig struct {
	MinPopularity  int  `toml:"min_popularity"`
	AllowExplicit  bool `toml:"allow_explicit"`
	DiscoveryLimit int  `toml:"discovery_limit"`
}

// GenresConfig groups search terms into named genre buckets.
type GenresConfig struct {
	Buckets map[string][]string `toml:"buckets"`
}

// BucketNames returns the bucket names in sorted order so discovery walks
// them deterministically.
func (g GenresConfig) BucketNames() []string {
	names := make([]string, 0, len(g.Buckets))
	for name := range g.Buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlaylistConfig is the declarative policy for one managed playlist.
type PlaylistConfig struct {
	Logic             string         `toml:"logic"`
	Size              int            `toml:"size"`
	ArtistCap         int            `toml:"artist_cap"`
	Active            bool           `toml:"active"`
	Schedule          string         `toml:"schedule"`
	DiversityFloorPct int            `toml:"diversity_floor_pct"`
	Rollover          RolloverConfig `toml:"rollover"`
}

// RolloverConfig controls the finalize-and-recreate lifecycle transition.
type RolloverConfig struct {
	RenameFinal bool   `toml:"rename_final"`
	FinalSuffix string `toml:"final_suffix"`
	Schedule    string `toml:"schedule"`
}

// SeedingConfig sets how many tracks a freshly rolled-over playlist pulls
// from its daily and weekly siblings.
type SeedingConfig struct {
	TopDaily  int `toml:"top_daily"`
	TopWeekly int `toml:"top_weekly"`
}

// canonical ordering for the well-known playlist types
var periodOrder = map[string]int{"daily": 0, "weekly": 1, "monthly": 2, "yearly": 3}

// PlaylistTypes returns the configured playlist type names in a stable
// order: the well-known periods first, anything else alphabetically after.
func (c *Config) PlaylistTypes() []string {
	names := make([]string, 0, len(c.Playlists))
	for name := range c.Playlists {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, iKnown := periodOrder[names[i]]
		oj, jKnown := periodOrder[names[j]]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return names[i] < names[j]
		}
	})
	return names
}

// Playlist looks up the config block for a playlist type.
func (c *Config) Playlist(name string) (PlaylistConfig, bool) {
	p, ok := c.Playlists[name]
	return p, ok
}

// ApplyEnv overrides Spotify credentials with environment variables when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Credentials.Spotify.RefreshToken = v
	}
	if v := os.Getenv("SPOTIFY_USER_ID"); v != "" {
		c.Credentials.Spotify.UserID = v
	}
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
