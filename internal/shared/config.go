package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Station     StationConfig     `toml:"station"`
	Monitor     MonitorConfig     `toml:"monitor"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and requested scopes.
type SpotifyConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURI  string   `toml:"redirect_uri"`
	UserID       string   `toml:"user_id"`
	Scopes       []string `toml:"scopes"`
}

// StationConfig describes the radio station's now-playing widget.
//
// The marker values are the CSS class names wrapping the artist and title
// text in the station page markup.
type StationConfig struct {
	URL                 string `toml:"url"`
	ArtistMarker        string `toml:"artist_marker"`
	TitleMarker         string `toml:"title_marker"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds"`
}

// FetchTimeout returns the widget fetch deadline as a [time.Duration].
func (s StationConfig) FetchTimeout() time.Duration {
	if s.FetchTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.FetchTimeoutSeconds) * time.Second
}

// MonitorConfig contains reconciliation loop settings.
type MonitorConfig struct {
	PlaylistID          string  `toml:"playlist_id"`
	IntervalSeconds     int     `toml:"interval_seconds"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	SearchLimit         int     `toml:"search_limit"`
}

// Interval returns the polling cadence as a [time.Duration].
func (m MonitorConfig) Interval() time.Duration {
	if m.IntervalSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(m.IntervalSeconds) * time.Second
}

// DatabaseConfig contains history database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the settings required for monitoring are present.
//
// Credentials and playlist identifiers cannot be defaulted, so a missing
// value is a startup failure rather than something to paper over.
func (c *Config) Validate() error {
	if c.Credentials.Spotify.ClientID == "" || c.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret are required", ErrMissingCredentials)
	}
	if c.Monitor.PlaylistID == "" {
		return fmt.Errorf("%w: monitor playlist_id is required", ErrInvalidConfig)
	}
	if c.Station.URL == "" {
		return fmt.Errorf("%w: station url is required", ErrInvalidConfig)
	}
	if c.Monitor.SimilarityThreshold < 0 || c.Monitor.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be in [0,1]", ErrInvalidConfig)
	}
	return nil
}
