package services

import (
	"context"

	"github.com/desertthunder/airlift/internal/models"
)

// Catalog defines the interface for the remote music-streaming catalog
// (Spotify) against which scraped songs are resolved and playlists managed.
type Catalog interface {
	// Authenticate performs OAuth or token authentication with the catalog.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// SearchTracks performs a free-text track search and returns candidates
	// ordered best match first, at most limit entries.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// PlaylistItems retrieves one page of playlist tracks starting at offset.
	// next reports whether another page exists beyond the returned one.
	PlaylistItems(ctx context.Context, playlistID string, offset int) (items []models.Track, next bool, err error)

	// AppendTracks appends up to 99 track IDs to a playlist in one call.
	AppendTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// CreatePlaylist creates a new playlist for the configured user.
	// Administrative; not in the monitoring hot path.
	CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error)

	// TrackLink returns the public web link for a track ID.
	TrackLink(trackID string) string

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}

// Source abstracts "ask the station for the current artist/title."
//
// Implementations are swappable scraping backends selected via configuration.
// A fetch that times out or yields empty fields returns an error, never a
// partially-populated sample.
type Source interface {
	// NowPlaying fetches the current now-playing sample from the station.
	NowPlaying(ctx context.Context) (*models.Sample, error)

	// Name returns the name of the source (e.g., the station call sign)
	Name() string
}
