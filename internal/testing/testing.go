// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/airlift/internal/models"
)

// MockCatalog is a configurable test double for [services.Catalog]
type MockCatalog struct {
	SearchResults map[string][]models.Track
	SearchErr     error
	SearchCalls   int

	Pages         [][]models.Track
	PlaylistErr   error
	PlaylistCalls int

	AppendErr      error
	AppendFailOn   int // 1-based call number to fail; 0 fails every call
	AppendCalls    int
	AppendedChunks [][]string

	Playlists       []models.Playlist
	CreateErr       error
	CreatedName     string
	AuthenticateErr error
}

func (m *MockCatalog) Name() string { return "mock-catalog" }

func (m *MockCatalog) Authenticate(ctx context.Context, credentials map[string]string) error {
	return m.AuthenticateErr
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	m.SearchCalls++
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if m.SearchResults == nil {
		return nil, nil
	}
	return m.SearchResults[query], nil
}

func (m *MockCatalog) PlaylistItems(ctx context.Context, playlistID string, offset int) ([]models.Track, bool, error) {
	m.PlaylistCalls++
	if m.PlaylistErr != nil {
		return nil, false, m.PlaylistErr
	}

	page := offset / 100
	if page >= len(m.Pages) {
		return nil, false, nil
	}
	return m.Pages[page], page+1 < len(m.Pages), nil
}

func (m *MockCatalog) AppendTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.AppendCalls++
	if m.AppendErr != nil && (m.AppendFailOn == 0 || m.AppendCalls == m.AppendFailOn) {
		return m.AppendErr
	}
	chunk := make([]string, len(trackIDs))
	copy(chunk, trackIDs)
	m.AppendedChunks = append(m.AppendedChunks, chunk)
	return nil
}

func (m *MockCatalog) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.Playlists, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.CreatedName = name
	return &models.Playlist{ID: "created", Name: name, Description: description}, nil
}

func (m *MockCatalog) TrackLink(trackID string) string {
	return "https://open.spotify.com/track/" + trackID
}

// MockSource is a scripted test double for [services.Source]: each call to
// NowPlaying consumes the next queued sample or error.
type MockSource struct {
	Samples []*models.Sample
	Errs    []error
	Calls   int
}

func (m *MockSource) Name() string { return "mock-station" }

func (m *MockSource) NowPlaying(ctx context.Context) (*models.Sample, error) {
	i := m.Calls
	m.Calls++

	if i < len(m.Errs) && m.Errs[i] != nil {
		return nil, m.Errs[i]
	}
	if i < len(m.Samples) && m.Samples[i] != nil {
		return m.Samples[i], nil
	}
	return nil, errors.New("mock source exhausted")
}

// Playing builds a now-playing sample for test scripts.
func Playing(artist, title string) *models.Sample {
	return &models.Sample{Artist: artist, Title: title, ObservedAt: time.Now()}
}

// MockRecorder captures history events in memory.
type MockRecorder struct {
	Events    []*models.Event
	RecordErr error
}

func (m *MockRecorder) Record(event *models.Event) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.Events = append(m.Events, event)
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	Response *http.Response
	Err      error
	Requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{Response: r, Err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	return m.Response, m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
